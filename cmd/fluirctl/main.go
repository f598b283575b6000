// fluirctl is the operator CLI for the Fluir survey backend.
//
// Usage:
//
//	fluirctl migrate                 # create missing tables
//	fluirctl seed-email <address>    # register an admin recovery address
//	fluirctl score <answers.json|->  # score one submission offline
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nyashahama/fluir-backend/internal/config"
	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/prose"
	"github.com/nyashahama/fluir-backend/internal/recommend"
	"github.com/nyashahama/fluir-backend/internal/scoring"
	"github.com/nyashahama/fluir-backend/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "migrate":
		err = runMigrate()
	case "seed-email":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "seed-email: missing address")
			os.Exit(1)
		}
		err = runSeedEmail(os.Args[2])
	case "score":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "score: missing answers file")
			os.Exit(1)
		}
		err = runScore(os.Args[2], os.Stdout)
	case "--help", "-h", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore connects to DATABASE_URL and brings the schema up to date.
func openStore(ctx context.Context) (*store.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	dialect, dsn := db.ParseURL(cfg.DatabaseURL)
	pool, err := db.Open(ctx, dialect, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, pool, dialect); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store.New(pool, db.New(pool, dialect)), func() { pool.Close() }, nil
}

func runMigrate() error {
	_, cleanup, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer cleanup()
	fmt.Println("schema up to date")
	return nil
}

func runSeedEmail(addr string) error {
	ctx := context.Background()
	st, cleanup, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := st.SeedRecoveryEmail(ctx, addr); err != nil {
		return err
	}
	fmt.Printf("registered %s\n", store.NormalizeEmail(addr))
	return nil
}

type scoreReport struct {
	Dimensions      []scoring.DimensionScore   `json:"dim_scores"`
	Categories      []scoring.CategoryScore    `json:"category_scores"`
	KPIs            scoring.KPIs               `json:"kpis"`
	Summary         scoring.Summary            `json:"summary"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Prose           prose.Prose                `json:"recommendations_prose"`
}

// runScore reads {"1": 3, ...} from path ("-" for stdin) and prints the full
// result as the dashboard would show it for a single respondent, with
// template prose.
func runScore(path string, out io.Writer) error {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var raw map[string]int
	if err := json.NewDecoder(in).Decode(&raw); err != nil {
		return fmt.Errorf("decode answers: %w", err)
	}

	scores := scoring.ScoreDimensions(scoring.AnswersFromStringKeys(raw))
	recs := recommend.Generate(scores)
	text, _ := prose.Template().Write(context.Background(), recs)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(scoreReport{
		Dimensions:      scores,
		Categories:      scoring.CategoryScores(scores),
		KPIs:            scoring.ComputeKPIs(scores),
		Summary:         scoring.Summarize(scores),
		Recommendations: recs,
		Prose:           text,
	})
}

func printUsage() {
	fmt.Fprint(os.Stderr, `fluirctl: operator tools for the Fluir survey backend

Usage:
  fluirctl migrate                 Create missing tables in DATABASE_URL
  fluirctl seed-email <address>    Register an admin recovery address
  fluirctl score <answers.json|->  Score one submission offline
`)
}
