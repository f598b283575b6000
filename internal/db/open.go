package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed schema/postgres.sql
var postgresSchema string

//go:embed schema/sqlite.sql
var sqliteSchema string

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ParseURL maps a DATABASE_URL to a dialect and the DSN its driver expects.
// postgres:// and postgresql:// URLs go to lib/pq unchanged. Anything else is
// treated as SQLite; a sqlite:// prefix is stripped.
func ParseURL(url string) (Dialect, string) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Postgres, url
	case strings.HasPrefix(url, "sqlite://"):
		return SQLite, strings.TrimPrefix(url, "sqlite://")
	default:
		return SQLite, url
	}
}

// Open opens and verifies a connection pool for the given dialect.
//
// SQLite pools are pinned to a single connection: per-connection pragmas
// such as foreign_keys then hold for every query, and :memory: databases are
// not split across connections.
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	driver := "postgres"
	if dialect == SQLite {
		driver = "sqlite"
		dsn = withTimeFormat(dsn)
	}

	pool, err := openDB(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", dialect, err)
	}

	if dialect == SQLite {
		pool.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA busy_timeout = 5000",
			"PRAGMA foreign_keys = ON",
		}
		for _, p := range pragmas {
			if _, err := pool.ExecContext(ctx, p); err != nil {
				pool.Close()
				return nil, fmt.Errorf("db: pragma %q: %w", p, err)
			}
		}
	}

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	return pool, nil
}

// withTimeFormat asks the SQLite driver to store time.Time values in the
// layout SQLite's own date functions understand.
func withTimeFormat(dsn string) string {
	if strings.Contains(dsn, "_time_format=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_time_format=sqlite"
}

// Migrate creates any missing tables, columns and indexes. It is safe to run
// on every start.
func Migrate(ctx context.Context, conn DBTX, dialect Dialect) error {
	schema := postgresSchema
	if dialect == SQLite {
		schema = sqliteSchema
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("db: migrate %s: %w", dialect, err)
	}
	if dialect == SQLite {
		// SQLite has no ADD COLUMN IF NOT EXISTS.
		if err := addSQLiteColumn(ctx, conn, "surveys", "recommendations_generated_at", "TIMESTAMP"); err != nil {
			return fmt.Errorf("db: migrate %s: %w", dialect, err)
		}
	}
	return nil
}

func addSQLiteColumn(ctx context.Context, conn DBTX, table, column, typ string) error {
	var n int
	err := conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, typ)); err != nil {
		return fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
