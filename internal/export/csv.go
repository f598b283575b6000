// Package export writes survey results as CSV for spreadsheet use.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nyashahama/fluir-backend/internal/copsoq"
	"github.com/nyashahama/fluir-backend/internal/scoring"
)

// RespondentRow is one respondent's scored submission.
type RespondentRow struct {
	DisplayID   string
	SubmittedAt time.Time
	Scores      []scoring.DimensionScore
}

var dimensionHeader = []string{"dimension_id", "name", "category", "type", "score", "status"}

// WriteDimensionsCSV writes one row per aggregated dimension score.
func WriteDimensionsCSV(w io.Writer, scores []scoring.DimensionScore) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dimensionHeader); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, s := range scores {
		rec := []string{s.DimensionID, s.Name, s.Category, string(s.Type), formatScore(s.Score), string(s.Status)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("export: write %s: %w", s.DimensionID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRespondentsCSV writes one row per respondent with a column for every
// catalog dimension, in catalog order. Dimensions a respondent has no score
// for are left empty.
func WriteRespondentsCSV(w io.Writer, c *copsoq.Catalog, rows []RespondentRow) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, 2+len(c.Dimensions))
	header = append(header, "display_id", "submitted_at")
	for _, d := range c.Dimensions {
		header = append(header, d.ID)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for _, r := range rows {
		byID := make(map[string]float64, len(r.Scores))
		for _, s := range r.Scores {
			byID[s.DimensionID] = s.Score
		}

		rec := make([]string, 0, len(header))
		rec = append(rec, r.DisplayID, r.SubmittedAt.UTC().Format(time.RFC3339))
		for _, d := range c.Dimensions {
			if v, ok := byID[d.ID]; ok {
				rec = append(rec, formatScore(v))
			} else {
				rec = append(rec, "")
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("export: write %s: %w", r.DisplayID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
