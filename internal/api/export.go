package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/export"
)

// ─── GET /api/admin/surveys/{surveyID}/export/*.csv ───────────────────────────

// handleExportDimensions downloads the aggregated dimension scores.
func (s *Server) handleExportDimensions(w http.ResponseWriter, r *http.Request) {
	survey := surveyFrom(r)

	results, err := s.store.LoadResults(r.Context(), survey.ID)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteDimensionsCSV(&buf, results.Aggregate); err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	writeCSV(w, exportFilename(survey, "dimensoes"), buf.Bytes())
}

// handleExportRespondents downloads one row of dimension scores per respondent.
func (s *Server) handleExportRespondents(w http.ResponseWriter, r *http.Request) {
	survey := surveyFrom(r)

	results, err := s.store.LoadResults(r.Context(), survey.ID)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	rows := make([]export.RespondentRow, 0, len(results.Respondents))
	for _, rs := range results.Respondents {
		rows = append(rows, export.RespondentRow{
			DisplayID:   rs.Respondent.DisplayID,
			SubmittedAt: rs.Respondent.SubmittedAt,
			Scores:      rs.Scores,
		})
	}

	var buf bytes.Buffer
	if err := export.WriteRespondentsCSV(&buf, s.catalog, rows); err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	writeCSV(w, exportFilename(survey, "respondentes"), buf.Bytes())
}

// writeCSV sends an already rendered body as a CSV attachment.
func writeCSV(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// exportFilename is fluir_<company>_<kind>_<yyyymmdd>.csv with the company
// name reduced to a header-safe slug.
func exportFilename(survey db.Survey, kind string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, survey.CompanyName)
	return fmt.Sprintf("fluir_%s_%s_%s.csv", slug, kind, time.Now().UTC().Format("20060102"))
}
