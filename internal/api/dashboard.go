package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/prose"
	"github.com/nyashahama/fluir-backend/internal/recommend"
	"github.com/nyashahama/fluir-backend/internal/scoring"
	"github.com/nyashahama/fluir-backend/internal/store"
)

// ─── RESPONSE TYPES ──────────────────────────────────────────────────────────

// respondentScores is one respondent's dimension scores and statuses keyed
// by dimension id.
type respondentScores struct {
	DisplayID string                    `json:"display_id"`
	Scores    map[string]float64        `json:"scores"`
	Statuses  map[string]scoring.Status `json:"statuses"`
}

type responseRow struct {
	respondentScores
	SubmittedAt time.Time `json:"submitted_at"`
}

// recommendationView keeps dimension_ids in its stored comma-joined form.
type recommendationView struct {
	ID           uuid.UUID `json:"id"`
	DimensionIDs string    `json:"dimension_ids"`
	Priority     string    `json:"priority"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	IsCustom     bool      `json:"is_custom"`
	OrderIndex   int32     `json:"order_index"`
}

type dashboardSummary struct {
	scoring.Summary
	TotalRespondents int `json:"total_respondents"`
}

// dashboardResponse carries kpis and summary as any so an empty survey can
// return {} for both.
type dashboardResponse struct {
	CompanyName          string                   `json:"company_name"`
	TotalRespondents     int                      `json:"total_respondents"`
	DimScores            []scoring.DimensionScore `json:"dim_scores"`
	CategoryScores       []scoring.CategoryScore  `json:"category_scores"`
	KPIs                 any                      `json:"kpis"`
	Summary              any                      `json:"summary"`
	Recommendations      []recommendationView     `json:"recommendations"`
	RecommendationsProse prose.Prose              `json:"recommendations_prose"`
	Respondents          []respondentScores       `json:"respondents"`
}

func newRespondentScores(rs store.RespondentScores) respondentScores {
	out := respondentScores{
		DisplayID: rs.Respondent.DisplayID,
		Scores:    make(map[string]float64, len(rs.Scores)),
		Statuses:  make(map[string]scoring.Status, len(rs.Scores)),
	}
	for _, d := range rs.Scores {
		out.Scores[d.DimensionID] = d.Score
		out.Statuses[d.DimensionID] = d.Status
	}
	return out
}

func newRecommendationView(r db.Recommendation) recommendationView {
	return recommendationView{
		ID:           r.ID,
		DimensionIDs: r.DimensionIds,
		Priority:     r.Priority,
		Title:        r.Title,
		Description:  r.Description,
		IsCustom:     r.IsCustom,
		OrderIndex:   r.OrderIndex,
	}
}

// ─── GET /api/admin/surveys/{surveyID}/responses ──────────────────────────────

// handleListResponses returns per-respondent scores in submission order.
func (s *Server) handleListResponses(w http.ResponseWriter, r *http.Request) {
	results, err := s.store.LoadResults(r.Context(), surveyFrom(r).ID)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	rows := make([]responseRow, 0, len(results.Respondents))
	for _, rs := range results.Respondents {
		rows = append(rows, responseRow{
			respondentScores: newRespondentScores(rs),
			SubmittedAt:      rs.Respondent.SubmittedAt,
		})
	}
	respond(w, http.StatusOK, rows)
}

// ─── GET /api/admin/surveys/{surveyID}/dashboard ──────────────────────────────

// handleDashboard aggregates every respondent, derives KPIs and the status
// summary, and returns the stored recommendations with their prose. Missing
// recommendations are generated and stored on the way.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	survey := surveyFrom(r)

	results, err := s.store.LoadResults(r.Context(), survey.ID)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	if len(results.Respondents) == 0 {
		respond(w, http.StatusOK, dashboardResponse{
			CompanyName:     survey.CompanyName,
			DimScores:       []scoring.DimensionScore{},
			CategoryScores:  []scoring.CategoryScore{},
			KPIs:            struct{}{},
			Summary:         struct{}{},
			Recommendations: []recommendationView{},
			Respondents:     []respondentScores{},
		})
		return
	}

	stored, err := s.store.EnsureRecommendations(r.Context(), survey.ID, results.Aggregate)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	views := make([]recommendationView, 0, len(stored))
	recs := make([]recommend.Recommendation, 0, len(stored))
	for _, rec := range stored {
		views = append(views, newRecommendationView(rec))
		recs = append(recs, store.ToRecommendation(rec))
	}

	text, source := prose.Render(r.Context(), s.writer, recs, s.logger)
	s.metrics.RecordProseRender(string(source))

	respondents := make([]respondentScores, 0, len(results.Respondents))
	for _, rs := range results.Respondents {
		respondents = append(respondents, newRespondentScores(rs))
	}

	total := len(results.Respondents)
	respond(w, http.StatusOK, dashboardResponse{
		CompanyName:          survey.CompanyName,
		TotalRespondents:     total,
		DimScores:            results.Aggregate,
		CategoryScores:       scoring.CategoryScores(results.Aggregate),
		KPIs:                 scoring.ComputeKPIs(results.Aggregate),
		Summary:              dashboardSummary{Summary: scoring.Summarize(results.Aggregate), TotalRespondents: total},
		Recommendations:      views,
		RecommendationsProse: text,
		Respondents:          respondents,
	})
}
