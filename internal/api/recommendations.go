package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/recommend"
	"github.com/nyashahama/fluir-backend/internal/store"
)

// ─── POST /api/admin/surveys/{surveyID}/recommendations ───────────────────────

type addRecommendationRequest struct {
	DimensionIDs []string `json:"dimension_ids"`
	Priority     string   `json:"priority"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
}

// handleAddRecommendation appends an admin-authored recommendation. Generated
// recommendations are materialised first so that the custom one joins the
// list instead of replacing it.
func (s *Server) handleAddRecommendation(w http.ResponseWriter, r *http.Request) {
	survey := surveyFrom(r)

	var req addRecommendationRequest
	if !decode(w, r, &req) {
		return
	}

	priority := recommend.Priority(strings.ToLower(strings.TrimSpace(req.Priority)))
	if priority.Rank() > recommend.PriorityMedium.Rank() {
		respondErr(w, http.StatusBadRequest, "priority must be one of imediata, curto, medio")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		respondErr(w, http.StatusBadRequest, "title is required")
		return
	}
	for _, id := range req.DimensionIDs {
		if _, ok := s.catalog.Dimension(id); !ok {
			respondErr(w, http.StatusBadRequest, "unknown dimension: "+id)
			return
		}
	}

	results, err := s.store.LoadResults(r.Context(), survey.ID)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	if len(results.Respondents) > 0 {
		if _, err := s.store.EnsureRecommendations(r.Context(), survey.ID, results.Aggregate); err != nil {
			s.respondInternalErr(w, r, err)
			return
		}
	}

	rec, err := s.store.AddCustomRecommendation(r.Context(), store.CustomRecommendationParams{
		SurveyID:     survey.ID,
		DimensionIDs: req.DimensionIDs,
		Priority:     priority,
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
	})
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	s.logger.Info("custom recommendation added", "survey_id", survey.ID, "recommendation_id", rec.ID, logField(r))
	respond(w, http.StatusCreated, newRecommendationView(rec))
}

// ─── DELETE /api/admin/surveys/{surveyID}/recommendations/{recID} ─────────────

func (s *Server) handleDeleteRecommendation(w http.ResponseWriter, r *http.Request) {
	survey := surveyFrom(r)

	recID, err := uuid.Parse(chi.URLParam(r, "recID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, "recomendacao nao encontrada")
		return
	}

	err = s.q.DeleteRecommendation(r.Context(), db.DeleteRecommendationParams{
		ID:       recID,
		SurveyID: survey.ID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "recomendacao nao encontrada")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, map[string]bool{"ok": true})
}
