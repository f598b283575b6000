package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/scoring"
	"github.com/nyashahama/fluir-backend/internal/store"
)

const surveyNotFoundMessage = "Pesquisa não encontrada ou encerrada."

// activeSurvey resolves {code} to an active survey. It writes a 404 and
// returns false when the code is unknown or the survey is closed.
func (s *Server) activeSurvey(w http.ResponseWriter, r *http.Request) (db.Survey, bool) {
	survey, err := s.q.GetSurveyByCode(r.Context(), chi.URLParam(r, "code"))
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !survey.IsActive) {
		respondErr(w, http.StatusNotFound, surveyNotFoundMessage)
		return db.Survey{}, false
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return db.Survey{}, false
	}
	return survey, true
}

// ─── GET /api/survey/{code}/info ──────────────────────────────────────────────

func (s *Server) handleSurveyInfo(w http.ResponseWriter, r *http.Request) {
	survey, ok := s.activeSurvey(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, map[string]string{
		"company_name": survey.CompanyName,
		"code":         survey.Code,
	})
}

// ─── GET /api/survey/{code}/questions ─────────────────────────────────────────

type questionItem struct {
	ID          int            `json:"id"`
	Text        string         `json:"text"`
	ScaleLabels map[int]string `json:"scale_labels"`
}

type questionPage struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Color       string         `json:"color"`
	Questions   []questionItem `json:"questions"`
}

// handleSurveyQuestions returns the questionnaire as pages, each question
// carrying the labels of its answer scale.
func (s *Server) handleSurveyQuestions(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.activeSurvey(w, r); !ok {
		return
	}

	pages := make([]questionPage, 0, len(s.catalog.Categories))
	for _, cat := range s.catalog.Categories {
		page := questionPage{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
			Color:       cat.Color,
			Questions:   make([]questionItem, 0, len(cat.Questions)),
		}
		for _, qid := range cat.Questions {
			q, _ := s.catalog.Question(qid)
			page.Questions = append(page.Questions, questionItem{
				ID:          q.ID,
				Text:        q.Text,
				ScaleLabels: s.catalog.Labels(q.Scale),
			})
		}
		pages = append(pages, page)
	}
	respond(w, http.StatusOK, pages)
}

// ─── POST /api/survey/{code}/submit ───────────────────────────────────────────

type submitRequest struct {
	Responses map[string]int `json:"responses"`
}

type submitResponse struct {
	OK              bool   `json:"ok"`
	DisplayID       string `json:"display_id"`
	ThankYouTitle   string `json:"thank_you_title"`
	ThankYouMessage string `json:"thank_you_message"`
}

// handleSubmit records one complete, anonymous set of answers and queues a
// recommendation refresh for the survey.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	survey, ok := s.activeSurvey(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if !decode(w, r, &req) {
		return
	}
	answers, err := s.validateAnswers(req.Responses)
	if err != nil {
		respondErr(w, http.StatusBadRequest, err.Error())
		return
	}

	respondent, err := s.store.SubmitResponses(r.Context(), store.SubmitResponsesParams{
		SurveyID: survey.ID,
		Answers:  answers,
	})
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	s.metrics.RecordSubmission()

	// The poller picks the survey up later if the queue is full.
	if err := s.worker.Enqueue(r.Context(), survey.ID); err != nil {
		s.logger.Warn("enqueue recommendation refresh failed",
			"survey_id", survey.ID,
			"error", err,
			logField(r),
		)
	}

	respond(w, http.StatusOK, submitResponse{
		OK:              true,
		DisplayID:       respondent.DisplayID,
		ThankYouTitle:   survey.ThankYouTitle,
		ThankYouMessage: survey.ThankYouMessage,
	})
}

// validateAnswers checks that raw answers every catalog question exactly
// once with a value in [1, 5].
func (s *Server) validateAnswers(raw map[string]int) (scoring.Answers, error) {
	answers := make(scoring.Answers, len(raw))
	for key, v := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("Questão %q desconhecida.", key)
		}
		if _, ok := s.catalog.Question(id); !ok {
			return nil, fmt.Errorf("Questão %d desconhecida.", id)
		}
		if v < 1 || v > 5 {
			return nil, fmt.Errorf("Questão %d: valor deve ser entre 1 e 5.", id)
		}
		answers[id] = v
	}

	if want := s.catalog.QuestionCount(); len(answers) < want {
		return nil, fmt.Errorf("Todas as %d questões devem ser respondidas. Recebidas: %d", want, len(answers))
	}
	return answers, nil
}

// ─── GET /api/survey/{code}/thanks ────────────────────────────────────────────

// handleThanks serves the thank-you texts, including for closed surveys so a
// respondent who just finished still sees them.
func (s *Server) handleThanks(w http.ResponseWriter, r *http.Request) {
	survey, err := s.q.GetSurveyByCode(r.Context(), chi.URLParam(r, "code"))
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "Pesquisa não encontrada.")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{
		"title":   survey.ThankYouTitle,
		"message": survey.ThankYouMessage,
	})
}
