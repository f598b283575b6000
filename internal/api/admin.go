package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/email"
	"github.com/nyashahama/fluir-backend/internal/store"
)

const (
	maxCompanyNameLen = 200
	maxAdminCodeLen   = 50

	recoverCodeMessage = "Se o email estiver cadastrado, voce recebera a chave em instantes."
)

// ─── RESPONSE TYPES ──────────────────────────────────────────────────────────

type surveyBrief struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	CompanyName     string    `json:"company_name"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	RespondentCount int64     `json:"respondent_count"`
}

type surveyDetail struct {
	surveyBrief
	ThankYouTitle   string `json:"thank_you_title"`
	ThankYouMessage string `json:"thank_you_message"`
	SurveyURL       string `json:"survey_url"`
}

func newSurveyBrief(s db.Survey, respondents int64) surveyBrief {
	return surveyBrief{
		ID:              s.ID,
		Code:            s.Code,
		CompanyName:     s.CompanyName,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		RespondentCount: respondents,
	}
}

// surveyURL is the public link respondents open.
func (s *Server) surveyURL(code string) string {
	return s.cfg.BaseURL + "/survey/" + code
}

// ─── POST /api/admin/login ────────────────────────────────────────────────────

type adminLoginRequest struct {
	AdminCode string `json:"admin_code"`
}

type adminLoginResponse struct {
	OK        bool          `json:"ok"`
	AdminCode string        `json:"admin_code"`
	Surveys   []surveyBrief `json:"surveys"`
}

// handleAdminLogin accepts the global code or any code that owns at least one
// survey, and returns the surveys that code owns.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if !decode(w, r, &req) {
		return
	}
	code := strings.TrimSpace(req.AdminCode)
	if code == "" {
		respondErr(w, http.StatusUnauthorized, "Codigo de acesso invalido.")
		return
	}

	briefs, err := s.listBriefs(r, code)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	if !s.isGlobalCode(code) && len(briefs) == 0 {
		respondErr(w, http.StatusUnauthorized, "Codigo de acesso invalido.")
		return
	}

	respond(w, http.StatusOK, adminLoginResponse{OK: true, AdminCode: code, Surveys: briefs})
}

// ─── POST /api/admin/recover-code ─────────────────────────────────────────────

type recoverCodeRequest struct {
	Email string `json:"email"`
}

// handleRecoverCode emails the global admin code to a registered recovery
// address. The response is identical whether or not the address is known.
func (s *Server) handleRecoverCode(w http.ResponseWriter, r *http.Request) {
	var req recoverCodeRequest
	if !decode(w, r, &req) {
		return
	}
	generic := map[string]string{"message": recoverCodeMessage}

	addr := store.NormalizeEmail(req.Email)
	if addr == "" {
		respond(w, http.StatusOK, generic)
		return
	}

	_, err := s.q.GetRecoveryEmail(r.Context(), addr)
	if errors.Is(err, sql.ErrNoRows) {
		respond(w, http.StatusOK, generic)
		return
	}
	if err != nil {
		s.logger.Error("recover-code lookup failed", "error", err, logField(r))
		respond(w, http.StatusOK, generic)
		return
	}

	err = s.mailer.SendAdminCode(r.Context(), email.AdminCodeParams{To: addr, AdminCode: s.cfg.AdminCode})
	s.metrics.RecordEmail(err)
	if err != nil {
		s.logger.Warn("admin code email failed", "error", err, logField(r))
	}

	respond(w, http.StatusOK, generic)
}

// ─── POST /api/admin/surveys ──────────────────────────────────────────────────

type createSurveyRequest struct {
	CompanyName string `json:"company_name"`
	AdminCode   string `json:"admin_code"`
}

func (s *Server) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req createSurveyRequest
	if !decode(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		respondErr(w, http.StatusBadRequest, "company_name is required")
		return
	}
	if utf8.RuneCountInString(name) > maxCompanyNameLen {
		respondErr(w, http.StatusBadRequest, "company_name must be at most 200 characters")
		return
	}
	code := strings.TrimSpace(req.AdminCode)
	if code == "" {
		code = s.cfg.AdminCode
	}
	if utf8.RuneCountInString(code) > maxAdminCodeLen {
		respondErr(w, http.StatusBadRequest, "admin_code must be at most 50 characters")
		return
	}

	survey, err := s.store.CreateSurvey(r.Context(), store.CreateSurveyParams{
		CompanyName: name,
		AdminCode:   code,
	})
	if errors.Is(err, store.ErrSurveyCodeConflict) {
		respondErr(w, http.StatusInternalServerError, "Codigo de pesquisa em conflito. Tente novamente.")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	s.metrics.RecordSurveyCreated()

	s.logger.Info("survey created", "survey_id", survey.ID, "code", survey.Code, logField(r))
	respond(w, http.StatusCreated, newSurveyBrief(survey, 0))
}

// ─── GET /api/admin/surveys ───────────────────────────────────────────────────

func (s *Server) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	briefs, err := s.listBriefs(r, adminCode(r))
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, briefs)
}

func (s *Server) listBriefs(r *http.Request, code string) ([]surveyBrief, error) {
	rows, err := s.q.ListSurveysByAdminCode(r.Context(), code)
	if err != nil {
		return nil, err
	}
	briefs := make([]surveyBrief, 0, len(rows))
	for _, row := range rows {
		briefs = append(briefs, newSurveyBrief(row.Survey, row.RespondentCount))
	}
	return briefs, nil
}

// ─── POST /api/admin/surveys/delete ───────────────────────────────────────────

// handleDeleteSurvey permanently removes a survey with its respondents and
// recommendations.
func (s *Server) handleDeleteSurvey(w http.ResponseWriter, r *http.Request) {
	survey, ok := s.authorizeSurvey(w, r, r.URL.Query().Get("survey_id"))
	if !ok {
		return
	}

	if err := s.q.DeleteSurvey(r.Context(), survey.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondErr(w, http.StatusNotFound, "pesquisa nao encontrada")
			return
		}
		s.respondInternalErr(w, r, err)
		return
	}

	s.logger.Info("survey deleted", "survey_id", survey.ID, logField(r))
	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

// ─── GET /api/admin/surveys/{surveyID} ────────────────────────────────────────

func (s *Server) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	survey := surveyFrom(r)

	count, err := s.q.CountRespondentsBySurvey(r.Context(), survey.ID)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, surveyDetail{
		surveyBrief:     newSurveyBrief(survey, count),
		ThankYouTitle:   survey.ThankYouTitle,
		ThankYouMessage: survey.ThankYouMessage,
		SurveyURL:       s.surveyURL(survey.Code),
	})
}

// ─── PUT /api/admin/surveys/{surveyID}/settings ───────────────────────────────

// updateSettingsRequest fields are optional; nil leaves the column unchanged.
type updateSettingsRequest struct {
	CompanyName     *string `json:"company_name"`
	ThankYouTitle   *string `json:"thank_you_title"`
	ThankYouMessage *string `json:"thank_you_message"`
	IsActive        *bool   `json:"is_active"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if !decode(w, r, &req) {
		return
	}

	params := db.UpdateSurveySettingsParams{ID: surveyFrom(r).ID}
	if req.CompanyName != nil {
		name := strings.TrimSpace(*req.CompanyName)
		if name == "" || utf8.RuneCountInString(name) > maxCompanyNameLen {
			respondErr(w, http.StatusBadRequest, "company_name must be 1 to 200 characters")
			return
		}
		params.CompanyName = sql.NullString{String: name, Valid: true}
	}
	if req.ThankYouTitle != nil {
		params.ThankYouTitle = sql.NullString{String: *req.ThankYouTitle, Valid: true}
	}
	if req.ThankYouMessage != nil {
		params.ThankYouMessage = sql.NullString{String: *req.ThankYouMessage, Valid: true}
	}
	if req.IsActive != nil {
		params.IsActive = sql.NullBool{Bool: *req.IsActive, Valid: true}
	}

	if _, err := s.q.UpdateSurveySettings(r.Context(), params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondErr(w, http.StatusNotFound, "pesquisa nao encontrada")
			return
		}
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, map[string]bool{"ok": true})
}
