// Package api implements the HTTP layer for the Fluir survey service.
// Handlers are methods on *Server. Each handler file is responsible for one
// resource group and only imports the dependencies it actually uses.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nyashahama/fluir-backend/internal/copsoq"
	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/email"
	"github.com/nyashahama/fluir-backend/internal/metrics"
	"github.com/nyashahama/fluir-backend/internal/prose"
	"github.com/nyashahama/fluir-backend/internal/store"
	"github.com/nyashahama/fluir-backend/internal/worker"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// BaseURL is the public origin used to build survey links,
	// e.g. "https://app.fluir.com.br".
	BaseURL string

	// AdminCode is the global admin code. It unlocks every survey.
	AdminCode string

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles all single-query reads.
	q db.Querier

	// store handles multi-step atomic writes and result loading.
	store *store.Store

	// catalog is the questionnaire reference data.
	catalog *copsoq.Catalog

	// worker enqueues recommendation refreshes after submissions.
	worker worker.Enqueuer

	// mailer sends the admin-code recovery email.
	mailer email.Sender

	// writer renders recommendations as prose. Nil means template only.
	writer prose.Writer

	// metrics may be nil.
	metrics *metrics.Manager

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	st *store.Store,
	enqueuer worker.Enqueuer,
	mailer email.Sender,
	writer prose.Writer,
	m *metrics.Manager,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		q:       st.Q(),
		store:   st,
		catalog: copsoq.Default(),
		worker:  enqueuer,
		mailer:  mailer,
		writer:  writer,
		metrics: m,
		cfg:     cfg,
		logger:  logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))

	// ── Health and metrics ────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {

		// ── Admin ─────────────────────────────────────────────────────────────
		r.Route("/admin", func(r chi.Router) {
			// Code supplied in the body or not needed at all.
			r.Post("/login", s.handleAdminLogin)
			r.Post("/recover-code", s.handleRecoverCode)
			r.Post("/surveys", s.handleCreateSurvey)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdminCode)
				r.Get("/surveys", s.handleListSurveys)
				r.Post("/surveys/delete", s.handleDeleteSurvey)

				// Survey-scoped routes: the code must unlock {surveyID}.
				r.Route("/surveys/{surveyID}", func(r chi.Router) {
					r.Use(s.requireSurveyAccess)
					r.Get("/", s.handleGetSurvey)
					r.Put("/settings", s.handleUpdateSettings)
					r.Get("/responses", s.handleListResponses)
					r.Get("/dashboard", s.handleDashboard)
					r.Post("/recommendations", s.handleAddRecommendation)
					r.Delete("/recommendations/{recID}", s.handleDeleteRecommendation)
					r.Get("/export/dimensions.csv", s.handleExportDimensions)
					r.Get("/export/respondents.csv", s.handleExportRespondents)
				})
			})
		})

		// ── Respondent ────────────────────────────────────────────────────────
		// No auth; the public survey code in the URL is the capability.
		r.Route("/survey/{code}", func(r chi.Router) {
			r.Get("/info", s.handleSurveyInfo)
			r.Get("/questions", s.handleSurveyQuestions)
			r.Post("/submit", s.handleSubmit)
			r.Get("/thanks", s.handleThanks)
		})
	})

	return r
}
