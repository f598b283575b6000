package api

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/nyashahama/fluir-backend/internal/db"
)

// ─── CONTEXT KEYS ─────────────────────────────────────────────────────────────

type contextKey string

const (
	ctxKeyAdminCode contextKey = "admin_code"
	ctxKeySurvey    contextKey = "survey"
)

// ─── ADMIN AUTH ───────────────────────────────────────────────────────────────

// adminCodeFrom reads the admin code from the X-Admin-Code header, falling
// back to the admin_code query parameter.
func adminCodeFrom(r *http.Request) string {
	if code := strings.TrimSpace(r.Header.Get("X-Admin-Code")); code != "" {
		return code
	}
	return strings.TrimSpace(r.URL.Query().Get("admin_code"))
}

// requireAdminCode rejects requests without an admin code and stores the
// code in the request context. Whether the code unlocks anything is decided
// per survey by requireSurveyAccess.
func (s *Server) requireAdminCode(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := adminCodeFrom(r)
		if code == "" {
			respondErr(w, http.StatusUnauthorized, "codigo de acesso ausente")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyAdminCode, code)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// canAccess reports whether code unlocks survey.
func (s *Server) canAccess(code string, survey db.Survey) bool {
	return codesEqual(code, survey.AdminCode) || s.isGlobalCode(code)
}

// isGlobalCode reports whether code is the configured global admin code.
func (s *Server) isGlobalCode(code string) bool {
	return s.cfg.AdminCode != "" && codesEqual(code, s.cfg.AdminCode)
}

// codesEqual compares admin codes in constant time.
func codesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// requireSurveyAccess loads the survey named by {surveyID} and checks that
// the caller's admin code unlocks it. The survey is stored in the context.
func (s *Server) requireSurveyAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		survey, ok := s.authorizeSurvey(w, r, chi.URLParam(r, "surveyID"))
		if !ok {
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeySurvey, survey)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authorizeSurvey resolves rawID to a survey the caller may manage. It
// writes the error response and returns false on failure.
func (s *Server) authorizeSurvey(w http.ResponseWriter, r *http.Request, rawID string) (db.Survey, bool) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		respondErr(w, http.StatusNotFound, "pesquisa nao encontrada")
		return db.Survey{}, false
	}
	survey, err := s.q.GetSurveyByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "pesquisa nao encontrada")
		return db.Survey{}, false
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return db.Survey{}, false
	}
	if !s.canAccess(adminCode(r), survey) {
		respondErr(w, http.StatusForbidden, "acesso negado")
		return db.Survey{}, false
	}
	return survey, true
}

func adminCode(r *http.Request) string {
	code, _ := r.Context().Value(ctxKeyAdminCode).(string)
	return code
}

func surveyFrom(r *http.Request) db.Survey {
	survey, _ := r.Context().Value(ctxKeySurvey).(db.Survey)
	return survey
}

// ─── CORS ─────────────────────────────────────────────────────────────────────

// corsMiddleware handles preflight OPTIONS requests and sets CORS headers for
// the configured origins.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	allowAny := false
	allowed := make(map[string]struct{}, len(s.cfg.CORSOrigins))
	for _, o := range s.cfg.CORSOrigins {
		if o == "*" {
			allowAny = true
		}
		allowed[o] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		_, ok := allowed[origin]
		switch {
		case allowAny:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case ok:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		default:
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Code, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ─── LOGGER MIDDLEWARE ────────────────────────────────────────────────────────

// loggerMiddleware logs each request with method, path, status, and duration.
func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// ─── METRICS MIDDLEWARE ───────────────────────────────────────────────────────

// metricsMiddleware records request counts and latency labelled by the
// matched route pattern, so survey ids and codes never become label values.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RecordHTTPRequest(route, r.Method, status, time.Since(start))
	})
}

// ─── RESPONSE HELPERS ─────────────────────────────────────────────────────────

// respond writes a JSON body with the given status code.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondErr writes a standard JSON error envelope.
func respondErr(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}

// respondInternalErr logs an unexpected error and returns a 500 to the client
// without leaking internal details.
func (s *Server) respondInternalErr(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("internal error",
		"error", err,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)
	respondErr(w, http.StatusInternalServerError, "internal server error")
}

// ─── REQUEST PARSING HELPERS ─────────────────────────────────────────────────

// decode JSON-decodes r.Body into dst. Returns false and writes 400 if the
// body is missing, malformed, or too large. Callers should return immediately
// on false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB max
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// logField returns a slog.Attr using the request ID for correlation.
func logField(r *http.Request) slog.Attr {
	return slog.String("request_id", middleware.GetReqID(r.Context()))
}
