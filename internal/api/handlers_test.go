package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/nyashahama/fluir-backend/internal/api"
	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/email"
	"github.com/nyashahama/fluir-backend/internal/metrics"
	"github.com/nyashahama/fluir-backend/internal/prose"
	"github.com/nyashahama/fluir-backend/internal/recommend"
	"github.com/nyashahama/fluir-backend/internal/store"
)

const globalCode = "global-secret"

// ─── STUBS ────────────────────────────────────────────────────────────────────

// stubWorker records enqueued surveys.
type stubWorker struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
	err      error
}

func (w *stubWorker) Enqueue(_ context.Context, id uuid.UUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enqueued = append(w.enqueued, id)
	return w.err
}

// stubMailer captures sent emails.
type stubMailer struct {
	sent []email.AdminCodeParams
	err  error
}

func (m *stubMailer) SendAdminCode(_ context.Context, p email.AdminCodeParams) error {
	m.sent = append(m.sent, p)
	return m.err
}

// stubWriter returns fixed prose or an error.
type stubWriter struct {
	out   prose.Prose
	err   error
	calls int
}

func (w *stubWriter) Write(_ context.Context, _ []recommend.Recommendation) (prose.Prose, error) {
	w.calls++
	return w.out, w.err
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

type testDeps struct {
	store   *store.Store
	worker  *stubWorker
	mailer  *stubMailer
	writer  *stubWriter
	metrics *metrics.Manager
	handler http.Handler
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, cfgOverrides ...func(*api.Config)) *testDeps {
	t.Helper()
	ctx := context.Background()

	pool, err := db.Open(ctx, db.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	if err := db.Migrate(ctx, pool, db.SQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st := store.New(pool, db.New(pool, db.SQLite))

	wk := &stubWorker{}
	ml := &stubMailer{}
	wr := &stubWriter{out: prose.Prose{Imediata: "agora", CurtoPrazo: "logo", MedioPrazo: "depois"}}
	m := metrics.NewManager(metrics.WithRuntimeCollectors(false))

	cfg := api.Config{
		BaseURL:     "http://localhost:8000",
		AdminCode:   globalCode,
		CORSOrigins: []string{"http://localhost:3000"},
	}
	for _, fn := range cfgOverrides {
		fn(&cfg)
	}

	return &testDeps{
		store:   st,
		worker:  wk,
		mailer:  ml,
		writer:  wr,
		metrics: m,
		handler: api.NewServer(st, wk, ml, wr, m, cfg, discardLogger()),
	}
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response body: %v (raw: %s)", err, rr.Body.String())
	}
}

func withCode(code string) map[string]string {
	return map[string]string{"X-Admin-Code": code}
}

type brief struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	CompanyName     string    `json:"company_name"`
	IsActive        bool      `json:"is_active"`
	RespondentCount int64     `json:"respondent_count"`
}

// createSurvey creates a survey owned by adminCode through the API.
func createSurvey(t *testing.T, deps *testDeps, adminCode string) brief {
	t.Helper()
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/admin/surveys",
		map[string]string{"company_name": "Acme Ltda", "admin_code": adminCode}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create survey: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var b brief
	decodeJSON(t, rr, &b)
	return b
}

// fullAnswers answers all 41 questions with v.
func fullAnswers(v int) map[string]int {
	out := make(map[string]int, 41)
	for id := 1; id <= 41; id++ {
		out[strconv.Itoa(id)] = v
	}
	return out
}

func submit(t *testing.T, deps *testDeps, code string, responses map[string]int) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, deps.handler, http.MethodPost, "/api/survey/"+code+"/submit",
		map[string]any{"responses": responses}, nil)
}

func surveyPath(b brief, suffix string) string {
	return "/api/admin/surveys/" + b.ID.String() + suffix
}

// ─── GET /healthz, /metrics ───────────────────────────────────────────────────

func TestHealthz(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/healthz", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")
	doRequest(t, deps.handler, http.MethodGet, "/api/survey/"+b.Code+"/info", nil, nil)

	rr := doRequest(t, deps.handler, http.MethodGet, "/metrics", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `route="/api/survey/{code}/info"`) {
		t.Errorf("expected route pattern label, got:\n%s", body)
	}
	if strings.Contains(body, b.Code) {
		t.Error("survey code leaked into metric labels")
	}
	if !strings.Contains(body, "fluir_surveys_created_total 1") {
		t.Error("expected surveys_created_total to be 1")
	}
}

// ─── POST /api/admin/login ────────────────────────────────────────────────────

func TestAdminLogin(t *testing.T) {
	deps := newTestServer(t)
	createSurvey(t, deps, "owner")

	tests := []struct {
		name        string
		code        string
		wantStatus  int
		wantSurveys int
	}{
		{"global code", globalCode, http.StatusOK, 0},
		{"survey owner", "owner", http.StatusOK, 1},
		{"unknown code", "nope", http.StatusUnauthorized, 0},
		{"global code prefix", globalCode[:len(globalCode)-1], http.StatusUnauthorized, 0},
		{"empty code", "", http.StatusUnauthorized, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, deps.handler, http.MethodPost, "/api/admin/login",
				map[string]string{"admin_code": tt.code}, nil)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if rr.Code != http.StatusOK {
				return
			}
			var resp struct {
				OK      bool    `json:"ok"`
				Surveys []brief `json:"surveys"`
			}
			decodeJSON(t, rr, &resp)
			if !resp.OK || len(resp.Surveys) != tt.wantSurveys {
				t.Errorf("got ok=%v surveys=%d, want %d", resp.OK, len(resp.Surveys), tt.wantSurveys)
			}
		})
	}
}

// ─── POST /api/admin/recover-code ─────────────────────────────────────────────

func TestRecoverCode_UnknownEmailSendsNothing(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/admin/recover-code",
		map[string]string{"email": "who@example.com"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(deps.mailer.sent) != 0 {
		t.Errorf("expected no email, got %d", len(deps.mailer.sent))
	}
}

func TestRecoverCode_RegisteredEmailGetsGlobalCode(t *testing.T) {
	deps := newTestServer(t)
	if err := deps.store.SeedRecoveryEmail(context.Background(), "Admin@Fluir.app"); err != nil {
		t.Fatal(err)
	}

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/admin/recover-code",
		map[string]string{"email": "  admin@fluir.APP "}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(deps.mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(deps.mailer.sent))
	}
	if got := deps.mailer.sent[0]; got.To != "admin@fluir.app" || got.AdminCode != globalCode {
		t.Errorf("unexpected email params: %+v", got)
	}
}

func TestRecoverCode_MailerFailureStill200(t *testing.T) {
	deps := newTestServer(t)
	deps.mailer.err = errors.New("smtp down")
	_ = deps.store.SeedRecoveryEmail(context.Background(), "admin@fluir.app")

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/admin/recover-code",
		map[string]string{"email": "admin@fluir.app"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

// ─── POST /api/admin/surveys ──────────────────────────────────────────────────

func TestCreateSurvey_Validation(t *testing.T) {
	deps := newTestServer(t)
	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing company", map[string]string{"admin_code": "x"}},
		{"blank company", map[string]string{"company_name": "   "}},
		{"company too long", map[string]string{"company_name": strings.Repeat("a", 201)}},
		{"code too long", map[string]string{"company_name": "Acme", "admin_code": strings.Repeat("c", 51)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, deps.handler, http.MethodPost, "/api/admin/surveys", tt.body, nil)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestCreateSurvey_DefaultsToGlobalCode(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/admin/surveys",
		map[string]string{"company_name": "Acme"}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var b brief
	decodeJSON(t, rr, &b)
	if len(b.Code) != 6 || !b.IsActive || b.RespondentCount != 0 {
		t.Errorf("unexpected brief: %+v", b)
	}

	list := doRequest(t, deps.handler, http.MethodGet, "/api/admin/surveys", nil, withCode(globalCode))
	var briefs []brief
	decodeJSON(t, list, &briefs)
	if len(briefs) != 1 || briefs[0].ID != b.ID {
		t.Errorf("expected survey listed under the global code, got %+v", briefs)
	}
}

// ─── Admin auth ───────────────────────────────────────────────────────────────

func TestSurveyAccess(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")

	tests := []struct {
		name       string
		path       string
		headers    map[string]string
		wantStatus int
	}{
		{"missing code", surveyPath(b, ""), nil, http.StatusUnauthorized},
		{"wrong code", surveyPath(b, ""), withCode("intruder"), http.StatusForbidden},
		{"owner code", surveyPath(b, ""), withCode("owner"), http.StatusOK},
		{"global code", surveyPath(b, ""), withCode(globalCode), http.StatusOK},
		{"owner code prefix", surveyPath(b, ""), withCode("own"), http.StatusForbidden},
		{"owner code with suffix", surveyPath(b, ""), withCode("owner1"), http.StatusForbidden},
		{"global code prefix", surveyPath(b, ""), withCode(globalCode[:len(globalCode)-1]), http.StatusForbidden},
		{"query param", surveyPath(b, "?admin_code=owner"), nil, http.StatusOK},
		{"unknown survey", "/api/admin/surveys/" + uuid.NewString(), withCode("owner"), http.StatusNotFound},
		{"malformed id", "/api/admin/surveys/not-a-uuid", withCode("owner"), http.StatusNotFound},
		{"list without code", "/api/admin/surveys", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, deps.handler, http.MethodGet, tt.path, nil, tt.headers)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestGetSurvey_Detail(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")

	rr := doRequest(t, deps.handler, http.MethodGet, surveyPath(b, ""), nil, withCode("owner"))
	var resp struct {
		CompanyName   string `json:"company_name"`
		ThankYouTitle string `json:"thank_you_title"`
		SurveyURL     string `json:"survey_url"`
	}
	decodeJSON(t, rr, &resp)

	if resp.CompanyName != "Acme Ltda" {
		t.Errorf("company_name: got %q", resp.CompanyName)
	}
	if resp.ThankYouTitle != store.DefaultThankYouTitle {
		t.Errorf("thank_you_title: got %q", resp.ThankYouTitle)
	}
	if want := "http://localhost:8000/survey/" + b.Code; resp.SurveyURL != want {
		t.Errorf("survey_url: got %q, want %q", resp.SurveyURL, want)
	}
}

// ─── PUT /api/admin/surveys/{id}/settings ─────────────────────────────────────

func TestUpdateSettings_PartialUpdate(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")

	rr := doRequest(t, deps.handler, http.MethodPut, surveyPath(b, "/settings"),
		map[string]any{"thank_you_title": "Valeu!", "is_active": false}, withCode("owner"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// Closed surveys stop accepting respondents but still thank them.
	info := doRequest(t, deps.handler, http.MethodGet, "/api/survey/"+b.Code+"/info", nil, nil)
	if info.Code != http.StatusNotFound {
		t.Errorf("info on closed survey: expected 404, got %d", info.Code)
	}
	thanks := doRequest(t, deps.handler, http.MethodGet, "/api/survey/"+b.Code+"/thanks", nil, nil)
	var resp struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	decodeJSON(t, thanks, &resp)
	if resp.Title != "Valeu!" || resp.Message != store.DefaultThankYouMessage {
		t.Errorf("unexpected thanks: %+v", resp)
	}
}

func TestUpdateSettings_RejectsBlankCompany(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")
	rr := doRequest(t, deps.handler, http.MethodPut, surveyPath(b, "/settings"),
		map[string]any{"company_name": " "}, withCode("owner"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// ─── POST /api/admin/surveys/delete ───────────────────────────────────────────

func TestDeleteSurvey(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")
	submit(t, deps, b.Code, fullAnswers(3))

	wrong := doRequest(t, deps.handler, http.MethodPost, "/api/admin/surveys/delete?survey_id="+b.ID.String(), nil, withCode("intruder"))
	if wrong.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", wrong.Code)
	}

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/admin/surveys/delete?survey_id="+b.ID.String(), nil, withCode("owner"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	after := doRequest(t, deps.handler, http.MethodGet, surveyPath(b, ""), nil, withCode("owner"))
	if after.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", after.Code)
	}
}

// ─── Respondent endpoints ─────────────────────────────────────────────────────

func TestSurveyInfo_UnknownCodeReturns404(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/api/survey/zzzzzz/info", nil, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSurveyQuestions_PagesCoverCatalog(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/survey/"+b.Code+"/questions", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var pages []struct {
		ID        string `json:"id"`
		Questions []struct {
			ID          int               `json:"id"`
			Text        string            `json:"text"`
			ScaleLabels map[string]string `json:"scale_labels"`
		} `json:"questions"`
	}
	decodeJSON(t, rr, &pages)

	if len(pages) != 8 {
		t.Fatalf("expected 8 pages, got %d", len(pages))
	}
	total := 0
	for _, p := range pages {
		for _, q := range p.Questions {
			total++
			if q.Text == "" || len(q.ScaleLabels) != 5 {
				t.Errorf("question %d: text=%q labels=%d", q.ID, q.Text, len(q.ScaleLabels))
			}
		}
	}
	if total != 41 {
		t.Errorf("expected 41 questions, got %d", total)
	}
}

func TestSubmit_Validation(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")

	missing := fullAnswers(3)
	delete(missing, "41")
	outOfRange := fullAnswers(3)
	outOfRange["7"] = 6
	unknown := fullAnswers(3)
	unknown["99"] = 3
	notNumeric := fullAnswers(3)
	notNumeric["abc"] = 3

	tests := []struct {
		name      string
		responses map[string]int
	}{
		{"missing question", missing},
		{"value out of range", outOfRange},
		{"unknown question", unknown},
		{"non-numeric key", notNumeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := submit(t, deps, b.Code, tt.responses)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
	if len(deps.worker.enqueued) != 0 {
		t.Errorf("rejected submissions must not enqueue, got %d", len(deps.worker.enqueued))
	}
}

func TestSubmit_AcceptsAndEnqueues(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")

	rr := submit(t, deps, b.Code, fullAnswers(4))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		OK            bool   `json:"ok"`
		DisplayID     string `json:"display_id"`
		ThankYouTitle string `json:"thank_you_title"`
	}
	decodeJSON(t, rr, &resp)
	if !resp.OK || !strings.HasPrefix(resp.DisplayID, "R") || len(resp.DisplayID) != 9 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.ThankYouTitle != store.DefaultThankYouTitle {
		t.Errorf("thank_you_title: got %q", resp.ThankYouTitle)
	}
	if len(deps.worker.enqueued) != 1 || deps.worker.enqueued[0] != b.ID {
		t.Errorf("expected survey enqueued once, got %v", deps.worker.enqueued)
	}
}

func TestSubmit_EnqueueFailureStillAccepts(t *testing.T) {
	deps := newTestServer(t)
	deps.worker.err = errors.New("queue full")
	b := createSurvey(t, deps, "owner")

	rr := submit(t, deps, b.Code, fullAnswers(2))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestSubmit_ClosedSurveyReturns404(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")
	doRequest(t, deps.handler, http.MethodPut, surveyPath(b, "/settings"),
		map[string]any{"is_active": false}, withCode("owner"))

	rr := submit(t, deps, b.Code, fullAnswers(3))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

// ─── GET /api/admin/surveys/{id}/responses ────────────────────────────────────

func TestListResponses(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")
	submit(t, deps, b.Code, fullAnswers(1))
	submit(t, deps, b.Code, fullAnswers(5))

	rr := doRequest(t, deps.handler, http.MethodGet, surveyPath(b, "/responses"), nil, withCode("owner"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var rows []struct {
		DisplayID   string             `json:"display_id"`
		SubmittedAt string             `json:"submitted_at"`
		Scores      map[string]float64 `json:"scores"`
		Statuses    map[string]string  `json:"statuses"`
	}
	decodeJSON(t, rr, &rows)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if len(row.Scores) != 26 || len(row.Statuses) != 26 || row.SubmittedAt == "" {
			t.Errorf("%s: scores=%d statuses=%d submitted_at=%q", row.DisplayID, len(row.Scores), len(row.Statuses), row.SubmittedAt)
		}
	}
	if rows[0].Scores["burnout"] != 1 || rows[1].Scores["burnout"] != 5 {
		t.Errorf("expected submission order, got burnout %v then %v", rows[0].Scores["burnout"], rows[1].Scores["burnout"])
	}
}

// ─── GET /api/admin/surveys/{id}/dashboard ────────────────────────────────────

func TestDashboard_EmptySurvey(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")

	rr := doRequest(t, deps.handler, http.MethodGet, surveyPath(b, "/dashboard"), nil, withCode("owner"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp map[string]json.RawMessage
	decodeJSON(t, rr, &resp)

	for key, want := range map[string]string{
		"total_respondents":     `0`,
		"dim_scores":            `[]`,
		"kpis":                  `{}`,
		"summary":               `{}`,
		"recommendations":       `[]`,
		"respondents":           `[]`,
		"recommendations_prose": `{"imediata":"","curto_prazo":"","medio_prazo":""}`,
	} {
		if got := string(resp[key]); got != want {
			t.Errorf("%s: got %s, want %s", key, got, want)
		}
	}
	if deps.writer.calls != 0 {
		t.Errorf("writer must not be called for an empty survey, got %d calls", deps.writer.calls)
	}
}

type dashboard struct {
	CompanyName      string `json:"company_name"`
	TotalRespondents int    `json:"total_respondents"`
	DimScores        []struct {
		DimensionID string  `json:"dimension_id"`
		Score       float64 `json:"score"`
		Status      string  `json:"status"`
	} `json:"dim_scores"`
	CategoryScores []struct {
		Category string `json:"category"`
	} `json:"category_scores"`
	KPIs struct {
		Safety struct {
			Value float64 `json:"value"`
		} `json:"safety_index"`
	} `json:"kpis"`
	Summary struct {
		Green            int `json:"green"`
		Yellow           int `json:"yellow"`
		Red              int `json:"red"`
		Total            int `json:"total"`
		TotalRespondents int `json:"total_respondents"`
	} `json:"summary"`
	Recommendations []struct {
		ID           uuid.UUID `json:"id"`
		DimensionIDs string    `json:"dimension_ids"`
		Priority     string    `json:"priority"`
		Title        string    `json:"title"`
		IsCustom     bool      `json:"is_custom"`
		OrderIndex   int       `json:"order_index"`
	} `json:"recommendations"`
	Prose       prose.Prose `json:"recommendations_prose"`
	Respondents []struct {
		DisplayID string `json:"display_id"`
	} `json:"respondents"`
}

func getDashboard(t *testing.T, deps *testDeps, b brief) dashboard {
	t.Helper()
	rr := doRequest(t, deps.handler, http.MethodGet, surveyPath(b, "/dashboard"), nil, withCode("owner"))
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var d dashboard
	decodeJSON(t, rr, &d)
	return d
}

func TestDashboard_AggregatesAndGeneratesRecommendations(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")
	submit(t, deps, b.Code, fullAnswers(5))
	submit(t, deps, b.Code, fullAnswers(5))

	d := getDashboard(t, deps, b)

	if d.TotalRespondents != 2 || d.Summary.TotalRespondents != 2 || len(d.Respondents) != 2 {
		t.Errorf("respondent counts: total=%d summary=%d rows=%d", d.TotalRespondents, d.Summary.TotalRespondents, len(d.Respondents))
	}
	if len(d.DimScores) != 26 || d.Summary.Total != 26 {
		t.Errorf("expected 26 dimensions, got %d (summary total %d)", len(d.DimScores), d.Summary.Total)
	}
	if d.Summary.Green+d.Summary.Yellow+d.Summary.Red != d.Summary.Total {
		t.Errorf("summary does not add up: %+v", d.Summary)
	}
	if len(d.CategoryScores) == 0 {
		t.Error("expected category scores")
	}
	if len(d.Recommendations) == 0 {
		t.Fatal("expected generated recommendations for an all-5 survey")
	}
	for i, rec := range d.Recommendations {
		if rec.OrderIndex != i || rec.IsCustom {
			t.Errorf("recommendation %d: order_index=%d is_custom=%v", i, rec.OrderIndex, rec.IsCustom)
		}
	}
	if d.Prose.Imediata != "agora" {
		t.Errorf("expected writer prose, got %+v", d.Prose)
	}

	// A second load reuses the stored list.
	again := getDashboard(t, deps, b)
	if len(again.Recommendations) != len(d.Recommendations) || again.Recommendations[0].ID != d.Recommendations[0].ID {
		t.Error("expected stored recommendations to be reused")
	}
}

func TestDashboard_WriterErrorFallsBackToTemplate(t *testing.T) {
	deps := newTestServer(t)
	deps.writer.err = errors.New("model unavailable")
	b := createSurvey(t, deps, "owner")
	submit(t, deps, b.Code, fullAnswers(5))

	d := getDashboard(t, deps, b)
	all := d.Prose.Imediata + d.Prose.CurtoPrazo + d.Prose.MedioPrazo
	if all == "" || strings.Contains(all, "agora") {
		t.Errorf("expected template prose, got %+v", d.Prose)
	}
}

// ─── Recommendations ──────────────────────────────────────────────────────────

func TestAddRecommendation_Validation(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"bad priority", map[string]any{"priority": "someday", "title": "x"}},
		{"missing title", map[string]any{"priority": "imediata"}},
		{"unknown dimension", map[string]any{"priority": "curto", "title": "x", "dimension_ids": []string{"nope"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, deps.handler, http.MethodPost, surveyPath(b, "/recommendations"), tt.body, withCode("owner"))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestAddRecommendation_JoinsGeneratedList(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")
	submit(t, deps, b.Code, fullAnswers(5))

	rr := doRequest(t, deps.handler, http.MethodPost, surveyPath(b, "/recommendations"),
		map[string]any{
			"dimension_ids": []string{"burnout", "stress"},
			"priority":      "imediata",
			"title":         "Roda de conversa",
			"description":   "Encontros quinzenais.",
		}, withCode("owner"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	d := getDashboard(t, deps, b)
	if len(d.Recommendations) < 2 {
		t.Fatalf("expected generated plus custom, got %d", len(d.Recommendations))
	}
	last := d.Recommendations[len(d.Recommendations)-1]
	if !last.IsCustom || last.Title != "Roda de conversa" || last.DimensionIDs != "burnout,stress" {
		t.Errorf("unexpected custom recommendation: %+v", last)
	}

	// Curated lists survive new submissions.
	submit(t, deps, b.Code, fullAnswers(1))
	after := getDashboard(t, deps, b)
	if len(after.Recommendations) != len(d.Recommendations) {
		t.Errorf("expected curated list kept, got %d want %d", len(after.Recommendations), len(d.Recommendations))
	}
}

func TestDeleteRecommendation(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")
	submit(t, deps, b.Code, fullAnswers(5))
	d := getDashboard(t, deps, b)
	target := d.Recommendations[0].ID

	rr := doRequest(t, deps.handler, http.MethodDelete, surveyPath(b, "/recommendations/"+target.String()), nil, withCode("owner"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	again := doRequest(t, deps.handler, http.MethodDelete, surveyPath(b, "/recommendations/"+target.String()), nil, withCode("owner"))
	if again.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", again.Code)
	}
	bad := doRequest(t, deps.handler, http.MethodDelete, surveyPath(b, "/recommendations/xyz"), nil, withCode("owner"))
	if bad.Code != http.StatusNotFound {
		t.Errorf("malformed id: expected 404, got %d", bad.Code)
	}
}

// ─── CSV export ───────────────────────────────────────────────────────────────

func TestExport_CSV(t *testing.T) {
	deps := newTestServer(t)
	b := createSurvey(t, deps, "owner")
	submit(t, deps, b.Code, fullAnswers(3))

	tests := []struct {
		path       string
		wantHeader string
		wantLines  int
	}{
		{"/export/dimensions.csv", "dimension_id,name,category,type,score,status", 27},
		{"/export/respondents.csv", "display_id,submitted_at,exigencias_quantitativas", 2},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := doRequest(t, deps.handler, http.MethodGet, surveyPath(b, tt.path), nil, withCode("owner"))
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
				t.Errorf("content type: got %q", ct)
			}
			if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "fluir_acme_ltda_") {
				t.Errorf("content disposition: got %q", cd)
			}
			lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
			if len(lines) != tt.wantLines {
				t.Errorf("expected %d lines, got %d", tt.wantLines, len(lines))
			}
			if !strings.HasPrefix(lines[0], tt.wantHeader) {
				t.Errorf("header: got %q", lines[0])
			}
		})
	}
}

// ─── CORS ─────────────────────────────────────────────────────────────────────

func TestCORS_PreflightReturns204(t *testing.T) {
	deps := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/admin/surveys", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin: got %q", got)
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Headers"), "X-Admin-Code") {
		t.Error("X-Admin-Code must be an allowed header")
	}
}

func TestCORS_UnknownOriginGetsNoHeaders(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/healthz", nil, map[string]string{"Origin": "http://evil.example"})
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unexpected CORS headers for an unlisted origin")
	}
}

func TestCORS_NoOriginHeader_SkipsCORSHeaders(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/healthz", nil, nil)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("should not set CORS headers when no Origin present")
	}
}
