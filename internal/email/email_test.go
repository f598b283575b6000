package email_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nyashahama/fluir-backend/internal/email"
)

func TestResendClient_SendAdminCode(t *testing.T) {
	var got struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		HTML    string   `json:"html"`
		Text    string   `json:"text"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer re_test" {
			t.Errorf("authorization header: %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer srv.Close()

	s := email.NewResendClientAt(srv.URL, "re_test", "acesso@fluir.app", "Fluir")
	err := s.SendAdminCode(context.Background(), email.AdminCodeParams{To: "rh@empresa.com", AdminCode: "segredo<1>"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.From != "Fluir <acesso@fluir.app>" {
		t.Errorf("from: %q", got.From)
	}
	if len(got.To) != 1 || got.To[0] != "rh@empresa.com" {
		t.Errorf("to: %v", got.To)
	}
	if got.Subject != "Fluir - Recuperacao de chave de acesso" {
		t.Errorf("subject: %q", got.Subject)
	}
	if !strings.Contains(got.Text, "Sua chave de acesso administrativo: segredo<1>") {
		t.Errorf("text body: %q", got.Text)
	}
	if !strings.Contains(got.HTML, "segredo&lt;1&gt;") {
		t.Errorf("html body should escape the code: %q", got.HTML)
	}
}

func TestResendClient_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"name":"validation_error","message":"bad from","statusCode":422}}`))
	}))
	defer srv.Close()

	err := email.NewResendClientAt(srv.URL, "k", "a@b.c", "X").
		SendAdminCode(context.Background(), email.AdminCodeParams{To: "x@y.z", AdminCode: "c"})
	if err == nil || !strings.Contains(err.Error(), "validation_error") {
		t.Errorf("expected provider error, got %v", err)
	}
}

func TestResendClient_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := email.NewResendClientAt(srv.URL, "k", "a@b.c", "X").
		SendAdminCode(context.Background(), email.AdminCodeParams{To: "x@y.z", AdminCode: "c"})
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestLogSender_NeverLogsTheCode(t *testing.T) {
	var buf bytes.Buffer
	s := email.NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := s.SendAdminCode(context.Background(), email.AdminCodeParams{To: "rh@empresa.com", AdminCode: "top-secret"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "top-secret") {
		t.Errorf("log output leaked the admin code: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "rh@empresa.com") {
		t.Errorf("log output should name the recipient: %s", buf.String())
	}
}
