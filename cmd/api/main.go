package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nyashahama/fluir-backend/internal/api"
	"github.com/nyashahama/fluir-backend/internal/config"
	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/email"
	"github.com/nyashahama/fluir-backend/internal/metrics"
	"github.com/nyashahama/fluir-backend/internal/prose"
	"github.com/nyashahama/fluir-backend/internal/store"
	"github.com/nyashahama/fluir-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, text elsewhere.
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var logger *slog.Logger
	if cfg.IsProduction() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port)

	// Root context cancelled by OS signal. Worker and HTTP server both respect it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Database ──────────────────────────────────────────────────────────────
	dialect, dsn := db.ParseURL(cfg.DatabaseURL)
	pool, err := db.Open(ctx, dialect, dsn)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool, dialect); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	logger.Info("database ready", "dialect", dialect)

	// ── Store (atomic multi-step writes) ──────────────────────────────────────
	st := store.New(pool, db.New(pool, dialect))
	if err := st.SeedRecoveryEmail(ctx, cfg.AdminRecoveryEmail); err != nil {
		return fmt.Errorf("seed recovery email: %w", err)
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	var m *metrics.Manager
	if cfg.MetricsEnabled {
		m = metrics.NewManager()
	}

	// ── Prose ─────────────────────────────────────────────────────────────────
	writer, err := newProseWriter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("prose: %w", err)
	}

	// ── Email ─────────────────────────────────────────────────────────────────
	var mailer email.Sender
	if cfg.ResendAPIKey != "" {
		mailer = email.NewResendClient(cfg.ResendAPIKey, cfg.EmailFromAddr, cfg.EmailFromName)
	} else {
		mailer = email.NewLogSender(logger)
		logger.Info("email: RESEND_API_KEY not set, recovery emails are only logged")
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	job := worker.NewJob(st, logger)
	runner := worker.NewRunner(job, st.Q(), worker.RunnerConfig{
		Workers:      cfg.WorkerCount,
		PollInterval: cfg.PollInterval,
		JobTimeout:   cfg.JobTimeout,
		MaxRetries:   cfg.MaxRetries,
	}, m, logger)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		st,
		runner, // *Runner satisfies worker.Enqueuer
		mailer,
		writer,
		m,
		api.Config{
			BaseURL:     cfg.BaseURL,
			AdminCode:   cfg.AdminCode,
			CORSOrigins: cfg.CORSOrigins,
		},
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // dashboard may wait on the chat model
		IdleTimeout:  120 * time.Second,
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	workerDone := make(chan struct{})
	go func() {
		runner.Start(ctx)
		close(workerDone)
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight HTTP requests up to 20 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-workerDone

	logger.Info("shutdown complete")
	return nil
}

// newProseWriter picks the recommendation prose writer. The chat model is
// primary and Anthropic the fallback when both keys are set. With neither the
// dashboard uses the built-in templates.
func newProseWriter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (prose.Writer, error) {
	var chat prose.Writer
	if cfg.LLMAPIKey != "" {
		w, err := prose.NewChatWriter(ctx, prose.ChatConfig{
			BaseURL: cfg.LLMBaseURL,
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			RPM:     cfg.LLMRPM,
		})
		if err != nil {
			return nil, err
		}
		chat = w
	}

	switch {
	case chat != nil && cfg.AnthropicAPIKey != "":
		logger.Info("prose: using chat model with Anthropic fallback", "model", cfg.LLMModel)
		return prose.NewFallbackWriter(chat, prose.NewAnthropicWriter(cfg.AnthropicAPIKey, cfg.AnthropicModel), logger), nil
	case chat != nil:
		logger.Info("prose: using chat model only", "model", cfg.LLMModel)
		return chat, nil
	case cfg.AnthropicAPIKey != "":
		logger.Info("prose: using Anthropic only", "model", cfg.AnthropicModel)
		return prose.NewAnthropicWriter(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	default:
		logger.Info("prose: no model configured, using templates")
		return nil, nil
	}
}
