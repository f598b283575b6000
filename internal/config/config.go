// Package config loads and validates all environment variables at startup.
// Every other package receives typed values; nothing reads os.Getenv directly.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAdminCode is the global admin code used when FLUIR_ADMIN_CODE is
// unset. Production refuses to start with it.
const DefaultAdminCode = "fluir2026"

// DefaultLLMBaseURL is Gemini's OpenAI-compatible endpoint.
const DefaultLLMBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port           string     // default "8000"
	Env            string     // "development" | "staging" | "production"
	LogLevel       slog.Level // default info
	BaseURL        string     // public origin used to build survey links
	CORSOrigins    []string   // default ["*"]
	MetricsEnabled bool       // default true; mounts /metrics

	// ── Database ──────────────────────────────────────────────────────────────
	DatabaseURL string // postgres://... or a SQLite DSN such as file:fluir.db

	// ── Admin ─────────────────────────────────────────────────────────────────
	AdminCode          string // global code that unlocks every survey
	AdminRecoveryEmail string // seeded into admin_recovery_emails on start

	// ── Chat model (OpenAI-compatible, Gemini by default) ─────────────────────
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string // default "gemini-2.0-flash"
	LLMRPM     int    // default 30

	// ── Anthropic ─────────────────────────────────────────────────────────────
	// Optional. Used as the fallback when the chat model fails.
	AnthropicAPIKey string
	AnthropicModel  string

	// ── Resend ────────────────────────────────────────────────────────────────
	ResendAPIKey  string
	EmailFromAddr string // default "acesso@fluir.app"
	EmailFromName string // default "Fluir"

	// ── Worker ────────────────────────────────────────────────────────────────
	WorkerCount  int           // default 2
	PollInterval time.Duration // default 30s
	JobTimeout   time.Duration // default 2m
	MaxRetries   int           // default 3
}

// Load reads all environment variables and returns a validated Config.
// A .env file in the working directory is loaded first when present; real
// environment variables always take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		Port:               getEnv("PORT", "8000"),
		Env:                getEnv("ENV", "development"),
		BaseURL:            strings.TrimRight(getEnv("BASE_URL", "http://localhost:8000"), "/"),
		CORSOrigins:        getEnvAsList("CORS_ORIGINS", []string{"*"}),
		MetricsEnabled:     getEnvAsBool("METRICS_ENABLED", true),
		DatabaseURL:        getEnv("DATABASE_URL", "file:fluir.db"),
		AdminCode:          getEnv("FLUIR_ADMIN_CODE", DefaultAdminCode),
		AdminRecoveryEmail: strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_RECOVERY_EMAIL"))),
		LLMAPIKey:          getEnv("FLUIR_GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		LLMBaseURL:         getEnv("FLUIR_LLM_BASE_URL", DefaultLLMBaseURL),
		LLMModel:           getEnv("FLUIR_LLM_MODEL", "gemini-2.0-flash"),
		LLMRPM:             getEnvAsInt("LLM_RPM", 30),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:     getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		EmailFromAddr:      getEnv("EMAIL_FROM_ADDR", "acesso@fluir.app"),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "Fluir"),
		WorkerCount:        getEnvAsInt("WORKER_COUNT", 2),
		PollInterval:       getEnvAsDuration("POLL_INTERVAL", 30*time.Second),
		JobTimeout:         getEnvAsDuration("JOB_TIMEOUT", 2*time.Minute),
		MaxRetries:         getEnvAsInt("MAX_RETRIES", 3),
	}

	var errs []error
	if err := c.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
	}
	if err := c.validate(); err != nil {
		errs = append(errs, err)
	}
	return c, errors.Join(errs...)
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) validate() error {
	var errs []error

	if c.IsProduction() {
		if !strings.HasPrefix(c.DatabaseURL, "postgres://") && !strings.HasPrefix(c.DatabaseURL, "postgresql://") {
			errs = append(errs, errors.New("DATABASE_URL must point at Postgres in production"))
		}
		if c.AdminCode == DefaultAdminCode {
			errs = append(errs, errors.New("FLUIR_ADMIN_CODE must be changed from the default in production"))
		}
	}

	if c.AdminRecoveryEmail != "" {
		if _, err := mail.ParseAddress(c.AdminRecoveryEmail); err != nil {
			errs = append(errs, fmt.Errorf("invalid ADMIN_RECOVERY_EMAIL: %w", err))
		}
	}
	if c.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT must be at least 1, got %d", c.WorkerCount))
	}
	if c.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("MAX_RETRIES must be at least 1, got %d", c.MaxRetries))
	}

	return errors.Join(errs...)
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration syntax ("30s", "2m") or a bare
// integer number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated value, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
