package prose

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/nyashahama/fluir-backend/internal/recommend"
)

// DefaultChatBaseURL is Gemini's OpenAI-compatible endpoint.
const DefaultChatBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// Generator is the subset of an eino chat model the chat writer needs.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// ChatConfig configures NewChatWriter.
type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	RPM     int // requests per minute; <= 0 disables limiting
}

type chatWriter struct {
	gen     Generator
	limiter *rate.Limiter
}

// NewChatWriter returns a Writer backed by an OpenAI-compatible chat
// completion endpoint.
func NewChatWriter(ctx context.Context, cfg ChatConfig) (Writer, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultChatBaseURL
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("prose: init chat model: %w", err)
	}
	return NewGeneratorWriter(cm, newLimiter(cfg.RPM)), nil
}

// NewGeneratorWriter wraps any Generator. limiter may be nil.
func NewGeneratorWriter(gen Generator, limiter *rate.Limiter) Writer {
	return &chatWriter{gen: gen, limiter: limiter}
}

func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
}

func (c *chatWriter) Write(ctx context.Context, recs []recommend.Recommendation) (Prose, error) {
	g := group(recs)
	if g.empty() {
		return Prose{}, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Prose{}, fmt.Errorf("prose: rate limit: %w", err)
		}
	}

	resp, err := c.gen.Generate(ctx, []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: buildPrompt(g)},
	})
	if err != nil {
		return Prose{}, fmt.Errorf("prose: generate: %w", err)
	}
	if resp == nil {
		return Prose{}, fmt.Errorf("prose: generate returned no message")
	}
	return parseReply(resp.Content)
}
