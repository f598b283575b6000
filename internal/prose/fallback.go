package prose

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nyashahama/fluir-backend/internal/recommend"
)

// fallbackWriter calls primary first and, when it fails, logs the failure
// and tries secondary.
type fallbackWriter struct {
	primary   Writer
	secondary Writer
	logger    *slog.Logger
}

// NewFallbackWriter returns a Writer that calls primary and, on failure,
// falls back to secondary. A nil primary goes straight to secondary; a nil
// secondary makes a primary failure the result.
func NewFallbackWriter(primary, secondary Writer, logger *slog.Logger) Writer {
	return &fallbackWriter{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (f *fallbackWriter) Write(ctx context.Context, recs []recommend.Recommendation) (Prose, error) {
	if f.primary != nil {
		p, err := f.primary.Write(ctx, recs)
		if err == nil {
			return p, nil
		}
		f.logger.Warn("prose: primary writer failed, trying secondary",
			"error", err,
			"recommendations", len(recs),
		)
		if f.secondary == nil {
			return Prose{}, fmt.Errorf("prose: primary failed and no secondary configured: %w", err)
		}
	}
	if f.secondary == nil {
		return Prose{}, fmt.Errorf("prose: no writer configured")
	}
	return f.secondary.Write(ctx, recs)
}
