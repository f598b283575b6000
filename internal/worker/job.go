package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nyashahama/fluir-backend/internal/store"
)

// Job regenerates and stores one survey's recommendations.
type Job struct {
	store  *store.Store
	logger *slog.Logger
}

// NewJob constructs a Job with all required dependencies.
func NewJob(st *store.Store, logger *slog.Logger) *Job {
	return &Job{store: st, logger: logger}
}

// Run executes the refresh for a single survey:
//
//  1. Load and score every respondent, then aggregate.
//  2. Select recommendations from the aggregate and store them, unless the
//     survey already has a list (another worker or a dashboard load won).
//
// Any error is returned to the Runner, which retries up to MaxRetries times.
func (j *Job) Run(ctx context.Context, surveyID uuid.UUID) error {
	log := j.logger.With("survey_id", surveyID)
	log.Debug("job: starting")

	results, err := j.store.LoadResults(ctx, surveyID)
	if err != nil {
		return fmt.Errorf("job: load results: %w", err)
	}
	if len(results.Respondents) == 0 {
		log.Debug("job: survey has no respondents, nothing to do")
		return nil
	}

	recs, err := j.store.EnsureRecommendations(ctx, surveyID, results.Aggregate)
	if err != nil {
		return fmt.Errorf("job: ensure recommendations: %w", err)
	}

	log.Info("job: recommendations ready",
		"respondents", len(results.Respondents),
		"recommendations", len(recs),
	)
	return nil
}
