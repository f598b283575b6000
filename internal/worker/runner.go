// Package worker contains the background pipeline that regenerates a
// survey's stored recommendations after new submissions. It is decoupled
// from the HTTP layer: the api package holds a worker.Enqueuer and calls
// Enqueue; it never imports the concrete Runner or Job types.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/metrics"
)

// ─── ENQUEUER INTERFACE ───────────────────────────────────────────────────────

// Enqueuer is the narrow interface the api package uses to request a
// recommendation refresh after a submission.
//
// The concrete implementation is *Runner. In tests, any struct with an Enqueue
// method satisfies the interface.
type Enqueuer interface {
	Enqueue(ctx context.Context, surveyID uuid.UUID) error
}

// Processor runs one refresh. *Job is the production implementation.
type Processor interface {
	Run(ctx context.Context, surveyID uuid.UUID) error
}

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters for the Runner. Zero fields take the
// values from DefaultRunnerConfig.
type RunnerConfig struct {
	// Workers is the number of concurrent job goroutines.
	Workers int

	// PollInterval is how often the poller looks for surveys that have
	// respondents but no stored recommendations.
	PollInterval time.Duration

	// JobTimeout is the per-attempt context deadline.
	JobTimeout time.Duration

	// MaxRetries is the number of attempts before a refresh is abandoned.
	// The dashboard regenerates lazily, so an abandoned refresh only costs
	// latency on the next dashboard load.
	MaxRetries int

	// RetryBackoff is the base of the exponential back-off between attempts.
	RetryBackoff time.Duration
}

// DefaultRunnerConfig returns safe production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:      2,
		PollInterval: 30 * time.Second,
		JobTimeout:   2 * time.Minute,
		MaxRetries:   3,
		RetryBackoff: time.Second,
	}
}

// pollBatch caps how many pending surveys one poll cycle fetches.
const pollBatch = 100

// Runner manages a pool of worker goroutines. It accepts survey ids via an
// in-process channel (fast path, used right after a submission) and also
// polls the database so refreshes lost to a full queue or a restart are
// still picked up.
type Runner struct {
	job     Processor
	q       db.Querier
	cfg     RunnerConfig
	metrics *metrics.Manager
	logger  *slog.Logger

	queue chan uuid.UUID
	wg    sync.WaitGroup
}

// NewRunner constructs a Runner. Call Start() to begin processing.
func NewRunner(
	job Processor,
	q db.Querier,
	cfg RunnerConfig,
	m *metrics.Manager,
	logger *slog.Logger,
) *Runner {
	def := DefaultRunnerConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = def.RetryBackoff
	}

	return &Runner{
		job:     job,
		q:       q,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		// Buffer = Workers*2 so Enqueue never blocks under normal load.
		queue: make(chan uuid.UUID, cfg.Workers*2),
	}
}

// Enqueue pushes a survey id onto the in-process channel. If the channel is
// full it returns an error rather than blocking the HTTP response; the
// poller will find the survey later.
func (r *Runner) Enqueue(_ context.Context, surveyID uuid.UUID) error {
	select {
	case r.queue <- surveyID:
		r.metrics.SetQueueDepth(len(r.queue))
		r.logger.Info("worker: enqueued survey", "survey_id", surveyID)
		return nil
	default:
		return errors.New("worker: queue is full, survey will be picked up by poller")
	}
}

// Start launches the worker pool and the poller. It blocks until ctx is
// cancelled. Call it in a goroutine from main:
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("worker: starting", "workers", r.cfg.Workers, "poll_interval", r.cfg.PollInterval)

	for i := 0; i < r.cfg.Workers; i++ {
		r.wg.Add(1)
		go r.work(ctx, i)
	}

	r.wg.Add(1)
	go r.poll(ctx)

	r.wg.Wait()
	r.logger.Info("worker: stopped")
}

func (r *Runner) work(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)
	log.Debug("worker: goroutine started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("worker: goroutine stopping")
			return
		case surveyID := <-r.queue:
			r.metrics.SetQueueDepth(len(r.queue))
			r.runWithRetry(ctx, surveyID, log)
		}
	}
}

func (r *Runner) poll(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	// Run once immediately to pick up anything from before a restart.
	r.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pollOnce(ctx)
		}
	}
}

func (r *Runner) pollOnce(ctx context.Context) {
	ids, err := r.q.ListSurveysPendingRecommendations(ctx, pollBatch)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("worker: poll failed", "error", err)
		}
		return
	}
	for _, id := range ids {
		select {
		case r.queue <- id:
			r.logger.Debug("worker: poller enqueued survey", "survey_id", id)
		default:
			// Queue full; next poll cycle.
		}
	}
	r.metrics.SetQueueDepth(len(r.queue))
}

// runWithRetry executes the job up to MaxRetries times.
func (r *Runner) runWithRetry(ctx context.Context, surveyID uuid.UUID, log *slog.Logger) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		start := time.Now()
		jobCtx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
		lastErr = r.job.Run(jobCtx, surveyID)
		cancel()

		if lastErr == nil {
			r.metrics.RecordJob(metrics.OutcomeSuccess, time.Since(start))
			log.Info("worker: job completed", "survey_id", surveyID, "attempt", attempt)
			return
		}

		log.Warn("worker: job attempt failed",
			"survey_id", surveyID,
			"attempt", attempt,
			"max", r.cfg.MaxRetries,
			"error", lastErr,
		)

		if attempt < r.cfg.MaxRetries {
			r.metrics.RecordJob(metrics.OutcomeRetry, time.Since(start))
			// Exponential back-off: 2x, 4x, 8x RetryBackoff.
			backoff := r.cfg.RetryBackoff * time.Duration(1<<attempt)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			continue
		}
		r.metrics.RecordJob(metrics.OutcomeFailed, time.Since(start))
	}

	log.Error("worker: job abandoned", "survey_id", surveyID, "error", lastErr)
}
