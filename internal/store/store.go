// Package store wraps db.Querier with transaction support and groups the
// multi-step write operations that must execute atomically.
//
// Single-query reads (GetSurveyByID, ListRespondentsBySurvey, etc.) should be
// called directly on db.Querier via Q() in handlers.
//
// Dependency rule: store imports db and the pure domain packages only. It
// never imports api, worker, prose, or email.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nyashahama/fluir-backend/internal/db"
)

// Store holds a *sql.DB for starting transactions and a db.Querier for
// executing queries outside of transactions. The operation files
// (surveys.go, respondents.go, recommendations.go) attach methods to it.
type Store struct {
	pool *sql.DB
	q    db.Querier

	// now and newCode are swapped in tests.
	now     func() time.Time
	newCode func() (string, error)
}

// New creates a Store from a live connection pool. The pool must already be
// open and migrated.
func New(pool *sql.DB, q db.Querier) *Store {
	return &Store{
		pool:    pool,
		q:       q,
		now:     func() time.Time { return time.Now().UTC() },
		newCode: GenerateSurveyCode,
	}
}

// Q exposes the underlying Querier for single-query reads.
//
//	survey, err := s.Q().GetSurveyByCode(ctx, code)
func (s *Store) Q() db.Querier {
	return s.q
}

// txQuerier is a function that receives a transactional Querier and returns an
// error. Returning a non-nil error causes withTx to roll back automatically.
type txQuerier func(ctx context.Context, q db.Querier) error

// withTx begins a transaction, passes a Querier scoped to that transaction to
// fn, and commits on success or rolls back on any error (including panics).
//
// Postgres transactions run serializable because every multi-step write here
// reads before it writes. SQLite serialises writers on its own and keeps the
// driver default.
func (s *Store) withTx(ctx context.Context, fn txQuerier) error {
	queries := s.q.(*db.Queries)

	var opts *sql.TxOptions
	if queries.Dialect() == db.Postgres {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}

	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("store: fn error: %w; rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit transaction: %w", err)
	}
	return nil
}
