package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/recommend"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// CustomRecommendationParams is an admin-authored recommendation.
type CustomRecommendationParams struct {
	SurveyID     uuid.UUID
	DimensionIDs []string
	Priority     recommend.Priority
	Title        string
	Description  string
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrRecommendationsExist is returned by SaveGeneratedRecommendations when the
// survey already has stored recommendations, either from a concurrent
// generation or from an admin. The existing rows are returned alongside it and
// callers should use them as-is.
var ErrRecommendationsExist = errors.New("store: survey already has recommendations")

// ─── METHODS ─────────────────────────────────────────────────────────────────

// SaveGeneratedRecommendations atomically:
//
//  1. Checks whether the survey already has recommendations (idempotency
//     guard shared by the worker and the dashboard's lazy path).
//  2. Inserts recs with order_index equal to their position.
//  3. Marks the survey as generated, so an empty recs list is not retried
//     until the next submission.
func (s *Store) SaveGeneratedRecommendations(ctx context.Context, surveyID uuid.UUID, recs []recommend.Recommendation) ([]db.Recommendation, error) {
	var saved []db.Recommendation

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		existing, err := q.ListRecommendationsBySurvey(ctx, surveyID)
		if err != nil {
			return fmt.Errorf("SaveGeneratedRecommendations: list existing: %w", err)
		}
		if len(existing) > 0 {
			saved = existing
			return ErrRecommendationsExist
		}

		saved = make([]db.Recommendation, 0, len(recs))
		for i, r := range recs {
			row, err := q.CreateRecommendation(ctx, db.CreateRecommendationParams{
				ID:           uuid.New(),
				SurveyID:     surveyID,
				DimensionIds: strings.Join(r.DimensionIDs, ","),
				Priority:     string(r.Priority),
				Title:        r.Title,
				Description:  r.Description,
				IsCustom:     false,
				OrderIndex:   int32(i),
			})
			if err != nil {
				return fmt.Errorf("SaveGeneratedRecommendations: insert %d: %w", i, err)
			}
			saved = append(saved, row)
		}
		err = q.MarkRecommendationsGenerated(ctx, db.MarkRecommendationsGeneratedParams{
			GeneratedAt: s.now(),
			ID:          surveyID,
		})
		if err != nil {
			return fmt.Errorf("SaveGeneratedRecommendations: mark generated: %w", err)
		}
		return nil
	})

	if errors.Is(err, ErrRecommendationsExist) {
		return saved, ErrRecommendationsExist
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// AddCustomRecommendation appends an admin-authored recommendation after the
// survey's existing ones. Once a survey has a custom recommendation, new
// submissions stop resetting its list.
func (s *Store) AddCustomRecommendation(ctx context.Context, p CustomRecommendationParams) (db.Recommendation, error) {
	var row db.Recommendation

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		last, err := q.MaxRecommendationOrder(ctx, p.SurveyID)
		if err != nil {
			return fmt.Errorf("AddCustomRecommendation: max order: %w", err)
		}
		row, err = q.CreateRecommendation(ctx, db.CreateRecommendationParams{
			ID:           uuid.New(),
			SurveyID:     p.SurveyID,
			DimensionIds: strings.Join(p.DimensionIDs, ","),
			Priority:     string(p.Priority),
			Title:        p.Title,
			Description:  p.Description,
			IsCustom:     true,
			OrderIndex:   last + 1,
		})
		if err != nil {
			return fmt.Errorf("AddCustomRecommendation: insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return db.Recommendation{}, err
	}
	return row, nil
}

// ToRecommendation converts a stored row back to the domain type.
func ToRecommendation(r db.Recommendation) recommend.Recommendation {
	var ids []string
	if r.DimensionIds != "" {
		ids = strings.Split(r.DimensionIds, ",")
	}
	return recommend.Recommendation{
		DimensionIDs: ids,
		Priority:     recommend.Priority(r.Priority),
		Title:        r.Title,
		Description:  r.Description,
	}
}
