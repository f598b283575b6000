package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/scoring"
	"github.com/sqlc-dev/pqtype"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

type SubmitResponsesParams struct {
	SurveyID uuid.UUID
	Answers  scoring.Answers
}

// ─── METHODS ─────────────────────────────────────────────────────────────────

// NewDisplayID returns the anonymous label shown for a respondent: "R"
// followed by eight hex characters.
func NewDisplayID() string {
	return "R" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// SubmitResponses records one respondent's answers. It atomically:
//
//  1. Inserts the respondent row.
//  2. Drops the survey's stored recommendations so they are regenerated from
//     the new aggregate, unless an admin has added custom ones, in which case
//     the curated list is left alone.
func (s *Store) SubmitResponses(ctx context.Context, p SubmitResponsesParams) (db.Respondent, error) {
	raw, err := json.Marshal(p.Answers)
	if err != nil {
		return db.Respondent{}, fmt.Errorf("SubmitResponses: marshal answers: %w", err)
	}

	var respondent db.Respondent
	err = s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		created, err := q.CreateRespondent(ctx, db.CreateRespondentParams{
			ID:          uuid.New(),
			SurveyID:    p.SurveyID,
			DisplayID:   NewDisplayID(),
			Responses:   pqtype.NullRawMessage{RawMessage: raw, Valid: true},
			SubmittedAt: s.now(),
		})
		if err != nil {
			return fmt.Errorf("SubmitResponses: insert respondent: %w", err)
		}
		respondent = created

		custom, err := q.CountCustomRecommendations(ctx, p.SurveyID)
		if err != nil {
			return fmt.Errorf("SubmitResponses: count custom recommendations: %w", err)
		}
		if custom > 0 {
			return nil
		}
		if err := q.DeleteRecommendationsBySurvey(ctx, p.SurveyID); err != nil {
			return fmt.Errorf("SubmitResponses: reset recommendations: %w", err)
		}
		if err := q.ClearRecommendationsGenerated(ctx, p.SurveyID); err != nil {
			return fmt.Errorf("SubmitResponses: clear generated mark: %w", err)
		}
		return nil
	})
	if err != nil {
		return db.Respondent{}, err
	}
	return respondent, nil
}

// DecodeAnswers parses a stored respondent's answers.
func DecodeAnswers(r db.Respondent) (scoring.Answers, error) {
	answers := scoring.Answers{}
	if !r.Responses.Valid || len(r.Responses.RawMessage) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(r.Responses.RawMessage, &answers); err != nil {
		return nil, fmt.Errorf("store: decode answers of %s: %w", r.DisplayID, err)
	}
	return answers, nil
}
