package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nyashahama/fluir-backend/internal/db"
	"github.com/nyashahama/fluir-backend/internal/recommend"
	"github.com/nyashahama/fluir-backend/internal/scoring"
)

// RespondentScores pairs a stored respondent with its recomputed scores.
type RespondentScores struct {
	Respondent db.Respondent
	Scores     []scoring.DimensionScore
}

// SurveyResults is everything derived from a survey's answers. Nothing in it
// is stored; it is recomputed from the respondents on every load.
type SurveyResults struct {
	Respondents []RespondentScores
	Aggregate   []scoring.DimensionScore
}

// LoadResults scores every respondent of a survey and aggregates them.
func (s *Store) LoadResults(ctx context.Context, surveyID uuid.UUID) (SurveyResults, error) {
	rows, err := s.q.ListRespondentsBySurvey(ctx, surveyID)
	if err != nil {
		return SurveyResults{}, fmt.Errorf("LoadResults: list respondents: %w", err)
	}

	res := SurveyResults{Respondents: make([]RespondentScores, 0, len(rows))}
	all := make([][]scoring.DimensionScore, 0, len(rows))
	for _, r := range rows {
		answers, err := DecodeAnswers(r)
		if err != nil {
			return SurveyResults{}, fmt.Errorf("LoadResults: %w", err)
		}
		scores := scoring.ScoreDimensions(answers)
		res.Respondents = append(res.Respondents, RespondentScores{Respondent: r, Scores: scores})
		all = append(all, scores)
	}
	res.Aggregate = scoring.AggregateAcrossRespondents(all)
	return res, nil
}

// EnsureRecommendations returns the survey's stored recommendations,
// generating and storing them from aggregate first if there are none.
func (s *Store) EnsureRecommendations(ctx context.Context, surveyID uuid.UUID, aggregate []scoring.DimensionScore) ([]db.Recommendation, error) {
	existing, err := s.q.ListRecommendationsBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("EnsureRecommendations: list: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	saved, err := s.SaveGeneratedRecommendations(ctx, surveyID, recommend.Generate(aggregate))
	if err != nil && !errors.Is(err, ErrRecommendationsExist) {
		return nil, err
	}
	return saved, nil
}
