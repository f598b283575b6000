package db

import (
	"context"

	"github.com/google/uuid"
)

type Querier interface {
	ClearRecommendationsGenerated(ctx context.Context, id uuid.UUID) error
	CountCustomRecommendations(ctx context.Context, surveyID uuid.UUID) (int64, error)
	CountRespondentsBySurvey(ctx context.Context, surveyID uuid.UUID) (int64, error)
	CountSurveysByAdminCode(ctx context.Context, adminCode string) (int64, error)
	CreateRecommendation(ctx context.Context, arg CreateRecommendationParams) (Recommendation, error)
	CreateRecoveryEmail(ctx context.Context, arg CreateRecoveryEmailParams) error
	CreateRespondent(ctx context.Context, arg CreateRespondentParams) (Respondent, error)
	CreateSurvey(ctx context.Context, arg CreateSurveyParams) (Survey, error)
	DeleteRecommendation(ctx context.Context, arg DeleteRecommendationParams) error
	DeleteRecommendationsBySurvey(ctx context.Context, surveyID uuid.UUID) error
	DeleteSurvey(ctx context.Context, id uuid.UUID) error
	GetRecoveryEmail(ctx context.Context, email string) (AdminRecoveryEmail, error)
	GetSurveyByCode(ctx context.Context, code string) (Survey, error)
	GetSurveyByID(ctx context.Context, id uuid.UUID) (Survey, error)
	ListRecommendationsBySurvey(ctx context.Context, surveyID uuid.UUID) ([]Recommendation, error)
	ListRespondentsBySurvey(ctx context.Context, surveyID uuid.UUID) ([]Respondent, error)
	ListSurveysByAdminCode(ctx context.Context, adminCode string) ([]ListSurveysByAdminCodeRow, error)
	ListSurveysPendingRecommendations(ctx context.Context, limit int32) ([]uuid.UUID, error)
	MarkRecommendationsGenerated(ctx context.Context, arg MarkRecommendationsGeneratedParams) error
	MaxRecommendationOrder(ctx context.Context, surveyID uuid.UUID) (int32, error)
	UpdateSurveySettings(ctx context.Context, arg UpdateSurveySettingsParams) (Survey, error)
}

var _ Querier = (*Queries)(nil)
