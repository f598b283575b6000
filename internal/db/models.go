package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Survey struct {
	ID              uuid.UUID
	Code            string
	CompanyName     string
	AdminCode       string
	ThankYouTitle   string
	ThankYouMessage string
	IsActive        bool
	CreatedAt       time.Time
}

type Respondent struct {
	ID          uuid.UUID
	SurveyID    uuid.UUID
	DisplayID   string
	Responses   pqtype.NullRawMessage
	SubmittedAt time.Time
}

type Recommendation struct {
	ID           uuid.UUID
	SurveyID     uuid.UUID
	DimensionIds string
	Priority     string
	Title        string
	Description  string
	IsCustom     bool
	OrderIndex   int32
}

type AdminRecoveryEmail struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}
