package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const surveyColumns = `id, code, company_name, admin_code, thank_you_title, thank_you_message, is_active, created_at`

func scanSurvey(row interface{ Scan(...interface{}) error }) (Survey, error) {
	var i Survey
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.CompanyName,
		&i.AdminCode,
		&i.ThankYouTitle,
		&i.ThankYouMessage,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const createSurvey = `-- name: CreateSurvey :exec
INSERT INTO surveys (` + surveyColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateSurveyParams struct {
	ID              uuid.UUID
	Code            string
	CompanyName     string
	AdminCode       string
	ThankYouTitle   string
	ThankYouMessage string
	IsActive        bool
	CreatedAt       time.Time
}

func (q *Queries) CreateSurvey(ctx context.Context, arg CreateSurveyParams) (Survey, error) {
	_, err := q.exec(ctx, createSurvey,
		arg.ID,
		arg.Code,
		arg.CompanyName,
		arg.AdminCode,
		arg.ThankYouTitle,
		arg.ThankYouMessage,
		arg.IsActive,
		arg.CreatedAt,
	)
	if err != nil {
		return Survey{}, err
	}
	return Survey(arg), nil
}

const getSurveyByID = `-- name: GetSurveyByID :one
SELECT ` + surveyColumns + ` FROM surveys WHERE id = $1
`

func (q *Queries) GetSurveyByID(ctx context.Context, id uuid.UUID) (Survey, error) {
	return scanSurvey(q.queryRow(ctx, getSurveyByID, id))
}

const getSurveyByCode = `-- name: GetSurveyByCode :one
SELECT ` + surveyColumns + ` FROM surveys WHERE code = $1
`

func (q *Queries) GetSurveyByCode(ctx context.Context, code string) (Survey, error) {
	return scanSurvey(q.queryRow(ctx, getSurveyByCode, code))
}

const listSurveysByAdminCode = `-- name: ListSurveysByAdminCode :many
SELECT s.id, s.code, s.company_name, s.admin_code, s.thank_you_title,
       s.thank_you_message, s.is_active, s.created_at,
       (SELECT COUNT(*) FROM respondents r WHERE r.survey_id = s.id) AS respondent_count
FROM surveys s
WHERE s.admin_code = $1
ORDER BY s.created_at DESC
`

type ListSurveysByAdminCodeRow struct {
	Survey
	RespondentCount int64
}

func (q *Queries) ListSurveysByAdminCode(ctx context.Context, adminCode string) ([]ListSurveysByAdminCodeRow, error) {
	rows, err := q.query(ctx, listSurveysByAdminCode, adminCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListSurveysByAdminCodeRow
	for rows.Next() {
		var i ListSurveysByAdminCodeRow
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.CompanyName,
			&i.AdminCode,
			&i.ThankYouTitle,
			&i.ThankYouMessage,
			&i.IsActive,
			&i.CreatedAt,
			&i.RespondentCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countSurveysByAdminCode = `-- name: CountSurveysByAdminCode :one
SELECT COUNT(*) FROM surveys WHERE admin_code = $1
`

func (q *Queries) CountSurveysByAdminCode(ctx context.Context, adminCode string) (int64, error) {
	var count int64
	err := q.queryRow(ctx, countSurveysByAdminCode, adminCode).Scan(&count)
	return count, err
}

const updateSurveySettings = `-- name: UpdateSurveySettings :exec
UPDATE surveys SET
    company_name      = COALESCE($1, company_name),
    thank_you_title   = COALESCE($2, thank_you_title),
    thank_you_message = COALESCE($3, thank_you_message),
    is_active         = COALESCE($4, is_active)
WHERE id = $5
`

// UpdateSurveySettingsParams leaves a column unchanged when its field is
// not Valid.
type UpdateSurveySettingsParams struct {
	CompanyName     sql.NullString
	ThankYouTitle   sql.NullString
	ThankYouMessage sql.NullString
	IsActive        sql.NullBool
	ID              uuid.UUID
}

func (q *Queries) UpdateSurveySettings(ctx context.Context, arg UpdateSurveySettingsParams) (Survey, error) {
	err := affectedOne(q.exec(ctx, updateSurveySettings,
		arg.CompanyName,
		arg.ThankYouTitle,
		arg.ThankYouMessage,
		arg.IsActive,
		arg.ID,
	))
	if err != nil {
		return Survey{}, err
	}
	return q.GetSurveyByID(ctx, arg.ID)
}

const deleteSurvey = `-- name: DeleteSurvey :exec
DELETE FROM surveys WHERE id = $1
`

// DeleteSurvey removes the survey; respondents and recommendations go with it
// through ON DELETE CASCADE.
func (q *Queries) DeleteSurvey(ctx context.Context, id uuid.UUID) error {
	return affectedOne(q.exec(ctx, deleteSurvey, id))
}

const listSurveysPendingRecommendations = `-- name: ListSurveysPendingRecommendations :many
SELECT s.id
FROM surveys s
WHERE s.recommendations_generated_at IS NULL
  AND EXISTS (SELECT 1 FROM respondents r WHERE r.survey_id = s.id)
  AND NOT EXISTS (SELECT 1 FROM recommendations c WHERE c.survey_id = s.id)
ORDER BY s.created_at ASC
LIMIT $1
`

// ListSurveysPendingRecommendations returns surveys that have answers but no
// stored recommendations and whose latest answers were never run through
// generation. An all-green survey is generated into an empty list and stays
// off this list until its next submission. The worker poller uses it to catch
// refreshes whose enqueue was dropped.
func (q *Queries) ListSurveysPendingRecommendations(ctx context.Context, limit int32) ([]uuid.UUID, error) {
	rows, err := q.query(ctx, listSurveysPendingRecommendations, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markRecommendationsGenerated = `-- name: MarkRecommendationsGenerated :exec
UPDATE surveys SET recommendations_generated_at = $1 WHERE id = $2
`

type MarkRecommendationsGeneratedParams struct {
	GeneratedAt time.Time
	ID          uuid.UUID
}

// MarkRecommendationsGenerated records that the survey's current answers have
// been through recommendation generation, even when it produced nothing.
func (q *Queries) MarkRecommendationsGenerated(ctx context.Context, arg MarkRecommendationsGeneratedParams) error {
	return affectedOne(q.exec(ctx, markRecommendationsGenerated, arg.GeneratedAt, arg.ID))
}

const clearRecommendationsGenerated = `-- name: ClearRecommendationsGenerated :exec
UPDATE surveys SET recommendations_generated_at = NULL WHERE id = $1
`

func (q *Queries) ClearRecommendationsGenerated(ctx context.Context, id uuid.UUID) error {
	return affectedOne(q.exec(ctx, clearRecommendationsGenerated, id))
}
