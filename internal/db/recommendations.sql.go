package db

import (
	"context"

	"github.com/google/uuid"
)

const createRecommendation = `-- name: CreateRecommendation :exec
INSERT INTO recommendations (id, survey_id, dimension_ids, priority, title, description, is_custom, order_index)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateRecommendationParams struct {
	ID           uuid.UUID
	SurveyID     uuid.UUID
	DimensionIds string
	Priority     string
	Title        string
	Description  string
	IsCustom     bool
	OrderIndex   int32
}

func (q *Queries) CreateRecommendation(ctx context.Context, arg CreateRecommendationParams) (Recommendation, error) {
	_, err := q.exec(ctx, createRecommendation,
		arg.ID,
		arg.SurveyID,
		arg.DimensionIds,
		arg.Priority,
		arg.Title,
		arg.Description,
		arg.IsCustom,
		arg.OrderIndex,
	)
	if err != nil {
		return Recommendation{}, err
	}
	return Recommendation(arg), nil
}

const listRecommendationsBySurvey = `-- name: ListRecommendationsBySurvey :many
SELECT id, survey_id, dimension_ids, priority, title, description, is_custom, order_index
FROM recommendations
WHERE survey_id = $1
ORDER BY order_index ASC
`

func (q *Queries) ListRecommendationsBySurvey(ctx context.Context, surveyID uuid.UUID) ([]Recommendation, error) {
	rows, err := q.query(ctx, listRecommendationsBySurvey, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Recommendation
	for rows.Next() {
		var i Recommendation
		if err := rows.Scan(
			&i.ID,
			&i.SurveyID,
			&i.DimensionIds,
			&i.Priority,
			&i.Title,
			&i.Description,
			&i.IsCustom,
			&i.OrderIndex,
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

const countCustomRecommendations = `-- name: CountCustomRecommendations :one
SELECT COUNT(*) FROM recommendations WHERE survey_id = $1 AND is_custom = TRUE
`

func (q *Queries) CountCustomRecommendations(ctx context.Context, surveyID uuid.UUID) (int64, error) {
	var count int64
	err := q.queryRow(ctx, countCustomRecommendations, surveyID).Scan(&count)
	return count, err
}

const maxRecommendationOrder = `-- name: MaxRecommendationOrder :one
SELECT COALESCE(MAX(order_index), -1) FROM recommendations WHERE survey_id = $1
`

// MaxRecommendationOrder returns -1 when the survey has no recommendations.
func (q *Queries) MaxRecommendationOrder(ctx context.Context, surveyID uuid.UUID) (int32, error) {
	var n int32
	err := q.queryRow(ctx, maxRecommendationOrder, surveyID).Scan(&n)
	return n, err
}

const deleteRecommendationsBySurvey = `-- name: DeleteRecommendationsBySurvey :exec
DELETE FROM recommendations WHERE survey_id = $1
`

func (q *Queries) DeleteRecommendationsBySurvey(ctx context.Context, surveyID uuid.UUID) error {
	_, err := q.exec(ctx, deleteRecommendationsBySurvey, surveyID)
	return err
}

const deleteRecommendation = `-- name: DeleteRecommendation :exec
DELETE FROM recommendations WHERE id = $1 AND survey_id = $2
`

type DeleteRecommendationParams struct {
	ID       uuid.UUID
	SurveyID uuid.UUID
}

func (q *Queries) DeleteRecommendation(ctx context.Context, arg DeleteRecommendationParams) error {
	return affectedOne(q.exec(ctx, deleteRecommendation, arg.ID, arg.SurveyID))
}
