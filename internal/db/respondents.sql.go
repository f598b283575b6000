package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const createRespondent = `-- name: CreateRespondent :exec
INSERT INTO respondents (id, survey_id, display_id, responses, submitted_at)
VALUES ($1, $2, $3, $4, $5)
`

type CreateRespondentParams struct {
	ID          uuid.UUID
	SurveyID    uuid.UUID
	DisplayID   string
	Responses   pqtype.NullRawMessage
	SubmittedAt time.Time
}

func (q *Queries) CreateRespondent(ctx context.Context, arg CreateRespondentParams) (Respondent, error) {
	_, err := q.exec(ctx, createRespondent,
		arg.ID,
		arg.SurveyID,
		arg.DisplayID,
		arg.Responses,
		arg.SubmittedAt,
	)
	if err != nil {
		return Respondent{}, err
	}
	return Respondent(arg), nil
}

const listRespondentsBySurvey = `-- name: ListRespondentsBySurvey :many
SELECT id, survey_id, display_id, responses, submitted_at
FROM respondents
WHERE survey_id = $1
ORDER BY submitted_at ASC, display_id ASC
`

func (q *Queries) ListRespondentsBySurvey(ctx context.Context, surveyID uuid.UUID) ([]Respondent, error) {
	rows, err := q.query(ctx, listRespondentsBySurvey, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Respondent
	for rows.Next() {
		var i Respondent
		if err := rows.Scan(
			&i.ID,
			&i.SurveyID,
			&i.DisplayID,
			&i.Responses,
			&i.SubmittedAt,
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

const countRespondentsBySurvey = `-- name: CountRespondentsBySurvey :one
SELECT COUNT(*) FROM respondents WHERE survey_id = $1
`

func (q *Queries) CountRespondentsBySurvey(ctx context.Context, surveyID uuid.UUID) (int64, error) {
	var count int64
	err := q.queryRow(ctx, countRespondentsBySurvey, surveyID).Scan(&count)
	return count, err
}
