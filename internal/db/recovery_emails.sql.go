package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const createRecoveryEmail = `-- name: CreateRecoveryEmail :exec
INSERT INTO admin_recovery_emails (id, email, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (email) DO NOTHING
`

type CreateRecoveryEmailParams struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}

func (q *Queries) CreateRecoveryEmail(ctx context.Context, arg CreateRecoveryEmailParams) error {
	_, err := q.exec(ctx, createRecoveryEmail, arg.ID, arg.Email, arg.CreatedAt)
	return err
}

const getRecoveryEmail = `-- name: GetRecoveryEmail :one
SELECT id, email, created_at FROM admin_recovery_emails WHERE email = $1
`

func (q *Queries) GetRecoveryEmail(ctx context.Context, email string) (AdminRecoveryEmail, error) {
	var i AdminRecoveryEmail
	err := q.queryRow(ctx, getRecoveryEmail, email).Scan(&i.ID, &i.Email, &i.CreatedAt)
	return i, err
}
