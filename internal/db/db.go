// Package db is the query layer. It follows the layout sqlc generates: one
// Queries type holding a DBTX, a Querier interface for mocking, and one file
// per table. Queries are written once in Postgres syntax and rebound for
// SQLite at call time.
package db

import (
	"context"
	"database/sql"
	"regexp"
)

// DBTX is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Dialect selects placeholder syntax and schema.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// New returns Queries over db for the given dialect.
func New(db DBTX, dialect Dialect) *Queries {
	return &Queries{db: db, dialect: dialect}
}

type Queries struct {
	db      DBTX
	dialect Dialect
}

// WithTx returns a copy of q that runs every query inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, dialect: q.dialect}
}

// Dialect reports which database q talks to.
func (q *Queries) Dialect() Dialect { return q.dialect }

var pgPlaceholder = regexp.MustCompile(`\$[0-9]+`)

// bind rewrites $N placeholders to ? for SQLite. Every query in this package
// uses each placeholder exactly once and in ascending order, which is what
// makes the positional rewrite safe.
func (q *Queries) bind(query string) string {
	if q.dialect != SQLite {
		return query
	}
	return pgPlaceholder.ReplaceAllString(query, "?")
}

func (q *Queries) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.bind(query), args...)
}

func (q *Queries) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.bind(query), args...)
}

func (q *Queries) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return q.db.QueryRowContext(ctx, q.bind(query), args...)
}

// affectedOne turns a zero-row write into sql.ErrNoRows so callers can map it
// to a not-found response the same way they do for reads.
func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
