// Package store persists the intake aggregate. The Postgres implementations
// participate in context-carried transactions; the in-memory implementations
// mirror their behavior for unit tests.
package store

import (
	"context"
	"database/sql"

	"smarttalent/pkg/platform/tx"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// pgBase holds the shared handle and resolves the active querier per call.
type pgBase struct {
	db *sql.DB
}

// q returns the transaction from context when one is open, else the pool.
func (b pgBase) q(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return b.db
}

// Postgres bundles one store per aggregate over a single database handle.
type Postgres struct {
	Requests    *Requests
	Persons     *Persons
	Documents   *Documents
	Resources   *Resources
	Assignments *Assignments
	Query       *Query
}

// NewPostgres creates the Postgres-backed intake stores.
func NewPostgres(db *sql.DB) *Postgres {
	base := pgBase{db: db}
	return &Postgres{
		Requests:    &Requests{pgBase: base},
		Persons:     &Persons{pgBase: base},
		Documents:   &Documents{pgBase: base},
		Resources:   &Resources{pgBase: base},
		Assignments: &Assignments{pgBase: base},
		Query:       &Query{pgBase: base},
	}
}
