// Package postgres opens the shared database handle and owns the schema.
// Stores receive the handle through their constructors; nothing holds a
// package-level connection.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects via the pgx stdlib driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, so stores can translate it to sentinel.ErrConflict.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// EnsureSchema creates all tables when missing. Keeping DDL in code lets the
// CLI bootstrap a fresh database without external migration tooling.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS roles (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	permissions JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	entity_id UUID,
	reset_token TEXT,
	reset_token_expires TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
	ON users (lower(email)) WHERE active;

CREATE TABLE IF NOT EXISTS user_roles (
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
	PRIMARY KEY (user_id, role_id)
);

CREATE TABLE IF NOT EXISTS entities (
	id UUID PRIMARY KEY,
	type TEXT NOT NULL,
	document_number TEXT NOT NULL UNIQUE,
	first_name TEXT,
	paternal_surname TEXT,
	maternal_surname TEXT,
	business_name TEXT,
	address TEXT,
	phone TEXT,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS document_types (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS resource_types (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	is_required BOOLEAN NOT NULL DEFAULT FALSE,
	max_file_size BIGINT NOT NULL DEFAULT 0,
	allowed_file_types JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS document_type_resource_types (
	document_type_id UUID NOT NULL REFERENCES document_types(id) ON DELETE CASCADE,
	resource_type_id UUID NOT NULL REFERENCES resource_types(id) ON DELETE CASCADE,
	PRIMARY KEY (document_type_id, resource_type_id)
);

CREATE TABLE IF NOT EXISTS requests (
	id UUID PRIMARY KEY,
	entity_id UUID NOT NULL REFERENCES entities(id),
	status TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_requests_entity ON requests(entity_id);

CREATE TABLE IF NOT EXISTS persons (
	id UUID PRIMARY KEY,
	request_id UUID NOT NULL REFERENCES requests(id) ON DELETE CASCADE,
	dni TEXT NOT NULL,
	fullname TEXT NOT NULL,
	phone TEXT,
	status TEXT NOT NULL,
	observations TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_persons_request ON persons(request_id);
CREATE INDEX IF NOT EXISTS idx_persons_status ON persons(status);

CREATE TABLE IF NOT EXISTS person_recruiters (
	person_id UUID NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	assigned_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (person_id, user_id)
);

CREATE TABLE IF NOT EXISTS documents (
	id UUID PRIMARY KEY,
	person_id UUID NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	document_type_id UUID NOT NULL REFERENCES document_types(id),
	name TEXT NOT NULL,
	result TEXT NOT NULL DEFAULT '',
	filename TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	semaforo TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_person ON documents(person_id);

CREATE TABLE IF NOT EXISTS resources (
	id UUID PRIMARY KEY,
	document_id UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	resource_type_id UUID NOT NULL REFERENCES resource_types(id),
	name TEXT NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resources_document ON resources(document_id);

CREATE TABLE IF NOT EXISTS recruitments (
	id UUID PRIMARY KEY,
	entity_id UUID NOT NULL REFERENCES entities(id),
	type TEXT NOT NULL,
	state TEXT NOT NULL,
	created_by UUID,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recruitments_entity ON recruitments(entity_id);

CREATE TABLE IF NOT EXISTS audit_events (
	id UUID PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL,
	actor_id UUID,
	action TEXT NOT NULL,
	person_id UUID,
	detail TEXT
);
CREATE INDEX IF NOT EXISTS idx_audit_events_person ON audit_events(person_id);

CREATE TABLE IF NOT EXISTS job_profiles (
	id UUID PRIMARY KEY,
	recruitment_id UUID NOT NULL REFERENCES recruitments(id) ON DELETE CASCADE,
	entity_id UUID NOT NULL REFERENCES entities(id),
	position_name TEXT NOT NULL,
	area TEXT,
	work_location TEXT,
	work_modality TEXT,
	contract_type TEXT,
	salary_range_from NUMERIC,
	salary_range_to NUMERIC,
	job_functions JSONB NOT NULL DEFAULT '[]',
	status TEXT NOT NULL,
	created_by UUID,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
