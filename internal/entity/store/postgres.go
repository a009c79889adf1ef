// Package store persists requester entities in Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"smarttalent/internal/entity/models"
	"smarttalent/internal/platform/postgres"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/sentinel"
	"smarttalent/pkg/platform/tx"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres stores entities. Participates in a caller's transaction when one
// is in the context.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates the entity store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) q(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return p.db
}

const entityColumns = `id, type, document_number,
	COALESCE(first_name, ''), COALESCE(paternal_surname, ''), COALESCE(maternal_surname, ''),
	COALESCE(business_name, ''), COALESCE(address, ''), COALESCE(phone, ''),
	active, created_at, updated_at`

func (p *Postgres) Create(ctx context.Context, entity *models.Entity) error {
	_, err := p.q(ctx).ExecContext(ctx, `
		INSERT INTO entities (id, type, document_number, first_name, paternal_surname,
			maternal_surname, business_name, address, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''),
			NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12)`,
		uuid.UUID(entity.ID), string(entity.Type), entity.DocumentNumber,
		entity.FirstName, entity.PaternalSurname, entity.MaternalSurname,
		entity.BusinessName, entity.Address, entity.Phone,
		entity.Active, entity.CreatedAt, entity.UpdatedAt)
	if postgres.IsUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	return err
}

func (p *Postgres) FindByID(ctx context.Context, entityID id.EntityID) (*models.Entity, error) {
	row := p.q(ctx).QueryRowContext(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE id = $1`, uuid.UUID(entityID))
	return scanEntity(row)
}

func (p *Postgres) FindByDocumentNumber(ctx context.Context, documentNumber string) (*models.Entity, error) {
	row := p.q(ctx).QueryRowContext(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE document_number = $1`, documentNumber)
	return scanEntity(row)
}

func (p *Postgres) Update(ctx context.Context, entity *models.Entity) error {
	res, err := p.q(ctx).ExecContext(ctx, `
		UPDATE entities
		SET type = $2, document_number = $3, first_name = NULLIF($4, ''),
			paternal_surname = NULLIF($5, ''), maternal_surname = NULLIF($6, ''),
			business_name = NULLIF($7, ''), address = NULLIF($8, ''), phone = NULLIF($9, ''),
			active = $10, updated_at = $11
		WHERE id = $1`,
		uuid.UUID(entity.ID), string(entity.Type), entity.DocumentNumber,
		entity.FirstName, entity.PaternalSurname, entity.MaternalSurname,
		entity.BusinessName, entity.Address, entity.Phone,
		entity.Active, entity.UpdatedAt)
	if postgres.IsUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, includeInactive bool) ([]*models.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities`
	if !includeInactive {
		query += ` WHERE active`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := p.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

// Exists reports whether an active entity with the given id exists.
func (p *Postgres) Exists(ctx context.Context, entityID id.EntityID) (bool, error) {
	var ok bool
	err := p.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM entities WHERE id = $1 AND active)`,
		uuid.UUID(entityID)).Scan(&ok)
	return ok, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*models.Entity, error) {
	var (
		entity     models.Entity
		entityID   uuid.UUID
		entityType string
	)
	err := row.Scan(&entityID, &entityType, &entity.DocumentNumber,
		&entity.FirstName, &entity.PaternalSurname, &entity.MaternalSurname,
		&entity.BusinessName, &entity.Address, &entity.Phone,
		&entity.Active, &entity.CreatedAt, &entity.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	entity.ID = id.EntityID(entityID)
	entity.Type = models.EntityType(entityType)
	return &entity, nil
}
