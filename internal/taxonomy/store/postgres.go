// Package store persists the document-type/resource-type catalog.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"smarttalent/internal/platform/postgres"
	"smarttalent/internal/taxonomy/models"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/sentinel"
	"smarttalent/pkg/platform/tx"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres is the database-backed catalog store.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates the Postgres-backed taxonomy store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) q(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

// ListActive returns every active document type with its resource types,
// name-ordered.
func (s *Postgres) ListActive(ctx context.Context) ([]*models.DocumentType, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT id, name, is_active FROM document_types
		WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select document types: %w", err)
	}
	defer rows.Close()

	var types []*models.DocumentType
	byID := make(map[id.DocumentTypeID]*models.DocumentType)
	for rows.Next() {
		var (
			dt  models.DocumentType
			did uuid.UUID
		)
		if err := rows.Scan(&did, &dt.Name, &dt.IsActive); err != nil {
			return nil, fmt.Errorf("scan document type: %w", err)
		}
		dt.ID = id.DocumentTypeID(did)
		types = append(types, &dt)
		byID[dt.ID] = &dt
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rtRows, err := s.q(ctx).QueryContext(ctx, `
		SELECT a.document_type_id, rt.id, rt.name, rt.description, rt.is_required, rt.max_file_size, rt.allowed_file_types
		FROM document_type_resource_types a
		JOIN resource_types rt ON a.resource_type_id = rt.id
		ORDER BY rt.name`)
	if err != nil {
		return nil, fmt.Errorf("select resource types: %w", err)
	}
	defer rtRows.Close()

	for rtRows.Next() {
		var did uuid.UUID
		rt, err := scanResourceType(rtRows, &did)
		if err != nil {
			return nil, err
		}
		if dt, ok := byID[id.DocumentTypeID(did)]; ok {
			dt.ResourceTypes = append(dt.ResourceTypes, rt)
		}
	}
	return types, rtRows.Err()
}

// FindByID returns one document type with its resource types.
func (s *Postgres) FindByID(ctx context.Context, documentTypeID id.DocumentTypeID) (*models.DocumentType, error) {
	var (
		dt  models.DocumentType
		did uuid.UUID
	)
	err := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, name, is_active FROM document_types WHERE id = $1`,
		uuid.UUID(documentTypeID)).Scan(&did, &dt.Name, &dt.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select document type: %w", err)
	}
	dt.ID = id.DocumentTypeID(did)

	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT a.document_type_id, rt.id, rt.name, rt.description, rt.is_required, rt.max_file_size, rt.allowed_file_types
		FROM document_type_resource_types a
		JOIN resource_types rt ON a.resource_type_id = rt.id
		WHERE a.document_type_id = $1
		ORDER BY rt.name`,
		uuid.UUID(documentTypeID))
	if err != nil {
		return nil, fmt.Errorf("select document resource types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner uuid.UUID
		rt, err := scanResourceType(rows, &owner)
		if err != nil {
			return nil, err
		}
		dt.ResourceTypes = append(dt.ResourceTypes, rt)
	}
	return &dt, rows.Err()
}

// FindDocumentTypeByName resolves a document type by its unique name.
func (s *Postgres) FindDocumentTypeByName(ctx context.Context, name string) (*models.DocumentType, error) {
	var (
		dt  models.DocumentType
		did uuid.UUID
	)
	err := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, name, is_active FROM document_types WHERE name = $1`, name).
		Scan(&did, &dt.Name, &dt.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select document type by name: %w", err)
	}
	dt.ID = id.DocumentTypeID(did)
	return &dt, nil
}

// CreateDocumentType inserts a document type; duplicate names conflict.
func (s *Postgres) CreateDocumentType(ctx context.Context, dt *models.DocumentType) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO document_types (id, name, is_active) VALUES ($1, $2, $3)`,
		uuid.UUID(dt.ID), dt.Name, dt.IsActive)
	if postgres.IsUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert document type: %w", err)
	}
	return nil
}

// FindResourceTypeByName resolves a resource type by its unique name.
func (s *Postgres) FindResourceTypeByName(ctx context.Context, name string) (*models.ResourceType, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, name, description, is_required, max_file_size, allowed_file_types
		FROM resource_types WHERE name = $1`, name)
	rt, err := scanResourceType(row, nil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select resource type by name: %w", err)
	}
	return rt, nil
}

// CreateResourceType inserts a resource type; duplicate names conflict.
func (s *Postgres) CreateResourceType(ctx context.Context, rt *models.ResourceType) error {
	fileTypes, err := json.Marshal(rt.AllowedFileTypes)
	if err != nil {
		return fmt.Errorf("encode allowed file types: %w", err)
	}
	_, err = s.q(ctx).ExecContext(ctx, `
		INSERT INTO resource_types (id, name, description, is_required, max_file_size, allowed_file_types)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(rt.ID), rt.Name, rt.Description, rt.IsRequired, rt.MaxFileSize, fileTypes)
	if postgres.IsUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert resource type: %w", err)
	}
	return nil
}

// Associate links a resource type to a document type. Repeats are no-ops.
func (s *Postgres) Associate(ctx context.Context, documentTypeID id.DocumentTypeID, resourceTypeID id.ResourceTypeID) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO document_type_resource_types (document_type_id, resource_type_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		uuid.UUID(documentTypeID), uuid.UUID(resourceTypeID))
	if err != nil {
		return fmt.Errorf("associate resource type: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanResourceType scans a resource type row. When owner is non-nil the row
// is expected to lead with the owning document type id.
func scanResourceType(row rowScanner, owner *uuid.UUID) (*models.ResourceType, error) {
	var (
		rt   models.ResourceType
		rtid uuid.UUID
		raw  []byte
	)
	dest := []any{&rtid, &rt.Name, &rt.Description, &rt.IsRequired, &rt.MaxFileSize, &raw}
	if owner != nil {
		dest = append([]any{owner}, dest...)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	rt.ID = id.ResourceTypeID(rtid)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rt.AllowedFileTypes); err != nil {
			return nil, fmt.Errorf("decode allowed file types: %w", err)
		}
	}
	return &rt, nil
}
