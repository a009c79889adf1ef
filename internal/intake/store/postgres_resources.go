package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"smarttalent/internal/intake/models"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/sentinel"
)

// Resources persists document resource rows.
type Resources struct {
	pgBase
}

// Create inserts a resource row.
func (s *Resources) Create(ctx context.Context, resource *models.Resource) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO resources (id, document_id, resource_type_id, name, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(resource.ID), uuid.UUID(resource.DocumentID), uuid.UUID(resource.ResourceTypeID),
		resource.Name, resource.Value, resource.CreatedAt, resource.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

// FindByID loads a resource row.
func (s *Resources) FindByID(ctx context.Context, resourceID id.ResourceID) (*models.Resource, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, document_id, resource_type_id, name, value, created_at, updated_at
		FROM resources WHERE id = $1`,
		uuid.UUID(resourceID))
	resource, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select resource: %w", err)
	}
	return resource, nil
}

// Update writes the mutable resource fields.
func (s *Resources) Update(ctx context.Context, resource *models.Resource) error {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE resources SET name = $2, value = $3, updated_at = $4 WHERE id = $1`,
		uuid.UUID(resource.ID), resource.Name, resource.Value, resource.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanResource(row rowScanner) (*models.Resource, error) {
	var (
		resource models.Resource
		rid      uuid.UUID
		did      uuid.UUID
		rtid     uuid.UUID
	)
	err := row.Scan(&rid, &did, &rtid, &resource.Name, &resource.Value,
		&resource.CreatedAt, &resource.UpdatedAt)
	if err != nil {
		return nil, err
	}
	resource.ID = id.ResourceID(rid)
	resource.DocumentID = id.DocumentID(did)
	resource.ResourceTypeID = id.ResourceTypeID(rtid)
	return &resource, nil
}
