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

// Requests persists intake request rows.
type Requests struct {
	pgBase
}

// Create inserts a request row.
func (s *Requests) Create(ctx context.Context, request *models.Request) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO requests (id, entity_id, status, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(request.ID), uuid.UUID(request.EntityID), string(request.Status),
		request.Active, request.CreatedAt, request.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// FindByID loads a bare request row without its persons.
func (s *Requests) FindByID(ctx context.Context, requestID id.RequestID) (*models.Request, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, entity_id, status, active, created_at, updated_at
		FROM requests WHERE id = $1`,
		uuid.UUID(requestID))

	var (
		request models.Request
		rid     uuid.UUID
		eid     uuid.UUID
		status  string
	)
	err := row.Scan(&rid, &eid, &status, &request.Active, &request.CreatedAt, &request.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select request: %w", err)
	}
	request.ID = id.RequestID(rid)
	request.EntityID = id.EntityID(eid)
	request.Status = models.RequestStatus(status)
	return &request, nil
}

// CountTree counts the persons, documents and resources under a request.
func (s *Requests) CountTree(ctx context.Context, requestID id.RequestID) (persons, documents, resources int, err error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM persons WHERE request_id = $1),
			(SELECT COUNT(*) FROM documents d
				JOIN persons p ON d.person_id = p.id
				WHERE p.request_id = $1),
			(SELECT COUNT(*) FROM resources r
				JOIN documents d ON r.document_id = d.id
				JOIN persons p ON d.person_id = p.id
				WHERE p.request_id = $1)`,
		uuid.UUID(requestID))
	if err = row.Scan(&persons, &documents, &resources); err != nil {
		return 0, 0, 0, fmt.Errorf("count request tree: %w", err)
	}
	return persons, documents, resources, nil
}

// DeleteCascade removes the request; foreign keys cascade to persons,
// recruiter assignments, documents and resources.
func (s *Requests) DeleteCascade(ctx context.Context, requestID id.RequestID) error {
	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM requests WHERE id = $1`, uuid.UUID(requestID))
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
