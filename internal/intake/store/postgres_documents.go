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

// Documents persists verification document rows.
type Documents struct {
	pgBase
}

// Create inserts a document row.
func (s *Documents) Create(ctx context.Context, document *models.Document) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO documents (id, person_id, document_type_id, name, result, filename, status, semaforo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(document.ID), uuid.UUID(document.PersonID), uuid.UUID(document.DocumentTypeID),
		document.Name, document.Result, document.Filename,
		string(document.Status), string(document.Semaforo),
		document.CreatedAt, document.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// FindByID loads a bare document row without resources.
func (s *Documents) FindByID(ctx context.Context, documentID id.DocumentID) (*models.Document, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, person_id, document_type_id, name, result, filename, status, semaforo, created_at, updated_at
		FROM documents WHERE id = $1`,
		uuid.UUID(documentID))
	document, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select document: %w", err)
	}
	return document, nil
}

// Update writes the mutable document fields.
func (s *Documents) Update(ctx context.Context, document *models.Document) error {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE documents
		SET name = $2, result = $3, filename = $4, status = $5, semaforo = $6, updated_at = $7
		WHERE id = $1`,
		uuid.UUID(document.ID), document.Name, document.Result, document.Filename,
		string(document.Status), string(document.Semaforo), document.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ListByPerson returns the person's documents with resources attached,
// oldest first.
func (s *Documents) ListByPerson(ctx context.Context, personID id.PersonID) ([]*models.Document, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT id, person_id, document_type_id, name, result, filename, status, semaforo, created_at, updated_at
		FROM documents WHERE person_id = $1
		ORDER BY created_at, id`,
		uuid.UUID(personID))
	if err != nil {
		return nil, fmt.Errorf("select person documents: %w", err)
	}
	defer rows.Close()

	var documents []*models.Document
	byID := make(map[id.DocumentID]*models.Document)
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, document)
		byID[document.ID] = document
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, nil
	}

	resRows, err := s.q(ctx).QueryContext(ctx, `
		SELECT r.id, r.document_id, r.resource_type_id, r.name, r.value, r.created_at, r.updated_at
		FROM resources r
		JOIN documents d ON r.document_id = d.id
		WHERE d.person_id = $1
		ORDER BY r.created_at, r.id`,
		uuid.UUID(personID))
	if err != nil {
		return nil, fmt.Errorf("select person resources: %w", err)
	}
	defer resRows.Close()

	for resRows.Next() {
		resource, err := scanResource(resRows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		if document, ok := byID[resource.DocumentID]; ok {
			document.Resources = append(document.Resources, resource)
		}
	}
	return documents, resRows.Err()
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var (
		document models.Document
		did      uuid.UUID
		pid      uuid.UUID
		dtid     uuid.UUID
		status   string
		semaforo string
	)
	err := row.Scan(&did, &pid, &dtid, &document.Name, &document.Result, &document.Filename,
		&status, &semaforo, &document.CreatedAt, &document.UpdatedAt)
	if err != nil {
		return nil, err
	}
	document.ID = id.DocumentID(did)
	document.PersonID = id.PersonID(pid)
	document.DocumentTypeID = id.DocumentTypeID(dtid)
	document.Status = models.DocumentStatus(status)
	document.Semaforo = models.Semaforo(semaforo)
	return &document, nil
}
