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

// Persons persists verification subject rows.
type Persons struct {
	pgBase
}

// Create inserts a person row.
func (s *Persons) Create(ctx context.Context, person *models.Person) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO persons (id, request_id, dni, fullname, phone, status, observations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(person.ID), uuid.UUID(person.RequestID), person.DNI, person.Fullname,
		person.Phone, string(person.Status), person.Observations,
		person.CreatedAt, person.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

// FindByID loads a bare person row without documents or assignments.
func (s *Persons) FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, request_id, dni, fullname, COALESCE(phone, ''), status, observations, created_at, updated_at
		FROM persons WHERE id = $1`,
		uuid.UUID(personID))
	person, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select person: %w", err)
	}
	return person, nil
}

// Update writes the mutable person fields.
func (s *Persons) Update(ctx context.Context, person *models.Person) error {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE persons
		SET dni = $2, fullname = $3, phone = $4, status = $5, observations = $6, updated_at = $7
		WHERE id = $1`,
		uuid.UUID(person.ID), person.DNI, person.Fullname, person.Phone,
		string(person.Status), person.Observations, person.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ListByRequest returns the request's persons, oldest first.
func (s *Persons) ListByRequest(ctx context.Context, requestID id.RequestID) ([]*models.Person, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT id, request_id, dni, fullname, COALESCE(phone, ''), status, observations, created_at, updated_at
		FROM persons WHERE request_id = $1
		ORDER BY created_at, id`,
		uuid.UUID(requestID))
	if err != nil {
		return nil, fmt.Errorf("select request persons: %w", err)
	}
	defer rows.Close()

	var persons []*models.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, person)
	}
	return persons, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*models.Person, error) {
	var (
		person models.Person
		pid    uuid.UUID
		rid    uuid.UUID
		status string
	)
	err := row.Scan(&pid, &rid, &person.DNI, &person.Fullname, &person.Phone,
		&status, &person.Observations, &person.CreatedAt, &person.UpdatedAt)
	if err != nil {
		return nil, err
	}
	person.ID = id.PersonID(pid)
	person.RequestID = id.RequestID(rid)
	person.Status = models.PersonStatus(status)
	return &person, nil
}
