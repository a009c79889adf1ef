package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smarttalent/internal/intake/models"
	"smarttalent/internal/platform/postgres"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/sentinel"
)

// Assignments persists the person<->recruiter relation.
type Assignments struct {
	pgBase
}

// Assign inserts one assignment row. Re-assigning the same recruiter to the
// same person trips the primary key and surfaces as a conflict.
func (s *Assignments) Assign(ctx context.Context, personID id.PersonID, userID id.UserID, assignedAt time.Time) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO person_recruiters (person_id, user_id, assigned_at)
		VALUES ($1, $2, $3)`,
		uuid.UUID(personID), uuid.UUID(userID), assignedAt)
	if postgres.IsUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// ListByPerson returns the person's assignment history, oldest first, with
// the recruiter's account details joined in.
func (s *Assignments) ListByPerson(ctx context.Context, personID id.PersonID) ([]models.RecruiterAssignment, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT pr.user_id, u.username, u.email, pr.assigned_at
		FROM person_recruiters pr
		JOIN users u ON pr.user_id = u.id
		WHERE pr.person_id = $1
		ORDER BY pr.assigned_at`,
		uuid.UUID(personID))
	if err != nil {
		return nil, fmt.Errorf("select person recruiters: %w", err)
	}
	defer rows.Close()

	var assignments []models.RecruiterAssignment
	for rows.Next() {
		var (
			assignment models.RecruiterAssignment
			uid        uuid.UUID
		)
		if err := rows.Scan(&uid, &assignment.Username, &assignment.Email, &assignment.AssignedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignment.UserID = id.UserID(uid)
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}
