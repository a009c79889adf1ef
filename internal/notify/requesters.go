package notify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PostgresRequesters resolves a person's requester email: the account
// provisioned for the entity that submitted the person's request.
type PostgresRequesters struct {
	db *sql.DB
}

// NewPostgresRequesters creates the lookup.
func NewPostgresRequesters(db *sql.DB) *PostgresRequesters {
	return &PostgresRequesters{db: db}
}

func (p *PostgresRequesters) RequesterEmail(ctx context.Context, personID string) (string, error) {
	personUUID, err := uuid.Parse(personID)
	if err != nil {
		return "", fmt.Errorf("invalid person id %q", personID)
	}

	var email string
	err = p.db.QueryRowContext(ctx, `
		SELECT u.email
		FROM persons p
		JOIN requests r ON r.id = p.request_id
		JOIN users u ON u.entity_id = r.entity_id AND u.active
		WHERE p.id = $1
		ORDER BY u.created_at
		LIMIT 1`, personUUID).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("no requester account for person %s", personID)
	}
	if err != nil {
		return "", err
	}
	return email, nil
}
