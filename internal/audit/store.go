package audit

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	id "smarttalent/pkg/domain"
)

// PostgresStore appends events to the audit_events table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates the audit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, occurred_at, actor_id, action, person_id, detail)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`,
		uuid.New(), event.Timestamp,
		uuid.NullUUID{UUID: uuid.UUID(event.ActorID), Valid: !event.ActorID.IsNil()},
		string(event.Action),
		uuid.NullUUID{UUID: uuid.UUID(event.PersonID), Valid: !event.PersonID.IsNil()},
		event.Detail)
	return err
}

func (s *PostgresStore) ListByPerson(ctx context.Context, personID id.PersonID) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, actor_id, action, person_id, COALESCE(detail, '')
		FROM audit_events
		WHERE person_id = $1
		ORDER BY occurred_at, id`, uuid.UUID(personID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			event    Event
			actorID  uuid.NullUUID
			eventFor uuid.NullUUID
			action   string
		)
		if err := rows.Scan(&event.Timestamp, &actorID, &action, &eventFor, &event.Detail); err != nil {
			return nil, err
		}
		event.Action = Action(action)
		if actorID.Valid {
			event.ActorID = id.UserID(actorID.UUID)
		}
		if eventFor.Valid {
			event.PersonID = id.PersonID(eventFor.UUID)
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// MemoryStore keeps events in memory for unit tests.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) ListByPerson(_ context.Context, personID id.PersonID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, event := range s.events {
		if event.PersonID == personID {
			out = append(out, event)
		}
	}
	return out, nil
}
