// Package audit records who changed a person's verification state and when.
// Events are appended asynchronously so workflow latency never depends on the
// audit sink.
package audit

import (
	"context"
	"time"

	id "smarttalent/pkg/domain"
)

// Action identifies the state change an event records.
type Action string

const (
	ActionRecruiterAssigned Action = "RECRUITER_ASSIGNED"
	ActionPersonObserved    Action = "PERSON_OBSERVED"
	ActionPersonCompleted   Action = "PERSON_COMPLETED"
	ActionStatusChanged     Action = "STATUS_CHANGED"
	ActionRequestDeleted    Action = "REQUEST_DELETED"
)

// Event is one recorded state change.
type Event struct {
	Timestamp time.Time   `json:"timestamp"`
	ActorID   id.UserID   `json:"actorId"`
	Action    Action      `json:"action"`
	PersonID  id.PersonID `json:"personId,omitempty"`
	Detail    string      `json:"detail,omitempty"`
}

// Store is an append-only event sink.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByPerson(ctx context.Context, personID id.PersonID) ([]Event, error)
}
