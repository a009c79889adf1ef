package models

import (
	"time"

	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
)

// Request is one intake batch submitted by an entity.
//
// Invariants:
//   - EntityID references an existing, owning entity (exclusive ownership)
//   - Status starts at PENDING
//   - Deletable only while Status is PENDING; deletion cascades to persons,
//     documents, resources and recruiter assignments
type Request struct {
	ID        id.RequestID  `json:"id"`
	EntityID  id.EntityID   `json:"entityId"`
	Status    RequestStatus `json:"status"`
	Active    bool          `json:"active"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`

	// Persons is populated on aggregate reads and after creation.
	Persons []*Person `json:"people,omitempty"`
}

// NewRequest constructs a pending request owned by entityID.
func NewRequest(entityID id.EntityID, now time.Time) (*Request, error) {
	if entityID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "request requires an owning entity")
	}
	return &Request{
		ID:        id.NewRequestID(),
		EntityID:  entityID,
		Status:    RequestStatusPending,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanDelete checks the PENDING-only deletion guard.
func (r *Request) CanDelete() error {
	if r.Status != RequestStatusPending {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"only requests in PENDING status can be deleted, current status: "+string(r.Status))
	}
	return nil
}

// DeletionReport summarizes a cascade delete so callers can reconcile what
// was removed.
type DeletionReport struct {
	RequestID        id.RequestID `json:"requestId"`
	EntityID         id.EntityID  `json:"entityId"`
	PersonsDeleted   int          `json:"personsDeleted"`
	DocumentsDeleted int          `json:"documentsDeleted"`
	ResourcesDeleted int          `json:"resourcesDeleted"`
}
