package domain

import "time"

// SoftDeletable is implemented by aggregates that deactivate instead of
// physically deleting (entities). Reactivation restores them.
type SoftDeletable interface {
	Deactivate(now time.Time)
	Reactivate(now time.Time)
}

// ConditionallyDeletable is implemented by aggregates that may only be
// physically deleted in certain states (requests while PENDING). CanDelete
// returns a coded error describing why deletion is refused.
type ConditionallyDeletable interface {
	CanDelete() error
}
