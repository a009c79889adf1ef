package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors without
// knowing which backend produced them.
//
// These represent factual states about stored rows, not validation failures:
// - ErrNotFound: the row does not exist
// - ErrConflict: a uniqueness or foreign-key constraint rejected the write
// - ErrAlreadyUsed: a one-shot token (password reset) was already consumed
// - ErrInvalidState: the row is in the wrong state for the operation
//   (deleting a request that is no longer PENDING)
//
// For input validation use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
)
