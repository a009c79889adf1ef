package models

import (
	id "smarttalent/pkg/domain"
)

// BulkOutcome is the per-item result of a bulk mutation. The strings are
// part of the API contract and round-trip exactly.
type BulkOutcome string

const (
	OutcomeUpdated     BulkOutcome = "updated"
	OutcomeNotFound    BulkOutcome = "not found"
	OutcomeNoChanges   BulkOutcome = "no changes"
	OutcomeInvalidData BulkOutcome = "invalid data"
)

// DocumentUpdateResult echoes one bulk document entry. Results preserve the
// input order so callers reconcile 1:1.
type DocumentUpdateResult struct {
	ID     id.DocumentID `json:"id"`
	Status BulkOutcome   `json:"status"`
}

// ResourceUpdateResult echoes one bulk resource entry.
type ResourceUpdateResult struct {
	ResourceID id.ResourceID `json:"resourceId"`
	Status     BulkOutcome   `json:"status"`
}

// PersonFilter narrows staff listings. Zero values mean "no filter".
type PersonFilter struct {
	Statuses    []PersonStatus
	RecruiterID id.UserID
	EntityID    id.EntityID
}

// PersonView is the read model for staff-facing person listings: the person
// with derived status, the owning entity's display name, assignment history
// and the full document/resource tree.
type PersonView struct {
	Person
	// Owner is the requester's display name: business name for JURIDICA
	// entities, the concatenated full name for NATURAL ones.
	Owner string `json:"owner"`
	// Documents shadows the embedded person's plain document list with the
	// decorated tree.
	Documents []*DocumentView `json:"documents"`
}

// ResourceView decorates a resource with the file constraints declared by
// its resource type, so intake forms can validate uploads client-side.
type ResourceView struct {
	Resource
	AllowedFileTypes []string `json:"allowedFileTypes"`
}

// DocumentView pairs a document with its decorated resources.
type DocumentView struct {
	Document
	Resources []*ResourceView `json:"resources"`
}
