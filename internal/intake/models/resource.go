package models

import (
	"strings"
	"time"

	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
)

// Resource is one field or file value within a document: a scanned ID, a GPS
// pin, a free-text note. Value is opaque to this module; the resource type
// declares what it should hold.
type Resource struct {
	ID             id.ResourceID     `json:"id"`
	DocumentID     id.DocumentID     `json:"documentId"`
	ResourceTypeID id.ResourceTypeID `json:"resourceTypeId"`
	Name           string            `json:"name"`
	Value          string            `json:"value"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// NewResource constructs a resource under documentID.
func NewResource(documentID id.DocumentID, resourceTypeID id.ResourceTypeID, name, value string, now time.Time) (*Resource, error) {
	name = strings.TrimSpace(name)
	if documentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "resource requires an owning document")
	}
	if resourceTypeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "resource requires a resource type")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "resource name is required")
	}
	return &Resource{
		ID:             id.NewResourceID(),
		DocumentID:     documentID,
		ResourceTypeID: resourceTypeID,
		Name:           name,
		Value:          value,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ResourceUpdate is one entry of a bulk resource mutation. Both fields are
// required; entries missing either are reported as invalid rather than
// aborting the batch.
type ResourceUpdate struct {
	ResourceID id.ResourceID `json:"resourceId"`
	Value      *string       `json:"value"`
}

// Valid reports whether the entry carries both required fields.
func (upd ResourceUpdate) Valid() bool {
	return !upd.ResourceID.IsNil() && upd.Value != nil
}
