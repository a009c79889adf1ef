// Package domain defines typed identifiers shared across modules.
//
// Every aggregate gets its own UUID-backed ID type so the compiler rejects
// cross-aggregate mixups (passing a PersonID where a DocumentID is expected).
// Parse helpers enforce the trust-boundary invariant: IDs arriving over the
// wire must be valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "smarttalent/pkg/domain-errors"
)

type (
	// EntityID identifies a requester (company or individual).
	EntityID uuid.UUID
	// RequestID identifies one intake batch owned by an entity.
	RequestID uuid.UUID
	// PersonID identifies a verification subject within a request.
	PersonID uuid.UUID
	// DocumentID identifies a verification artifact for a person.
	DocumentID uuid.UUID
	// ResourceID identifies one field/file value within a document.
	ResourceID uuid.UUID
	// DocumentTypeID identifies a taxonomy document kind.
	DocumentTypeID uuid.UUID
	// ResourceTypeID identifies a taxonomy resource kind.
	ResourceTypeID uuid.UUID
	// UserID identifies an authenticated account.
	UserID uuid.UUID
	// RoleID identifies an access-control role.
	RoleID uuid.UUID
	// RecruitmentID identifies a job-posting workflow.
	RecruitmentID uuid.UUID
	// ProfileID identifies the job profile attached to a recruitment.
	ProfileID uuid.UUID
)

func (id EntityID) String() string       { return uuid.UUID(id).String() }
func (id RequestID) String() string      { return uuid.UUID(id).String() }
func (id PersonID) String() string       { return uuid.UUID(id).String() }
func (id DocumentID) String() string     { return uuid.UUID(id).String() }
func (id ResourceID) String() string     { return uuid.UUID(id).String() }
func (id DocumentTypeID) String() string { return uuid.UUID(id).String() }
func (id ResourceTypeID) String() string { return uuid.UUID(id).String() }
func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id RoleID) String() string         { return uuid.UUID(id).String() }
func (id RecruitmentID) String() string  { return uuid.UUID(id).String() }
func (id ProfileID) String() string      { return uuid.UUID(id).String() }

func (id EntityID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id PersonID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ResourceID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DocumentTypeID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ResourceTypeID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id RoleID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id RecruitmentID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ProfileID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed IDs round-trip through JSON as plain UUID strings.
func (id EntityID) MarshalText() ([]byte, error)       { return marshalID(uuid.UUID(id)) }
func (id RequestID) MarshalText() ([]byte, error)      { return marshalID(uuid.UUID(id)) }
func (id PersonID) MarshalText() ([]byte, error)       { return marshalID(uuid.UUID(id)) }
func (id DocumentID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }
func (id ResourceID) MarshalText() ([]byte, error)     { return marshalID(uuid.UUID(id)) }
func (id DocumentTypeID) MarshalText() ([]byte, error) { return marshalID(uuid.UUID(id)) }
func (id ResourceTypeID) MarshalText() ([]byte, error) { return marshalID(uuid.UUID(id)) }
func (id UserID) MarshalText() ([]byte, error)         { return marshalID(uuid.UUID(id)) }
func (id RoleID) MarshalText() ([]byte, error)         { return marshalID(uuid.UUID(id)) }
func (id RecruitmentID) MarshalText() ([]byte, error)  { return marshalID(uuid.UUID(id)) }
func (id ProfileID) MarshalText() ([]byte, error)      { return marshalID(uuid.UUID(id)) }

func (id *EntityID) UnmarshalText(b []byte) error       { return unmarshalID((*uuid.UUID)(id), b) }
func (id *RequestID) UnmarshalText(b []byte) error      { return unmarshalID((*uuid.UUID)(id), b) }
func (id *PersonID) UnmarshalText(b []byte) error       { return unmarshalID((*uuid.UUID)(id), b) }
func (id *DocumentID) UnmarshalText(b []byte) error     { return unmarshalID((*uuid.UUID)(id), b) }
func (id *ResourceID) UnmarshalText(b []byte) error     { return unmarshalID((*uuid.UUID)(id), b) }
func (id *DocumentTypeID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }
func (id *ResourceTypeID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }
func (id *UserID) UnmarshalText(b []byte) error         { return unmarshalID((*uuid.UUID)(id), b) }
func (id *RoleID) UnmarshalText(b []byte) error         { return unmarshalID((*uuid.UUID)(id), b) }
func (id *RecruitmentID) UnmarshalText(b []byte) error  { return unmarshalID((*uuid.UUID)(id), b) }
func (id *ProfileID) UnmarshalText(b []byte) error      { return unmarshalID((*uuid.UUID)(id), b) }

// NewEntityID and friends mint fresh identifiers.
func NewEntityID() EntityID             { return EntityID(uuid.New()) }
func NewRequestID() RequestID           { return RequestID(uuid.New()) }
func NewPersonID() PersonID             { return PersonID(uuid.New()) }
func NewDocumentID() DocumentID         { return DocumentID(uuid.New()) }
func NewResourceID() ResourceID         { return ResourceID(uuid.New()) }
func NewDocumentTypeID() DocumentTypeID { return DocumentTypeID(uuid.New()) }
func NewResourceTypeID() ResourceTypeID { return ResourceTypeID(uuid.New()) }
func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewRoleID() RoleID                 { return RoleID(uuid.New()) }
func NewRecruitmentID() RecruitmentID   { return RecruitmentID(uuid.New()) }
func NewProfileID() ProfileID           { return ProfileID(uuid.New()) }

// ParseEntityID validates and converts a wire-format ID.
func ParseEntityID(s string) (EntityID, error) {
	u, err := parseUUID(s, "entity id")
	return EntityID(u), err
}

func ParseRequestID(s string) (RequestID, error) {
	u, err := parseUUID(s, "request id")
	return RequestID(u), err
}

func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID(s, "person id")
	return PersonID(u), err
}

func ParseDocumentID(s string) (DocumentID, error) {
	u, err := parseUUID(s, "document id")
	return DocumentID(u), err
}

func ParseResourceID(s string) (ResourceID, error) {
	u, err := parseUUID(s, "resource id")
	return ResourceID(u), err
}

func ParseDocumentTypeID(s string) (DocumentTypeID, error) {
	u, err := parseUUID(s, "document type id")
	return DocumentTypeID(u), err
}

func ParseResourceTypeID(s string) (ResourceTypeID, error) {
	u, err := parseUUID(s, "resource type id")
	return ResourceTypeID(u), err
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

func ParseRoleID(s string) (RoleID, error) {
	u, err := parseUUID(s, "role id")
	return RoleID(u), err
}

func ParseRecruitmentID(s string) (RecruitmentID, error) {
	u, err := parseUUID(s, "recruitment id")
	return RecruitmentID(u), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be the nil UUID")
	}
	return u, nil
}

func marshalID(u uuid.UUID) ([]byte, error) {
	return []byte(u.String()), nil
}

func unmarshalID(dst *uuid.UUID, b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*dst = u
	return nil
}
