package models

import (
	"regexp"
	"strings"
	"time"

	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// Person is a single verification subject within a request.
//
// Invariants:
//   - DNI is 8 to 12 characters, non-empty
//   - Phone, when present, is E.164-like
//   - Status is tracked per person, independent of the owning request
//
// Status moves through PENDING <-> IN_PROGRESS <-> OBSERVED by the workflow
// operations; COMPLETED is materialized by the bulk document update when all
// documents reach Realizado; REJECTED is an administrative overwrite.
type Person struct {
	ID           id.PersonID  `json:"id"`
	RequestID    id.RequestID `json:"requestId"`
	DNI          string       `json:"dni"`
	Fullname     string       `json:"fullname"`
	Phone        string       `json:"phone,omitempty"`
	Status       PersonStatus `json:"status"`
	Observations string       `json:"observations,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`

	// Documents is populated on aggregate reads and after creation.
	Documents []*Document `json:"documents,omitempty"`
	// Recruiters holds the assignment history, oldest first.
	Recruiters []RecruiterAssignment `json:"recruiters,omitempty"`
}

// RecruiterAssignment is one row of the person<->recruiter join relation.
// AssignedAt makes "current recruiter" vs "history" an explicit query rather
// than implicit list order.
type RecruiterAssignment struct {
	UserID     id.UserID `json:"userId"`
	Username   string    `json:"username,omitempty"`
	Email      string    `json:"email,omitempty"`
	AssignedAt time.Time `json:"assignedAt"`
}

// NewPerson constructs a pending person under requestID.
func NewPerson(requestID id.RequestID, dni, fullname, phone string, now time.Time) (*Person, error) {
	dni = strings.TrimSpace(dni)
	fullname = strings.TrimSpace(fullname)
	phone = strings.TrimSpace(phone)

	if requestID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "person requires an owning request")
	}
	if l := len(dni); l < 8 || l > 12 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "person dni must be 8 to 12 characters")
	}
	if fullname == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "person fullname is required")
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "person phone is not a valid number")
	}
	return &Person{
		ID:        id.NewPersonID(),
		RequestID: requestID,
		DNI:       dni,
		Fullname:  fullname,
		Phone:     phone,
		Status:    PersonStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyAssignment moves the person into IN_PROGRESS when a recruiter takes
// the case.
func (p *Person) ApplyAssignment(now time.Time) {
	p.Status = PersonStatusInProgress
	p.UpdatedAt = now
}

// ApplyObservation records the note and moves the person into OBSERVED.
func (p *Person) ApplyObservation(text string, now time.Time) {
	p.Observations = text
	p.Status = PersonStatusObserved
	p.UpdatedAt = now
}

// ApplyStatus is the administrative overwrite used for transitions not
// covered by assignment or observation. The value must be a persisted status.
func (p *Person) ApplyStatus(status PersonStatus, now time.Time) error {
	if !ValidPersonStatus(status) {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid person status: "+string(status))
	}
	p.Status = status
	p.UpdatedAt = now
	return nil
}
