// Package models defines the requester entities that submit verification
// requests.
package models

import (
	"regexp"
	"strings"
	"time"

	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
)

// EntityType distinguishes natural persons from companies.
type EntityType string

const (
	TypeNatural  EntityType = "NATURAL"
	TypeJuridica EntityType = "JURIDICA"
)

// ValidEntityType reports whether t is a known entity type.
func ValidEntityType(t EntityType) bool {
	return t == TypeNatural || t == TypeJuridica
}

var (
	dniPattern   = regexp.MustCompile(`^\d{8}$`)
	rucPattern   = regexp.MustCompile(`^\d{11}$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]{6,20}$`)
)

// Entity is a requester: a natural person identified by DNI or a company
// identified by RUC. Entities are soft deleted, never removed.
type Entity struct {
	ID              id.EntityID `json:"id"`
	Type            EntityType  `json:"type"`
	DocumentNumber  string      `json:"documentNumber"`
	FirstName       string      `json:"firstName,omitempty"`
	PaternalSurname string      `json:"paternalSurname,omitempty"`
	MaternalSurname string      `json:"maternalSurname,omitempty"`
	BusinessName    string      `json:"businessName,omitempty"`
	Address         string      `json:"address,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	Active          bool        `json:"active"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// NewEntity validates and constructs an active entity.
func NewEntity(entityType EntityType, documentNumber, firstName, paternalSurname, maternalSurname, businessName, address, phone string, now time.Time) (*Entity, error) {
	e := &Entity{
		ID:              id.NewEntityID(),
		Type:            entityType,
		DocumentNumber:  strings.TrimSpace(documentNumber),
		FirstName:       strings.TrimSpace(firstName),
		PaternalSurname: strings.TrimSpace(paternalSurname),
		MaternalSurname: strings.TrimSpace(maternalSurname),
		BusinessName:    strings.TrimSpace(businessName),
		Address:         strings.TrimSpace(address),
		Phone:           strings.TrimSpace(phone),
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Entity) validate() error {
	if !ValidEntityType(e.Type) {
		return dErrors.New(dErrors.CodeInvariantViolation, "entity type must be NATURAL or JURIDICA")
	}
	switch e.Type {
	case TypeNatural:
		if !dniPattern.MatchString(e.DocumentNumber) {
			return dErrors.New(dErrors.CodeInvariantViolation, "DNI must be exactly 8 digits")
		}
		if e.FirstName == "" || e.PaternalSurname == "" || e.MaternalSurname == "" {
			return dErrors.New(dErrors.CodeInvariantViolation, "natural entities require first name and both surnames")
		}
	case TypeJuridica:
		if !rucPattern.MatchString(e.DocumentNumber) {
			return dErrors.New(dErrors.CodeInvariantViolation, "RUC must be exactly 11 digits")
		}
		if e.BusinessName == "" {
			return dErrors.New(dErrors.CodeInvariantViolation, "juridical entities require a business name")
		}
	}
	if e.Address != "" && (len(e.Address) < 5 || len(e.Address) > 255) {
		return dErrors.New(dErrors.CodeInvariantViolation, "address must be between 5 and 255 characters")
	}
	if e.Phone != "" && !phonePattern.MatchString(e.Phone) {
		return dErrors.New(dErrors.CodeInvariantViolation, "phone number has an invalid format")
	}
	return nil
}

// DisplayName is the human name of the requester: the business name for
// companies, the full name for natural persons.
func (e *Entity) DisplayName() string {
	if e.Type == TypeJuridica {
		return e.BusinessName
	}
	return strings.TrimSpace(strings.Join([]string{e.FirstName, e.PaternalSurname, e.MaternalSurname}, " "))
}

// ApplyUpdate overwrites the mutable fields and revalidates. The entity type
// and the active flag do not change here.
func (e *Entity) ApplyUpdate(documentNumber, firstName, paternalSurname, maternalSurname, businessName, address, phone string, now time.Time) error {
	updated := *e
	updated.DocumentNumber = strings.TrimSpace(documentNumber)
	updated.FirstName = strings.TrimSpace(firstName)
	updated.PaternalSurname = strings.TrimSpace(paternalSurname)
	updated.MaternalSurname = strings.TrimSpace(maternalSurname)
	updated.BusinessName = strings.TrimSpace(businessName)
	updated.Address = strings.TrimSpace(address)
	updated.Phone = strings.TrimSpace(phone)
	if err := updated.validate(); err != nil {
		return err
	}
	updated.UpdatedAt = now
	*e = updated
	return nil
}

// Deactivate soft deletes the entity.
func (e *Entity) Deactivate(now time.Time) {
	e.Active = false
	e.UpdatedAt = now
}

// Reactivate restores a soft-deleted entity.
func (e *Entity) Reactivate(now time.Time) {
	e.Active = true
	e.UpdatedAt = now
}
