// Package models defines recruitment engagements and their job profiles.
package models

import (
	"strings"
	"time"

	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
)

// RecruitmentType is the service modality an entity contracts.
type RecruitmentType string

const (
	TypeRegular RecruitmentType = "RECLUTAMIENTO REGULAR"
	TypeHunting RecruitmentType = "HUNTING EJECUTIVO"
	TypeMassive RecruitmentType = "RECLUTAMIENTO MASIVO"
)

// ValidRecruitmentType reports whether t is a known recruitment type.
func ValidRecruitmentType(t RecruitmentType) bool {
	switch t {
	case TypeRegular, TypeHunting, TypeMassive:
		return true
	}
	return false
}

// RecruitmentState tracks the engagement through its pipeline. Values are
// persisted verbatim, accents included.
type RecruitmentState string

const (
	StatePending      RecruitmentState = "PENDIENTE"
	StateObservation  RecruitmentState = "OBSERVACIÓN"
	StateInProgress   RecruitmentState = "EN PROCESO"
	StateVerification RecruitmentState = "VERIFICACIÓN"
	StateFinished     RecruitmentState = "TERMINADO"
)

// ValidRecruitmentState reports whether s is a known state.
func ValidRecruitmentState(s RecruitmentState) bool {
	switch s {
	case StatePending, StateObservation, StateInProgress, StateVerification, StateFinished:
		return true
	}
	return false
}

// ProfileStatus tracks job profile completeness.
type ProfileStatus string

const (
	ProfileDraft     ProfileStatus = "BORRADOR"
	ProfileCompleted ProfileStatus = "COMPLETADO"
	ProfileApproved  ProfileStatus = "APROBADO"
)

// Recruitment is one engagement an entity contracts, always created with a
// job profile.
type Recruitment struct {
	ID        id.RecruitmentID `json:"id"`
	EntityID  id.EntityID      `json:"entityId"`
	Type      RecruitmentType  `json:"type"`
	State     RecruitmentState `json:"state"`
	CreatedBy id.UserID        `json:"createdBy,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`

	Profile *JobProfile `json:"profile,omitempty"`
}

// NewRecruitment constructs a pending recruitment.
func NewRecruitment(entityID id.EntityID, recruitmentType RecruitmentType, createdBy id.UserID, now time.Time) (*Recruitment, error) {
	if entityID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "recruitment requires an owning entity")
	}
	if !ValidRecruitmentType(recruitmentType) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown recruitment type")
	}
	return &Recruitment{
		ID:        id.NewRecruitmentID(),
		EntityID:  entityID,
		Type:      recruitmentType,
		State:     StatePending,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyState transitions the recruitment to a new pipeline state.
func (r *Recruitment) ApplyState(state RecruitmentState, now time.Time) error {
	if !ValidRecruitmentState(state) {
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown recruitment state")
	}
	r.State = state
	r.UpdatedAt = now
	return nil
}

// JobProfile describes the position a recruitment hires for.
type JobProfile struct {
	ID              id.ProfileID     `json:"id"`
	RecruitmentID   id.RecruitmentID `json:"recruitmentId"`
	EntityID        id.EntityID      `json:"entityId"`
	PositionName    string           `json:"positionName"`
	Area            string           `json:"area,omitempty"`
	WorkLocation    string           `json:"workLocation,omitempty"`
	WorkModality    string           `json:"workModality,omitempty"`
	ContractType    string           `json:"contractType,omitempty"`
	SalaryRangeFrom float64          `json:"salaryRangeFrom,omitempty"`
	SalaryRangeTo   float64          `json:"salaryRangeTo,omitempty"`
	JobFunctions    []string         `json:"jobFunctions"`
	Status          ProfileStatus    `json:"status"`
	CreatedBy       id.UserID        `json:"createdBy,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// NewJobProfile constructs a completed profile attached to a recruitment.
func NewJobProfile(recruitmentID id.RecruitmentID, entityID id.EntityID, positionName string, createdBy id.UserID, now time.Time) (*JobProfile, error) {
	positionName = strings.TrimSpace(positionName)
	if positionName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "position name is required")
	}
	return &JobProfile{
		ID:            id.NewProfileID(),
		RecruitmentID: recruitmentID,
		EntityID:      entityID,
		PositionName:  positionName,
		JobFunctions:  []string{},
		Status:        ProfileCompleted,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// RecruitmentFilter narrows recruitment listings.
type RecruitmentFilter struct {
	EntityID id.EntityID
	State    RecruitmentState
}
