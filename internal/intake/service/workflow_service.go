package service

import (
	"context"
	"errors"
	"strings"

	"smarttalent/internal/intake/models"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
	"smarttalent/pkg/requestcontext"
)

// Assignment summarizes a successful recruiter assignment.
type Assignment struct {
	PersonID  id.PersonID         `json:"personId"`
	RequestID id.RequestID        `json:"requestId"`
	Recruiter RecruiterInfo       `json:"recruiter"`
	NewStatus models.PersonStatus `json:"newStatus"`
}

// AssignRecruiter links a recruiter to a person and moves the person into
// IN_PROGRESS. The user must exist and carry the RECRUITER role; a missing
// user and a non-recruiter user fail identically, as a validation error
// rather than a not-found, so the endpoint does not leak which users exist.
func (s *Service) AssignRecruiter(ctx context.Context, personID id.PersonID, userID id.UserID) (*Assignment, error) {
	ctx, span := s.tracer.Start(ctx, "intake.AssignRecruiter")
	defer span.End()

	now := requestcontext.Now(ctx)
	var result *Assignment

	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		person, err := s.stores.Persons.FindByID(ctx, personID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "loading person")
		}

		recruiter, err := s.recruiters.FindRecruiter(ctx, userID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeValidation, "user not found or is not a recruiter")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "resolving recruiter")
		}

		if err := s.stores.Assignments.Assign(ctx, person.ID, recruiter.ID, now); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "recruiter is already assigned to this person")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "assigning recruiter")
		}

		person.ApplyAssignment(now)
		if err := s.stores.Persons.Update(ctx, person); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "updating person")
		}

		result = &Assignment{
			PersonID:  person.ID,
			RequestID: person.RequestID,
			Recruiter: *recruiter,
			NewStatus: person.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log().InfoContext(ctx, "recruiter assigned",
		"person_id", result.PersonID,
		"recruiter_id", result.Recruiter.ID)
	s.audit(ctx, "RECRUITER_ASSIGNED", result.PersonID, result.Recruiter.Username)
	return result, nil
}

// GiveObservations records an observation note on the person and moves them
// into OBSERVED. The note must be non-blank.
func (s *Service) GiveObservations(ctx context.Context, personID id.PersonID, observations string) (*models.Person, error) {
	ctx, span := s.tracer.Start(ctx, "intake.GiveObservations")
	defer span.End()

	observations = strings.TrimSpace(observations)
	if observations == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "observations text is required")
	}

	now := requestcontext.Now(ctx)
	var person *models.Person

	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		person, err = s.stores.Persons.FindByID(ctx, personID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "loading person")
		}

		person.ApplyObservation(observations, now)
		if err := s.stores.Persons.Update(ctx, person); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "updating person")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log().InfoContext(ctx, "person observed", "person_id", person.ID)
	s.audit(ctx, "PERSON_OBSERVED", person.ID, observations)
	s.notifyObserved(ctx, person)
	return person, nil
}

// UpdatePersonStatus is the administrative status overwrite. The value must
// be one of the persisted statuses.
func (s *Service) UpdatePersonStatus(ctx context.Context, personID id.PersonID, status models.PersonStatus) (*models.Person, error) {
	ctx, span := s.tracer.Start(ctx, "intake.UpdatePersonStatus")
	defer span.End()

	if !models.ValidPersonStatus(status) {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid person status: "+string(status))
	}

	now := requestcontext.Now(ctx)
	var person *models.Person

	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		person, err = s.stores.Persons.FindByID(ctx, personID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "loading person")
		}

		if err := person.ApplyStatus(status, now); err != nil {
			return err
		}
		if err := s.stores.Persons.Update(ctx, person); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "updating person")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log().InfoContext(ctx, "person status updated",
		"person_id", person.ID, "status", person.Status)
	s.audit(ctx, "STATUS_CHANGED", person.ID, string(person.Status))
	return person, nil
}
