package service

import (
	"context"
	"errors"

	"smarttalent/internal/intake/models"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
)

// ListPeople returns the staff-facing person listing, optionally narrowed by
// status and by assigned recruiter. Unknown status values are rejected rather
// than silently matching nothing.
func (s *Service) ListPeople(ctx context.Context, filter models.PersonFilter) ([]*models.PersonView, error) {
	ctx, span := s.tracer.Start(ctx, "intake.ListPeople")
	defer span.End()

	for _, status := range filter.Statuses {
		if !models.ValidPersonStatus(status) {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid status filter: "+string(status))
		}
	}

	views, err := s.stores.Query.ListPeople(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing people")
	}
	return views, nil
}

// GetPerson returns one person with the owning entity's display name and the
// full document/resource tree.
func (s *Service) GetPerson(ctx context.Context, personID id.PersonID) (*models.PersonView, error) {
	ctx, span := s.tracer.Start(ctx, "intake.GetPerson")
	defer span.End()

	view, err := s.stores.Query.GetPerson(ctx, personID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "loading person")
	}
	return view, nil
}

// ListPeopleByEntity returns every person belonging to the entity's requests.
// The entity must exist; an unknown entity is a not-found, not an empty list.
func (s *Service) ListPeopleByEntity(ctx context.Context, entityID id.EntityID) ([]*models.PersonView, error) {
	ctx, span := s.tracer.Start(ctx, "intake.ListPeopleByEntity")
	defer span.End()

	ok, err := s.entities.Exists(ctx, entityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "checking entity")
	}
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "entity not found")
	}

	views, err := s.stores.Query.ListPeople(ctx, models.PersonFilter{EntityID: entityID})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing people by entity")
	}
	return views, nil
}

// GetRequest loads a request with its nested persons, documents and
// resources.
func (s *Service) GetRequest(ctx context.Context, requestID id.RequestID) (*models.Request, error) {
	ctx, span := s.tracer.Start(ctx, "intake.GetRequest")
	defer span.End()

	request, err := s.stores.Requests.FindByID(ctx, requestID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "request not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "loading request")
	}

	persons, err := s.stores.Persons.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing request persons")
	}
	for _, person := range persons {
		documents, err := s.stores.Documents.ListByPerson(ctx, person.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing person documents")
		}
		person.Documents = documents

		recruiters, err := s.stores.Assignments.ListByPerson(ctx, person.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing person recruiters")
		}
		person.Recruiters = recruiters
	}
	request.Persons = persons
	return request, nil
}
