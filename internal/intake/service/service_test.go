package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttalent/internal/intake/models"
	"smarttalent/internal/intake/store"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
	"smarttalent/pkg/requestcontext"
)

var frozen = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type stubEntities struct{ existing map[id.EntityID]bool }

func (s stubEntities) Exists(_ context.Context, entityID id.EntityID) (bool, error) {
	return s.existing[entityID], nil
}

type stubRecruiters struct{ known map[id.UserID]*RecruiterInfo }

func (s stubRecruiters) FindRecruiter(_ context.Context, userID id.UserID) (*RecruiterInfo, error) {
	recruiter, ok := s.known[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return recruiter, nil
}

type stubTaxonomy struct{ types map[id.DocumentTypeID]*DocumentTypeInfo }

func (s stubTaxonomy) GetDocumentType(_ context.Context, documentTypeID id.DocumentTypeID) (*DocumentTypeInfo, error) {
	docType, ok := s.types[documentTypeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return docType, nil
}

type stubNotifier struct {
	observed  []id.PersonID
	completed []id.PersonID
}

func (n *stubNotifier) PersonObserved(_ context.Context, person *models.Person) error {
	n.observed = append(n.observed, person.ID)
	return nil
}

func (n *stubNotifier) PersonCompleted(_ context.Context, person *models.Person) error {
	n.completed = append(n.completed, person.ID)
	return nil
}

type stubAuditor struct{ actions []string }

func (a *stubAuditor) Record(_ context.Context, action string, _ id.PersonID, _ string) {
	a.actions = append(a.actions, action)
}

type fixture struct {
	mem      *store.Memory
	svc      *Service
	notifier *stubNotifier
	auditor  *stubAuditor

	entityID       id.EntityID
	recruiterID    id.UserID
	docTypeID      id.DocumentTypeID
	inactiveTypeID id.DocumentTypeID
	requiredRT     id.ResourceTypeID
	optionalRT     id.ResourceTypeID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		mem:            store.NewMemory(),
		notifier:       &stubNotifier{},
		auditor:        &stubAuditor{},
		entityID:       id.NewEntityID(),
		recruiterID:    id.NewUserID(),
		docTypeID:      id.NewDocumentTypeID(),
		inactiveTypeID: id.NewDocumentTypeID(),
		requiredRT:     id.NewResourceTypeID(),
		optionalRT:     id.NewResourceTypeID(),
	}
	f.mem.SeedOwner(f.entityID, "ACME SAC")
	f.mem.SeedAccount(f.recruiterID, "mlopez", "mlopez@smarttalent.pe")

	taxonomy := stubTaxonomy{types: map[id.DocumentTypeID]*DocumentTypeInfo{
		f.docTypeID: {
			ID:     f.docTypeID,
			Name:   "Antecedentes Penales",
			Active: true,
			ResourceTypes: []ResourceTypeInfo{
				{ID: f.requiredRT, Name: "Certificado PDF", Required: true},
				{ID: f.optionalRT, Name: "Observaciones", Required: false},
			},
		},
		f.inactiveTypeID: {ID: f.inactiveTypeID, Name: "Verificacion Laboral", Active: false},
	}}

	f.svc = New(
		Stores{
			Requests:    f.mem.Requests,
			Persons:     f.mem.Persons,
			Documents:   f.mem.Documents,
			Resources:   f.mem.Resources,
			Assignments: f.mem.Assignments,
			Query:       f.mem.Query,
		},
		stubEntities{existing: map[id.EntityID]bool{f.entityID: true}},
		stubRecruiters{known: map[id.UserID]*RecruiterInfo{
			f.recruiterID: {ID: f.recruiterID, Username: "mlopez", Email: "mlopez@smarttalent.pe"},
		}},
		taxonomy,
		WithNotifier(f.notifier),
		WithAuditor(f.auditor),
	)
	return f
}

func testCtx() context.Context {
	return requestcontext.WithTime(context.Background(), frozen)
}

// validInput builds a one-person request carrying the required resource.
func (f *fixture) validInput() CreateRequestInput {
	return CreateRequestInput{
		EntityID: f.entityID,
		People: []PersonInput{{
			DNI:      "12345678",
			Fullname: "Juan Perez",
			Phone:    "+51987654321",
			Documents: []DocumentInput{{
				DocumentTypeID: f.docTypeID,
				Name:           "Antecedentes Penales",
				Resources: []ResourceInput{{
					ResourceTypeID: f.requiredRT,
					Name:           "Certificado PDF",
					Value:          "pending-upload",
				}},
			}},
		}},
	}
}

func (f *fixture) mustCreateRequest(t *testing.T) *models.Request {
	t.Helper()
	request, err := f.svc.CreateRequest(testCtx(), f.validInput())
	require.NoError(t, err)
	return request
}

func TestCreateRequest(t *testing.T) {
	t.Run("creates the full aggregate", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)

		assert.Equal(t, models.RequestStatusPending, request.Status)
		assert.Equal(t, f.entityID, request.EntityID)
		require.Len(t, request.Persons, 1)

		person := request.Persons[0]
		assert.Equal(t, models.PersonStatusPending, person.Status)
		require.Len(t, person.Documents, 1)
		assert.Equal(t, models.DocumentStatusPendiente, person.Documents[0].Status)
		require.Len(t, person.Documents[0].Resources, 1)

		stored, err := f.svc.GetRequest(testCtx(), request.ID)
		require.NoError(t, err)
		require.Len(t, stored.Persons, 1)
		assert.Equal(t, person.ID, stored.Persons[0].ID)
	})

	t.Run("requires at least one person", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateRequest(testCtx(), CreateRequestInput{EntityID: f.entityID})
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("unknown entity is not found", func(t *testing.T) {
		f := newFixture(t)
		input := f.validInput()
		input.EntityID = id.NewEntityID()
		_, err := f.svc.CreateRequest(testCtx(), input)
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	t.Run("invalid person rolls the aggregate back", func(t *testing.T) {
		f := newFixture(t)
		input := f.validInput()
		input.People[0].DNI = "123"
		_, err := f.svc.CreateRequest(testCtx(), input)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("unknown document type rejected", func(t *testing.T) {
		f := newFixture(t)
		input := f.validInput()
		input.People[0].Documents[0].DocumentTypeID = id.NewDocumentTypeID()
		_, err := f.svc.CreateRequest(testCtx(), input)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("inactive document type rejected", func(t *testing.T) {
		f := newFixture(t)
		input := f.validInput()
		input.People[0].Documents[0].DocumentTypeID = f.inactiveTypeID
		_, err := f.svc.CreateRequest(testCtx(), input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inactive")
	})

	t.Run("resource type must belong to the document type", func(t *testing.T) {
		f := newFixture(t)
		input := f.validInput()
		input.People[0].Documents[0].Resources[0].ResourceTypeID = id.NewResourceTypeID()
		_, err := f.svc.CreateRequest(testCtx(), input)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("missing required resource rejected", func(t *testing.T) {
		f := newFixture(t)
		input := f.validInput()
		input.People[0].Documents[0].Resources = []ResourceInput{{
			ResourceTypeID: f.optionalRT,
			Name:           "Observaciones",
			Value:          "ninguna",
		}}
		_, err := f.svc.CreateRequest(testCtx(), input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires resource")
	})
}

func TestUpdateDocuments(t *testing.T) {
	completed := func(s string) *string { return &s }

	t.Run("empty batch rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateDocuments(testCtx(), nil)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("outcomes preserve input order", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)
		document := request.Persons[0].Documents[0]

		results, err := f.svc.UpdateDocuments(testCtx(), []models.DocumentUpdate{
			{ID: document.ID, Result: completed("sin antecedentes")},
			{ID: id.NewDocumentID(), Result: completed("x")},
			{ID: document.ID, Result: completed("sin antecedentes")},
		})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, models.OutcomeUpdated, results[0].Status)
		assert.Equal(t, models.OutcomeNotFound, results[1].Status)
		assert.Equal(t, models.OutcomeNoChanges, results[2].Status)
	})

	t.Run("filename cascade completes the person", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)
		person := request.Persons[0]
		document := person.Documents[0]

		results, err := f.svc.UpdateDocuments(testCtx(), []models.DocumentUpdate{
			{ID: document.ID, Filename: completed("certificado.pdf")},
		})
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeUpdated, results[0].Status)

		stored, err := f.mem.Persons.FindByID(testCtx(), person.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PersonStatusCompleted, stored.Status)
		assert.Equal(t, []id.PersonID{person.ID}, f.notifier.completed)
		assert.Contains(t, f.auditor.actions, "PERSON_COMPLETED")
	})

	t.Run("partial completion does not cascade", func(t *testing.T) {
		f := newFixture(t)
		input := f.validInput()
		input.People[0].Documents = append(input.People[0].Documents, DocumentInput{
			DocumentTypeID: f.docTypeID,
			Name:           "Segunda verificacion",
			Resources: []ResourceInput{{
				ResourceTypeID: f.requiredRT,
				Name:           "Certificado PDF",
				Value:          "pending-upload",
			}},
		})
		request, err := f.svc.CreateRequest(testCtx(), input)
		require.NoError(t, err)
		person := request.Persons[0]

		_, err = f.svc.UpdateDocuments(testCtx(), []models.DocumentUpdate{
			{ID: person.Documents[0].ID, Filename: completed("certificado.pdf")},
		})
		require.NoError(t, err)

		stored, err := f.mem.Persons.FindByID(testCtx(), person.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PersonStatusPending, stored.Status)
		assert.Empty(t, f.notifier.completed)
	})
}

func TestUpdateResources(t *testing.T) {
	value := func(s string) *string { return &s }

	t.Run("empty batch rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateResources(testCtx(), nil)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("per-entry outcomes", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)
		resource := request.Persons[0].Documents[0].Resources[0]

		results, err := f.svc.UpdateResources(testCtx(), []models.ResourceUpdate{
			{ResourceID: resource.ID, Value: value("s3://bucket/certificado.pdf")},
			{ResourceID: id.NewResourceID(), Value: value("x")},
			{ResourceID: resource.ID},
		})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, models.OutcomeUpdated, results[0].Status)
		assert.Equal(t, models.OutcomeNotFound, results[1].Status)
		assert.Equal(t, models.OutcomeInvalidData, results[2].Status)

		stored, err := f.mem.Resources.FindByID(testCtx(), resource.ID)
		require.NoError(t, err)
		assert.Equal(t, "s3://bucket/certificado.pdf", stored.Value)
	})
}

func TestAssignRecruiter(t *testing.T) {
	t.Run("assigns and moves to in progress", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)
		person := request.Persons[0]

		result, err := f.svc.AssignRecruiter(testCtx(), person.ID, f.recruiterID)
		require.NoError(t, err)
		assert.Equal(t, person.ID, result.PersonID)
		assert.Equal(t, "mlopez", result.Recruiter.Username)
		assert.Equal(t, models.PersonStatusInProgress, result.NewStatus)
		assert.Contains(t, f.auditor.actions, "RECRUITER_ASSIGNED")

		assignments, err := f.mem.Assignments.ListByPerson(testCtx(), person.ID)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, f.recruiterID, assignments[0].UserID)
	})

	t.Run("unknown person is not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.AssignRecruiter(testCtx(), id.NewPersonID(), f.recruiterID)
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	t.Run("non-recruiter user is a validation error", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)
		_, err := f.svc.AssignRecruiter(testCtx(), request.Persons[0].ID, id.NewUserID())
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("double assignment conflicts", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)
		person := request.Persons[0]

		_, err := f.svc.AssignRecruiter(testCtx(), person.ID, f.recruiterID)
		require.NoError(t, err)
		_, err = f.svc.AssignRecruiter(testCtx(), person.ID, f.recruiterID)
		assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(err))
	})
}

func TestGiveObservations(t *testing.T) {
	t.Run("records note and notifies", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)
		person := request.Persons[0]

		updated, err := f.svc.GiveObservations(testCtx(), person.ID, "  falta huella digital  ")
		require.NoError(t, err)
		assert.Equal(t, models.PersonStatusObserved, updated.Status)
		assert.Equal(t, "falta huella digital", updated.Observations)
		assert.Equal(t, []id.PersonID{person.ID}, f.notifier.observed)
		assert.Contains(t, f.auditor.actions, "PERSON_OBSERVED")
	})

	t.Run("blank note rejected", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)
		_, err := f.svc.GiveObservations(testCtx(), request.Persons[0].ID, "   ")
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("unknown person is not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.GiveObservations(testCtx(), id.NewPersonID(), "nota")
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

func TestUpdatePersonStatus(t *testing.T) {
	t.Run("overwrites the status", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)

		updated, err := f.svc.UpdatePersonStatus(testCtx(), request.Persons[0].ID, models.PersonStatusRejected)
		require.NoError(t, err)
		assert.Equal(t, models.PersonStatusRejected, updated.Status)
		assert.Contains(t, f.auditor.actions, "STATUS_CHANGED")
	})

	t.Run("invalid status rejected before loading", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdatePersonStatus(testCtx(), id.NewPersonID(), "ARCHIVED")
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func TestDeleteRequest(t *testing.T) {
	t.Run("cascades and reports counts", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)

		report, err := f.svc.DeleteRequest(testCtx(), request.ID)
		require.NoError(t, err)
		assert.Equal(t, request.ID, report.RequestID)
		assert.Equal(t, 1, report.PersonsDeleted)
		assert.Equal(t, 1, report.DocumentsDeleted)
		assert.Equal(t, 1, report.ResourcesDeleted)
		assert.Contains(t, f.auditor.actions, "REQUEST_DELETED")

		_, err = f.svc.GetRequest(testCtx(), request.ID)
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	t.Run("unknown request is not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.DeleteRequest(testCtx(), id.NewRequestID())
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

func TestListPeople(t *testing.T) {
	t.Run("invalid status filter rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.ListPeople(testCtx(), models.PersonFilter{Statuses: []models.PersonStatus{"FINISHED"}})
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("filters by status", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)
		person := request.Persons[0]
		_, err := f.svc.AssignRecruiter(testCtx(), person.ID, f.recruiterID)
		require.NoError(t, err)

		views, err := f.svc.ListPeople(testCtx(), models.PersonFilter{
			Statuses: []models.PersonStatus{models.PersonStatusInProgress},
		})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, person.ID, views[0].ID)
		assert.Equal(t, "ACME SAC", views[0].Owner)

		views, err = f.svc.ListPeople(testCtx(), models.PersonFilter{
			Statuses: []models.PersonStatus{models.PersonStatusCompleted},
		})
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("filters by recruiter", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)
		person := request.Persons[0]
		_, err := f.svc.AssignRecruiter(testCtx(), person.ID, f.recruiterID)
		require.NoError(t, err)

		views, err := f.svc.ListPeople(testCtx(), models.PersonFilter{RecruiterID: f.recruiterID})
		require.NoError(t, err)
		require.Len(t, views, 1)

		views, err = f.svc.ListPeople(testCtx(), models.PersonFilter{RecruiterID: id.NewUserID()})
		require.NoError(t, err)
		assert.Empty(t, views)
	})
}

func TestListPeopleByEntity(t *testing.T) {
	t.Run("unknown entity is not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.ListPeopleByEntity(testCtx(), id.NewEntityID())
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	t.Run("lists the entity's people", func(t *testing.T) {
		f := newFixture(t)
		request := f.mustCreateRequest(t)

		views, err := f.svc.ListPeopleByEntity(testCtx(), f.entityID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, request.Persons[0].ID, views[0].ID)
	})
}

func TestGetPerson(t *testing.T) {
	t.Run("returns the decorated view", func(t *testing.T) {
		f := newFixture(t)
		f.mem.SeedFileTypes(f.requiredRT, []string{"pdf"})
		request := f.mustCreateRequest(t)
		person := request.Persons[0]

		view, err := f.svc.GetPerson(testCtx(), person.ID)
		require.NoError(t, err)
		assert.Equal(t, "ACME SAC", view.Owner)
		require.Len(t, view.Documents, 1)
		require.Len(t, view.Documents[0].Resources, 1)
		assert.Equal(t, []string{"pdf"}, view.Documents[0].Resources[0].AllowedFileTypes)
	})

	t.Run("unknown person is not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.GetPerson(testCtx(), id.NewPersonID())
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}
