package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttalent/internal/intake/models"
	"smarttalent/internal/intake/service"
	"smarttalent/internal/intake/store"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/sentinel"
	"smarttalent/pkg/testutil"
)

type routerFixture struct {
	router http.Handler
	mem    *store.Memory
	svc    *service.Service

	entityID    id.EntityID
	recruiterID id.UserID
	docTypeID   id.DocumentTypeID
	resTypeID   id.ResourceTypeID
}

type handlerEntities struct{ existing map[id.EntityID]bool }

func (s handlerEntities) Exists(_ context.Context, entityID id.EntityID) (bool, error) {
	return s.existing[entityID], nil
}

type handlerRecruiters struct{ known map[id.UserID]*service.RecruiterInfo }

func (s handlerRecruiters) FindRecruiter(_ context.Context, userID id.UserID) (*service.RecruiterInfo, error) {
	recruiter, ok := s.known[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return recruiter, nil
}

type handlerTaxonomy struct{ types map[id.DocumentTypeID]*service.DocumentTypeInfo }

func (s handlerTaxonomy) GetDocumentType(_ context.Context, documentTypeID id.DocumentTypeID) (*service.DocumentTypeInfo, error) {
	docType, ok := s.types[documentTypeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return docType, nil
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	f := &routerFixture{
		mem:         store.NewMemory(),
		entityID:    id.NewEntityID(),
		recruiterID: id.NewUserID(),
		docTypeID:   id.NewDocumentTypeID(),
		resTypeID:   id.NewResourceTypeID(),
	}
	f.mem.SeedOwner(f.entityID, "ACME SAC")
	f.mem.SeedAccount(f.recruiterID, "mlopez", "mlopez@smarttalent.pe")

	f.svc = service.New(
		service.Stores{
			Requests:    f.mem.Requests,
			Persons:     f.mem.Persons,
			Documents:   f.mem.Documents,
			Resources:   f.mem.Resources,
			Assignments: f.mem.Assignments,
			Query:       f.mem.Query,
		},
		handlerEntities{existing: map[id.EntityID]bool{f.entityID: true}},
		handlerRecruiters{known: map[id.UserID]*service.RecruiterInfo{
			f.recruiterID: {ID: f.recruiterID, Username: "mlopez", Email: "mlopez@smarttalent.pe"},
		}},
		handlerTaxonomy{types: map[id.DocumentTypeID]*service.DocumentTypeInfo{
			f.docTypeID: {
				ID:     f.docTypeID,
				Name:   "Antecedentes Penales",
				Active: true,
				ResourceTypes: []service.ResourceTypeInfo{
					{ID: f.resTypeID, Name: "Certificado PDF", Required: true},
				},
			},
		}},
	)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(f.svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterStaff(r)
	f.router = r
	return f
}

func (f *routerFixture) createPayload() map[string]any {
	return map[string]any{
		"entityId": f.entityID.String(),
		"people": []map[string]any{{
			"dni":      "12345678",
			"fullname": "Juan Perez",
			"phone":    "+51987654321",
			"documents": []map[string]any{{
				"documentTypeId": f.docTypeID.String(),
				"name":           "Antecedentes Penales",
				"resources": []map[string]any{{
					"resourceTypeId": f.resTypeID.String(),
					"name":           "Certificado PDF",
					"value":          "pending-upload",
				}},
			}},
		}},
	}
}

func (f *routerFixture) mustCreate(t *testing.T) *models.Request {
	t.Helper()
	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/requests", f.createPayload()))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := testutil.UnmarshalResponse[struct {
		Request *models.Request `json:"request"`
	}](t, rec)
	require.NotNil(t, resp.Request)
	return resp.Request
}

func TestHandleCreate(t *testing.T) {
	t.Run("creates the aggregate", func(t *testing.T) {
		f := newRouterFixture(t)
		request := f.mustCreate(t)
		assert.False(t, request.ID.IsNil())
		require.Len(t, request.Persons, 1)
		assert.Equal(t, models.PersonStatusPending, request.Persons[0].Status)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := testutil.DoRequest(f.router, testutil.NewRequestWithBody(t, http.MethodPost, "/requests", "{not json"))
		testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, dErrors.CodeInvalidInput)
	})

	t.Run("rejects missing people", func(t *testing.T) {
		f := newRouterFixture(t)
		payload := map[string]any{"entityId": f.entityID.String()}
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/requests", payload))
		testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, dErrors.CodeValidation)
	})

	t.Run("unknown entity answers 404", func(t *testing.T) {
		f := newRouterFixture(t)
		payload := f.createPayload()
		payload["entityId"] = id.NewEntityID().String()
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/requests", payload))
		testutil.AssertStatusAndError(t, rec, http.StatusNotFound, dErrors.CodeNotFound)
	})
}

func TestHandleGetRequest(t *testing.T) {
	f := newRouterFixture(t)
	request := f.mustCreate(t)

	rec := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/"+request.ID.String()))
	testutil.AssertStatusOK(t, rec)
	got := testutil.UnmarshalResponse[models.Request](t, rec)
	assert.Equal(t, request.ID, got.ID)
	require.Len(t, got.Persons, 1)

	rec = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/"+id.NewRequestID().String()))
	testutil.AssertStatusAndError(t, rec, http.StatusNotFound, dErrors.CodeNotFound)

	rec = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/not-a-uuid"))
	testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, dErrors.CodeInvalidInput)
}

func TestHandleDelete(t *testing.T) {
	f := newRouterFixture(t)
	request := f.mustCreate(t)

	rec := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodDelete, "/requests/"+request.ID.String()))
	testutil.AssertStatusOK(t, rec)
	resp := testutil.UnmarshalResponse[struct {
		Deleted *models.DeletionReport `json:"deleted"`
	}](t, rec)
	require.NotNil(t, resp.Deleted)
	assert.Equal(t, 1, resp.Deleted.PersonsDeleted)

	rec = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodDelete, "/requests/"+request.ID.String()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListPeople(t *testing.T) {
	f := newRouterFixture(t)
	request := f.mustCreate(t)

	t.Run("lists everyone", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/people"))
		testutil.AssertStatusOK(t, rec)
		views := testutil.UnmarshalResponse[[]*models.PersonView](t, rec)
		require.Len(t, *views, 1)
		assert.Equal(t, "ACME SAC", (*views)[0].Owner)
	})

	t.Run("status filter is case-insensitive", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/people?status=pending"))
		testutil.AssertStatusOK(t, rec)
		views := testutil.UnmarshalResponse[[]*models.PersonView](t, rec)
		require.Len(t, *views, 1)
		assert.Equal(t, request.Persons[0].ID, (*views)[0].ID)
	})

	t.Run("unknown status answers 400", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/people?status=FINISHED"))
		testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, dErrors.CodeValidation)
	})

	t.Run("empty match is an empty array, not null", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/people?status=COMPLETED"))
		testutil.AssertStatusOK(t, rec)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("malformed recruiter filter answers 400", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/people?recruiterId=abc"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleAssignRecruiter(t *testing.T) {
	f := newRouterFixture(t)
	request := f.mustCreate(t)
	personID := request.Persons[0].ID

	t.Run("assigns", func(t *testing.T) {
		payload := map[string]string{
			"personId":    personID.String(),
			"recruiterId": f.recruiterID.String(),
		}
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPatch, "/requests/assign-recruiter", payload))
		testutil.AssertStatusOK(t, rec)
		resp := testutil.UnmarshalResponse[struct {
			Assignment *service.Assignment `json:"assignment"`
		}](t, rec)
		require.NotNil(t, resp.Assignment)
		assert.Equal(t, models.PersonStatusInProgress, resp.Assignment.NewStatus)
	})

	t.Run("duplicate assignment answers 400", func(t *testing.T) {
		payload := map[string]string{
			"personId":    personID.String(),
			"recruiterId": f.recruiterID.String(),
		}
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPatch, "/requests/assign-recruiter", payload))
		testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, dErrors.CodeConflict)
	})

	t.Run("missing ids answer 400", func(t *testing.T) {
		rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPatch, "/requests/assign-recruiter", map[string]string{}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGiveObservations(t *testing.T) {
	f := newRouterFixture(t)
	request := f.mustCreate(t)

	payload := map[string]string{
		"personId":     request.Persons[0].ID.String(),
		"observations": "falta huella digital",
	}
	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPatch, "/requests/give-observations", payload))
	testutil.AssertStatusOK(t, rec)
	resp := testutil.UnmarshalResponse[struct {
		Person *models.Person `json:"person"`
	}](t, rec)
	require.NotNil(t, resp.Person)
	assert.Equal(t, models.PersonStatusObserved, resp.Person.Status)

	payload["observations"] = "   "
	rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPatch, "/requests/give-observations", payload))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdatePersonStatus(t *testing.T) {
	f := newRouterFixture(t)
	request := f.mustCreate(t)

	payload := map[string]string{
		"personId": request.Persons[0].ID.String(),
		"status":   "rejected",
	}
	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPatch, "/requests/person/update-status", payload))
	testutil.AssertStatusOK(t, rec)
	resp := testutil.UnmarshalResponse[struct {
		Person *models.Person `json:"person"`
	}](t, rec)
	assert.Equal(t, models.PersonStatusRejected, resp.Person.Status)

	payload["status"] = "ARCHIVED"
	rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPatch, "/requests/person/update-status", payload))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBulkDocuments(t *testing.T) {
	f := newRouterFixture(t)
	request := f.mustCreate(t)
	documentID := request.Persons[0].Documents[0].ID

	payload := map[string]any{
		"updates": []map[string]any{
			{"id": documentID.String(), "filename": "certificado.pdf"},
			{"id": id.NewDocumentID().String(), "result": "x"},
		},
	}
	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPatch, "/documents/bulk-update", payload))
	testutil.AssertStatusOK(t, rec)
	resp := testutil.UnmarshalResponse[struct {
		Results []models.DocumentUpdateResult `json:"results"`
	}](t, rec)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, models.OutcomeUpdated, resp.Results[0].Status)
	assert.Equal(t, models.OutcomeNotFound, resp.Results[1].Status)

	rec = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPatch, "/documents/bulk-update", map[string]any{"updates": []any{}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBulkResources(t *testing.T) {
	f := newRouterFixture(t)
	request := f.mustCreate(t)
	resourceID := request.Persons[0].Documents[0].Resources[0].ID

	payload := map[string]any{
		"resources": []map[string]any{
			{"resourceId": resourceID.String(), "value": "s3://bucket/certificado.pdf"},
		},
	}
	rec := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPatch, "/resources/update-multiple", payload))
	testutil.AssertStatusOK(t, rec)
	resp := testutil.UnmarshalResponse[struct {
		Results []models.ResourceUpdateResult `json:"results"`
	}](t, rec)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, models.OutcomeUpdated, resp.Results[0].Status)
}

func TestHandleListPeopleByEntity(t *testing.T) {
	f := newRouterFixture(t)
	request := f.mustCreate(t)

	rec := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/entity/"+f.entityID.String()+"/people"))
	testutil.AssertStatusOK(t, rec)
	views := testutil.UnmarshalResponse[[]*models.PersonView](t, rec)
	require.Len(t, *views, 1)
	assert.Equal(t, request.Persons[0].ID, (*views)[0].ID)

	rec = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/entity/"+id.NewEntityID().String()+"/people"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetPerson(t *testing.T) {
	f := newRouterFixture(t)
	request := f.mustCreate(t)

	rec := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/people/"+request.Persons[0].ID.String()))
	testutil.AssertStatusOK(t, rec)
	view := testutil.UnmarshalResponse[models.PersonView](t, rec)
	assert.Equal(t, "ACME SAC", view.Owner)

	rec = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/requests/people/"+id.NewPersonID().String()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
