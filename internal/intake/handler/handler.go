// Package handler exposes the intake module over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"smarttalent/internal/intake/models"
	"smarttalent/internal/intake/service"
	id "smarttalent/pkg/domain"
	"smarttalent/pkg/platform/httputil"
	"smarttalent/pkg/requestcontext"
)

// Service defines the intake operations the handler depends on.
type Service interface {
	CreateRequest(ctx context.Context, input service.CreateRequestInput) (*models.Request, error)
	GetRequest(ctx context.Context, requestID id.RequestID) (*models.Request, error)
	DeleteRequest(ctx context.Context, requestID id.RequestID) (*models.DeletionReport, error)
	UpdateDocuments(ctx context.Context, updates []models.DocumentUpdate) ([]models.DocumentUpdateResult, error)
	UpdateResources(ctx context.Context, updates []models.ResourceUpdate) ([]models.ResourceUpdateResult, error)
	AssignRecruiter(ctx context.Context, personID id.PersonID, userID id.UserID) (*service.Assignment, error)
	GiveObservations(ctx context.Context, personID id.PersonID, observations string) (*models.Person, error)
	UpdatePersonStatus(ctx context.Context, personID id.PersonID, status models.PersonStatus) (*models.Person, error)
	ListPeople(ctx context.Context, filter models.PersonFilter) ([]*models.PersonView, error)
	GetPerson(ctx context.Context, personID id.PersonID) (*models.PersonView, error)
	ListPeopleByEntity(ctx context.Context, entityID id.EntityID) ([]*models.PersonView, error)
}

// Handler wires intake endpoints to the intake service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an intake handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the endpoints open to any authenticated caller: submitting
// requests and reading their progress.
func (h *Handler) Register(r chi.Router) {
	r.Post("/requests", h.HandleCreate)
	r.Get("/requests/people/{personID}", h.HandleGetPerson)
	r.Get("/requests/entity/{entityID}/people", h.HandleListPeopleByEntity)
	r.Get("/requests/{requestID}", h.HandleGetRequest)
}

// RegisterStaff mounts the processing endpoints, gated to recruiter and admin
// roles by the router.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Get("/requests/people", h.HandleListPeople)
	r.Patch("/requests/assign-recruiter", h.HandleAssignRecruiter)
	r.Patch("/requests/give-observations", h.HandleGiveObservations)
	r.Patch("/requests/person/update-status", h.HandleUpdatePersonStatus)
	r.Delete("/requests/{requestID}", h.HandleDelete)
	r.Patch("/documents/bulk-update", h.HandleBulkDocuments)
	r.Patch("/resources/update-multiple", h.HandleBulkResources)
}

// HandleCreate handles POST /requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	body, ok := httputil.DecodeAndPrepare[CreateRequestBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	request, err := h.service.CreateRequest(ctx, body.Parsed())
	if err != nil {
		h.logger.ErrorContext(ctx, "request creation failed",
			"request_id", requestID,
			"entity_id", body.EntityID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "request created",
		"request_id", requestID,
		"created_request_id", request.ID,
		"persons", len(request.Persons),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Request created successfully",
		"request": request,
	})
}

// HandleGetRequest handles GET /requests/{requestID}.
func (h *Handler) HandleGetRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := id.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	request, err := h.service.GetRequest(r.Context(), requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, request)
}

// HandleDelete handles DELETE /requests/{requestID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, err := id.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.DeleteRequest(ctx, requestID)
	if err != nil {
		h.logger.ErrorContext(ctx, "request deletion failed",
			"request_id", requestcontext.RequestID(ctx),
			"target_request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Request deleted successfully",
		"deleted": report,
	})
}

// HandleListPeople handles GET /requests/people. The status query parameter
// accepts comma-separated values; recruiterId narrows to one recruiter's
// caseload.
func (h *Handler) HandleListPeople(w http.ResponseWriter, r *http.Request) {
	var filter models.PersonFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			filter.Statuses = append(filter.Statuses, models.PersonStatus(strings.ToUpper(part)))
		}
	}
	if raw := r.URL.Query().Get("recruiterId"); raw != "" {
		recruiterID, err := id.ParseUserID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.RecruiterID = recruiterID
	}

	people, err := h.service.ListPeople(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if people == nil {
		people = []*models.PersonView{}
	}
	httputil.WriteJSON(w, http.StatusOK, people)
}

// HandleGetPerson handles GET /requests/people/{personID}.
func (h *Handler) HandleGetPerson(w http.ResponseWriter, r *http.Request) {
	personID, err := id.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	person, err := h.service.GetPerson(r.Context(), personID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, person)
}

// HandleListPeopleByEntity handles GET /requests/entity/{entityID}/people.
func (h *Handler) HandleListPeopleByEntity(w http.ResponseWriter, r *http.Request) {
	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	people, err := h.service.ListPeopleByEntity(r.Context(), entityID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if people == nil {
		people = []*models.PersonView{}
	}
	httputil.WriteJSON(w, http.StatusOK, people)
}

// HandleBulkDocuments handles PATCH /documents/bulk-update.
func (h *Handler) HandleBulkDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, ok := httputil.DecodeAndPrepare[BulkDocumentsBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	results, err := h.service.UpdateDocuments(ctx, body.Updates)
	if err != nil {
		h.logger.ErrorContext(ctx, "bulk document update failed",
			"request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Documents processed",
		"results": results,
	})
}

// HandleBulkResources handles PATCH /resources/update-multiple.
func (h *Handler) HandleBulkResources(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, ok := httputil.DecodeAndPrepare[BulkResourcesBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	results, err := h.service.UpdateResources(ctx, body.Resources)
	if err != nil {
		h.logger.ErrorContext(ctx, "bulk resource update failed",
			"request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Resources processed",
		"results": results,
	})
}

// HandleAssignRecruiter handles PATCH /requests/assign-recruiter.
func (h *Handler) HandleAssignRecruiter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, ok := httputil.DecodeAndPrepare[AssignRecruiterBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	assignment, err := h.service.AssignRecruiter(ctx, body.personID, body.recruiterID)
	if err != nil {
		h.logger.ErrorContext(ctx, "recruiter assignment failed",
			"request_id", requestID,
			"person_id", body.PersonID,
			"recruiter_id", body.RecruiterID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":    "Recruiter assigned successfully",
		"assignment": assignment,
	})
}

// HandleGiveObservations handles PATCH /requests/give-observations.
func (h *Handler) HandleGiveObservations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, ok := httputil.DecodeAndPrepare[ObservationsBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	person, err := h.service.GiveObservations(ctx, body.personID, body.Observations)
	if err != nil {
		h.logger.ErrorContext(ctx, "observation failed",
			"request_id", requestID, "person_id", body.PersonID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Observations recorded successfully",
		"person":  person,
	})
}

// HandleUpdatePersonStatus handles PATCH /requests/person/update-status.
func (h *Handler) HandleUpdatePersonStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, ok := httputil.DecodeAndPrepare[UpdateStatusBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	person, err := h.service.UpdatePersonStatus(ctx, body.personID, body.status)
	if err != nil {
		h.logger.ErrorContext(ctx, "person status update failed",
			"request_id", requestID, "person_id", body.PersonID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Status updated successfully",
		"person":  person,
	})
}
