// Package handler exposes requester entity endpoints over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"smarttalent/internal/entity/models"
	"smarttalent/internal/entity/service"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/httputil"
	"smarttalent/pkg/requestcontext"
)

// Service defines the entity operations the handler depends on.
type Service interface {
	CreateEntity(ctx context.Context, input service.CreateEntityInput) (*service.CreateEntityResult, error)
	GetEntity(ctx context.Context, entityID id.EntityID) (*models.Entity, error)
	ListEntities(ctx context.Context) ([]*models.Entity, error)
	UpdateEntity(ctx context.Context, entityID id.EntityID, input service.UpdateEntityInput) (*models.Entity, error)
	DeactivateEntity(ctx context.Context, entityID id.EntityID) error
	ReactivateEntity(ctx context.Context, entityID id.EntityID) error
}

// Handler wires entity endpoints to the entity service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an entity handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the entity read endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/entities", h.HandleList)
	r.Get("/entities/{entityID}", h.HandleGet)
}

// RegisterAdmin mounts the entity write endpoints, gated to the admin role by
// the router.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/entities", h.HandleCreate)
	r.Put("/entities/{entityID}", h.HandleUpdate)
	r.Delete("/entities/{entityID}", h.HandleDeactivate)
	r.Patch("/entities/{entityID}/reactivate", h.HandleReactivate)
}

func entityIDParam(r *http.Request) (id.EntityID, error) {
	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		return id.EntityID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid entity id")
	}
	return entityID, nil
}

// HandleCreate handles POST /entities.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, ok := httputil.DecodeAndPrepare[CreateEntityBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.CreateEntity(ctx, body.Parsed())
	if err != nil {
		h.logger.ErrorContext(ctx, "entity creation failed",
			"request_id", requestID, "document_number", body.DocumentNumber, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

// HandleList handles GET /entities.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	entities, err := h.service.ListEntities(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if entities == nil {
		entities = []*models.Entity{}
	}
	httputil.WriteJSON(w, http.StatusOK, entities)
}

// HandleGet handles GET /entities/{entityID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entityID, err := entityIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entity, err := h.service.GetEntity(r.Context(), entityID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entity)
}

// HandleUpdate handles PUT /entities/{entityID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	entityID, err := entityIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	body, ok := httputil.DecodeAndPrepare[UpdateEntityBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entity, err := h.service.UpdateEntity(ctx, entityID, body.Parsed())
	if err != nil {
		h.logger.ErrorContext(ctx, "entity update failed",
			"request_id", requestID, "entity_id", entityID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Entity updated successfully",
		"entity":  entity,
	})
}

// HandleDeactivate handles DELETE /entities/{entityID}. Soft delete.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	entityID, err := entityIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeactivateEntity(r.Context(), entityID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Entity deleted successfully",
	})
}

// HandleReactivate handles PATCH /entities/{entityID}/reactivate.
func (h *Handler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	entityID, err := entityIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.ReactivateEntity(r.Context(), entityID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Entity reactivated successfully",
	})
}
