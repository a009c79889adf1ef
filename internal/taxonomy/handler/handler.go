// Package handler exposes the taxonomy catalog over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"smarttalent/internal/taxonomy/models"
	"smarttalent/pkg/platform/httputil"
)

// Service defines the catalog reads the handler depends on.
type Service interface {
	ListWithResourceTypes(ctx context.Context) ([]*models.DocumentType, error)
}

// Handler wires taxonomy endpoints to the taxonomy service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a taxonomy handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts taxonomy endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/document-types/with-resource-types", h.HandleListWithResourceTypes)
}

// HandleListWithResourceTypes handles GET /document-types/with-resource-types.
// Clients use the catalog to render and pre-validate the intake form.
func (h *Handler) HandleListWithResourceTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListWithResourceTypes(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "catalog read failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	if types == nil {
		types = []*models.DocumentType{}
	}
	httputil.WriteJSON(w, http.StatusOK, types)
}
