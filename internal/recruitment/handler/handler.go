// Package handler exposes recruitment endpoints over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"smarttalent/internal/recruitment/models"
	"smarttalent/internal/recruitment/service"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/httputil"
	"smarttalent/pkg/requestcontext"
)

// Service defines the recruitment operations the handler depends on.
type Service interface {
	CreateRecruitment(ctx context.Context, input service.CreateRecruitmentInput) (*models.Recruitment, error)
	GetRecruitment(ctx context.Context, recruitmentID id.RecruitmentID) (*models.Recruitment, error)
	ListRecruitments(ctx context.Context, filter models.RecruitmentFilter) ([]*models.Recruitment, error)
	UpdateRecruitmentState(ctx context.Context, recruitmentID id.RecruitmentID, state models.RecruitmentState) (*models.Recruitment, error)
}

// Handler wires recruitment endpoints to the recruitment service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a recruitment handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the endpoints open to any authenticated caller.
func (h *Handler) Register(r chi.Router) {
	r.Post("/recruitments", h.HandleCreate)
	r.Get("/recruitments", h.HandleList)
	r.Get("/recruitments/{recruitmentID}", h.HandleGet)
	r.Get("/recruitments/entity/{entityID}", h.HandleListByEntity)
}

// RegisterStaff mounts the pipeline endpoints, gated to recruiter and admin
// roles by the router.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Patch("/recruitments/{recruitmentID}/status", h.HandleUpdateState)
}

func recruitmentIDParam(r *http.Request) (id.RecruitmentID, error) {
	recruitmentID, err := id.ParseRecruitmentID(chi.URLParam(r, "recruitmentID"))
	if err != nil {
		return id.RecruitmentID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid recruitment id")
	}
	return recruitmentID, nil
}

// HandleCreate handles POST /recruitments.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, ok := httputil.DecodeAndPrepare[CreateRecruitmentBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	recruitment, err := h.service.CreateRecruitment(ctx, body.Parsed())
	if err != nil {
		h.logger.ErrorContext(ctx, "recruitment creation failed",
			"request_id", requestID, "entity_id", body.EntityID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Recruitment and profile created successfully",
		"data":    recruitment,
	})
}

// HandleList handles GET /recruitments. Accepts entityId and status query
// filters.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var filter models.RecruitmentFilter
	if raw := r.URL.Query().Get("entityId"); raw != "" {
		entityID, err := id.ParseEntityID(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid entity id"))
			return
		}
		filter.EntityID = entityID
	}
	filter.State = models.RecruitmentState(r.URL.Query().Get("status"))

	h.writeList(w, r, filter)
}

// HandleListByEntity handles GET /recruitments/entity/{entityID}.
func (h *Handler) HandleListByEntity(w http.ResponseWriter, r *http.Request) {
	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid entity id"))
		return
	}
	h.writeList(w, r, models.RecruitmentFilter{EntityID: entityID})
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, filter models.RecruitmentFilter) {
	recruitments, err := h.service.ListRecruitments(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if recruitments == nil {
		recruitments = []*models.Recruitment{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": recruitments})
}

// HandleGet handles GET /recruitments/{recruitmentID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	recruitmentID, err := recruitmentIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	recruitment, err := h.service.GetRecruitment(r.Context(), recruitmentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": recruitment})
}

// HandleUpdateState handles PATCH /recruitments/{recruitmentID}/status.
func (h *Handler) HandleUpdateState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	recruitmentID, err := recruitmentIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	body, ok := httputil.DecodeAndPrepare[UpdateStateBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	recruitment, err := h.service.UpdateRecruitmentState(ctx, recruitmentID, models.RecruitmentState(body.Status))
	if err != nil {
		h.logger.ErrorContext(ctx, "recruitment state update failed",
			"request_id", requestID, "recruitment_id", recruitmentID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Recruitment state updated successfully",
		"data":    recruitment,
	})
}
