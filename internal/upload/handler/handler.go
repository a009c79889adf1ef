// Package handler exposes presigned upload/download URLs. Clients move file
// bytes directly against the object store; the API only signs.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	dErrors "smarttalent/pkg/domain-errors"
	"smarttalent/pkg/platform/httputil"
	"smarttalent/pkg/requestcontext"
)

// Signer issues presigned URLs against the artifact bucket.
type Signer interface {
	PresignWrite(ctx context.Context, objectName string) (string, error)
	PresignRead(ctx context.Context, objectName string) (string, error)
}

// Handler wires upload endpoints to the object store.
type Handler struct {
	signer Signer
	logger *slog.Logger
}

// New constructs an upload handler.
func New(signer Signer, logger *slog.Logger) *Handler {
	return &Handler{signer: signer, logger: logger}
}

// Register mounts upload endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/upload/signed-url", h.HandleWriteURL)
	r.Post("/upload/read-signed-url", h.HandleReadURL)
}

// WriteURLBody is the HTTP body for POST /upload/signed-url.
type WriteURLBody struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

func (b *WriteURLBody) Validate() error {
	b.FileName = strings.TrimSpace(b.FileName)
	if b.FileName == "" || strings.TrimSpace(b.ContentType) == "" {
		return dErrors.New(dErrors.CodeValidation, "fileName and contentType are required")
	}
	return validateObjectName(b.FileName)
}

// ReadURLBody is the HTTP body for POST /upload/read-signed-url.
type ReadURLBody struct {
	FileName string `json:"fileName"`
}

func (b *ReadURLBody) Validate() error {
	b.FileName = strings.TrimSpace(b.FileName)
	if b.FileName == "" {
		return dErrors.New(dErrors.CodeValidation, "fileName is required")
	}
	return validateObjectName(b.FileName)
}

// Object names come from clients; refuse traversal segments outright.
func validateObjectName(name string) error {
	if strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid file name")
	}
	return nil
}

// HandleWriteURL handles POST /upload/signed-url.
func (h *Handler) HandleWriteURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, ok := httputil.DecodeAndPrepare[WriteURLBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	signedURL, err := h.signer.PresignWrite(ctx, body.FileName)
	if err != nil {
		h.logger.ErrorContext(ctx, "presign write failed",
			"request_id", requestID, "file", body.FileName, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "signing upload URL"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":   "Signed URL generated successfully",
		"signedUrl": signedURL,
		"fileName":  body.FileName,
	})
}

// HandleReadURL handles POST /upload/read-signed-url.
func (h *Handler) HandleReadURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, ok := httputil.DecodeAndPrepare[ReadURLBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	signedURL, err := h.signer.PresignRead(ctx, body.FileName)
	if err != nil {
		h.logger.ErrorContext(ctx, "presign read failed",
			"request_id", requestID, "file", body.FileName, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "signing download URL"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":   "Signed read URL generated successfully",
		"signedUrl": signedURL,
		"fileName":  body.FileName,
	})
}
