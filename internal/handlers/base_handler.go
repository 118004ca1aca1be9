package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/portfolio-site/backend/internal/auth"
	"github.com/portfolio-site/backend/internal/models"
	"github.com/portfolio-site/backend/internal/storage"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError maps a core error to its status code and sends it.
// Unexpected errors are logged and answered with a generic message.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		h.Logger.Error(message, zap.Error(err))
		h.RespondError(w, status, message)
		return
	}
	h.RespondError(w, status, err.Error())
}

func statusFor(err error) int {
	var persistenceErr *models.PersistenceError
	switch {
	case errors.Is(err, models.ErrNotAuthorized):
		return http.StatusUnauthorized
	case errors.Is(err, storage.ErrInvalidToken):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrDraftNotFound),
		errors.Is(err, storage.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrInvalidKind),
		errors.Is(err, models.ErrInvalidType),
		errors.Is(err, models.ErrInvalidDirection),
		errors.Is(err, models.ErrThumbnailUnsupported),
		errors.Is(err, models.ErrIndexOutOfRange),
		errors.Is(err, models.ErrProjectMismatch):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotConfirmed):
		return http.StatusPreconditionRequired
	case errors.Is(err, models.ErrUploadInProgress):
		return http.StatusConflict
	case errors.Is(err, models.ErrUploadFailed), errors.As(err, &persistenceErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// sessionFrom returns the owner session put in the context by auth.Middleware, or nil
func sessionFrom(r *http.Request) *auth.Session {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		return nil
	}
	return session
}

// ItemErrorResponse is the JSON form of a per-file failure
type ItemErrorResponse struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
	Error string `json:"error"`
}

func itemErrorsResponse(errs []models.ItemError) []ItemErrorResponse {
	resp := make([]ItemErrorResponse, 0, len(errs))
	for _, e := range errs {
		resp = append(resp, ItemErrorResponse{Name: e.Name, Index: e.Index, Error: e.Message()})
	}
	return resp
}
