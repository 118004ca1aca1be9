package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/portfolio-site/backend/internal/models"
	"github.com/portfolio-site/backend/internal/services"
	"go.uber.org/zap"
)

// DraftStore is the interface that wraps methods for server-held staging drafts
type DraftStore interface {
	// Method Create opens a draft for one kind, seeded with the project's items when "projectID" is set.
	//
	// If the kind is unknown, models.ErrInvalidKind will be returned.
	Create(ctx context.Context, kind models.MediaKind, projectID string) (*services.Draft, error)
	// Method Get returns a draft by its ID.
	//
	// If the draft does not exist or was evicted, models.ErrDraftNotFound will be returned.
	Get(id string) (*services.Draft, error)
	// Method Discard drops a draft.
	//
	// Please reference Get method for more information about error values.
	Discard(id string) error
}

// CreateDraftRequest represents a draft creation request
type CreateDraftRequest struct {
	Kind      models.MediaKind `json:"kind"`
	ProjectID string           `json:"projectId,omitempty"`
}

// CommitDraftRequest represents a draft commit request.
// ProjectID is required when the draft was created without one.
type CommitDraftRequest struct {
	ProjectID string `json:"projectId,omitempty"`
}

// DraftResponse describes a draft and its staged items
type DraftResponse struct {
	ID        string                   `json:"id"`
	Kind      models.MediaKind         `json:"kind"`
	ProjectID string                   `json:"projectId,omitempty"`
	Items     []models.StagedMediaItem `json:"items"`
}

// AcceptFilesResponse is returned after files were offered to a draft
type AcceptFilesResponse struct {
	Accepted []models.StagedMediaItem `json:"accepted"`
	Errors   []ItemErrorResponse      `json:"errors"`
	Items    []models.StagedMediaItem `json:"items"`
}

// CommitResponse is returned after a draft commit
type CommitResponse struct {
	Persisted []models.MediaItem       `json:"persisted"`
	Updated   int                      `json:"updated"`
	Skipped   int                      `json:"skipped"`
	Errors    []ItemErrorResponse      `json:"errors"`
	Items     []models.StagedMediaItem `json:"items"`
}

// DraftHandler handles HTTP requests for staging drafts
type DraftHandler struct {
	BaseHandler
	drafts DraftStore
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(drafts DraftStore, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{
		BaseHandler: BaseHandler{Logger: logger},
		drafts:      drafts,
	}
}

// RegisterRoutes registers all draft handler routes.
// Every route requires an owner session, mount the handler behind auth.Middleware.
func (h *DraftHandler) RegisterRoutes(r chi.Router) {
	r.Route("/drafts", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Route("/{draftID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Discard)
			r.Post("/files", h.AcceptFiles)
			r.Post("/commit", h.Commit)
			r.Route("/items/{item}", func(r chi.Router) {
				r.Delete("/", h.RemoveItem)
				r.Patch("/", h.UpdateItem)
				r.Post("/move", h.MoveItem)
				r.Post("/retry", h.RetryItem)
				r.Get("/preview", h.Preview)
			})
		})
	})
}

// Create handles POST /drafts
// @Summary Create a draft
// @Description Open a staging draft for one media kind, seeded with the project's items when projectId is given
// @Tags drafts
// @Accept json
// @Produce json
// @Param request body CreateDraftRequest true "Draft request"
// @Security ApiKeyAuth
// @Success 201 {object} DraftResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /drafts [post]
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := h.drafts.Create(r.Context(), req.Kind, req.ProjectID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create draft")
		return
	}

	h.RespondJSON(w, http.StatusCreated, draftResponse(draft))
}

// Get handles GET /drafts/{draftID}
// @Summary Get a draft
// @Description Get a draft with the current upload state of its items
// @Tags drafts
// @Produce json
// @Param draftID path string true "Draft ID"
// @Security ApiKeyAuth
// @Success 200 {object} DraftResponse
// @Failure 404 {object} map[string]string
// @Router /drafts/{draftID} [get]
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.draft(w, r)
	if !ok {
		return
	}
	h.RespondJSON(w, http.StatusOK, draftResponse(draft))
}

// Discard handles DELETE /drafts/{draftID}
// @Summary Discard a draft
// @Description Drop a draft without committing it
// @Tags drafts
// @Param draftID path string true "Draft ID"
// @Security ApiKeyAuth
// @Success 204 "Draft discarded"
// @Failure 404 {object} map[string]string
// @Router /drafts/{draftID} [delete]
func (h *DraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.drafts.Discard(chi.URLParam(r, "draftID")); err != nil {
		h.RespondServiceError(w, err, "failed to discard draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AcceptFiles handles POST /drafts/{draftID}/files
// @Summary Stage files
// @Description Validate and stage files. Uploads start immediately and run in the background.
// @Tags drafts
// @Accept multipart/form-data
// @Produce json
// @Param draftID path string true "Draft ID"
// @Param files formData file true "Files to stage"
// @Security ApiKeyAuth
// @Success 202 {object} AcceptFilesResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /drafts/{draftID}/files [post]
func (h *DraftHandler) AcceptFiles(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.draft(w, r)
	if !ok {
		return
	}

	files, err := readCandidateFiles(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	accepted, rejected := draft.Manager.AcceptFiles(r.Context(), files)

	h.RespondJSON(w, http.StatusAccepted, AcceptFilesResponse{
		Accepted: accepted,
		Errors:   itemErrorsResponse(rejected),
		Items:    draft.Manager.Items(),
	})
}

// RemoveItem handles DELETE /drafts/{draftID}/items/{index}
// @Summary Remove a staged item
// @Description Remove an item and renumber the rest. Persisted items need confirm=true and are deleted from the catalog.
// @Tags drafts
// @Produce json
// @Param draftID path string true "Draft ID"
// @Param index path int true "Zero-based list position"
// @Param confirm query bool false "Owner confirmation, required for persisted items"
// @Security ApiKeyAuth
// @Success 200 {object} DraftResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Upload still in progress"
// @Failure 428 {object} map[string]string "Confirmation required"
// @Router /drafts/{draftID}/items/{index} [delete]
func (h *DraftHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	draft, index, ok := h.draftItem(w, r)
	if !ok {
		return
	}

	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	confirm := func(models.StagedMediaItem) bool { return confirmed }
	if err := draft.Manager.Remove(r.Context(), sessionFrom(r), index, confirm); err != nil {
		h.RespondServiceError(w, err, "failed to remove staged item")
		return
	}

	h.RespondJSON(w, http.StatusOK, draftResponse(draft))
}

// MoveItem handles POST /drafts/{draftID}/items/{index}/move
// @Summary Move a staged item
// @Description Move an item one step and renumber the list. Moving past either end is a no-op.
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftID path string true "Draft ID"
// @Param index path int true "Zero-based list position"
// @Param request body MoveRequest true "Direction: up or down"
// @Security ApiKeyAuth
// @Success 200 {object} DraftResponse
// @Failure 400 {object} map[string]string
// @Router /drafts/{draftID}/items/{index}/move [post]
func (h *DraftHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	draft, index, ok := h.draftItem(w, r)
	if !ok {
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := draft.Manager.Reorder(index, req.Direction); err != nil {
		h.RespondServiceError(w, err, "failed to move staged item")
		return
	}

	h.RespondJSON(w, http.StatusOK, draftResponse(draft))
}

// UpdateItem handles PATCH /drafts/{draftID}/items/{index}
// @Summary Update a staged item
// @Description Edit the metadata of a staged item locally. Setting isThumbnail clears it on every other item.
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftID path string true "Draft ID"
// @Param index path int true "Zero-based list position"
// @Param request body models.MetadataPatch true "Metadata patch"
// @Security ApiKeyAuth
// @Success 200 {object} DraftResponse
// @Failure 400 {object} map[string]string
// @Router /drafts/{draftID}/items/{index} [patch]
func (h *DraftHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	draft, index, ok := h.draftItem(w, r)
	if !ok {
		return
	}

	var patch models.MetadataPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := draft.Manager.SetMetadata(index, patch); err != nil {
		h.RespondServiceError(w, err, "failed to update staged item")
		return
	}

	h.RespondJSON(w, http.StatusOK, draftResponse(draft))
}

// RetryItem handles POST /drafts/{draftID}/items/{index}/retry
// @Summary Retry a failed upload
// @Description Restart the upload of a staged item whose upload failed
// @Tags drafts
// @Produce json
// @Param draftID path string true "Draft ID"
// @Param index path int true "Zero-based list position"
// @Security ApiKeyAuth
// @Success 202 {object} DraftResponse
// @Failure 400 {object} map[string]string
// @Router /drafts/{draftID}/items/{index}/retry [post]
func (h *DraftHandler) RetryItem(w http.ResponseWriter, r *http.Request) {
	draft, index, ok := h.draftItem(w, r)
	if !ok {
		return
	}

	if err := draft.Manager.Retry(r.Context(), index); err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		h.RespondError(w, status, err.Error())
		return
	}

	h.RespondJSON(w, http.StatusAccepted, draftResponse(draft))
}

// Preview handles GET /drafts/{draftID}/items/{key}/preview
// @Summary Preview a staged file
// @Description Serve the local bytes of a staged item whose upload has not completed yet
// @Tags drafts
// @Produce octet-stream
// @Param draftID path string true "Draft ID"
// @Param key path string true "Staged item key"
// @Security ApiKeyAuth
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /drafts/{draftID}/items/{key}/preview [get]
func (h *DraftHandler) Preview(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.draft(w, r)
	if !ok {
		return
	}

	data, contentType, found := draft.Manager.Preview(chi.URLParam(r, "item"))
	if !found {
		h.RespondError(w, http.StatusNotFound, "preview not available")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("failed to write preview", zap.Error(err))
	}
}

// Commit handles POST /drafts/{draftID}/commit
// @Summary Commit a draft
// @Description Persist ready items and write back changes to persisted ones. Failed items are reported, unfinished uploads skipped.
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftID path string true "Draft ID"
// @Param request body CommitDraftRequest false "Target project, required for drafts of a new project"
// @Security ApiKeyAuth
// @Success 200 {object} CommitResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /drafts/{draftID}/commit [post]
func (h *DraftHandler) Commit(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.draft(w, r)
	if !ok {
		return
	}

	var req CommitDraftRequest
	// The body is optional for drafts of an existing project
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProjectID == "" && draft.Manager.ProjectID() == "" {
		h.RespondError(w, http.StatusBadRequest, "projectId is required")
		return
	}

	report, err := draft.Manager.Commit(r.Context(), sessionFrom(r), req.ProjectID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to commit draft")
		return
	}

	h.RespondJSON(w, http.StatusOK, CommitResponse{
		Persisted: report.Persisted,
		Updated:   report.Updated,
		Skipped:   report.Skipped,
		Errors:    itemErrorsResponse(report.Errors),
		Items:     draft.Manager.Items(),
	})
}

func (h *DraftHandler) draft(w http.ResponseWriter, r *http.Request) (*services.Draft, bool) {
	draft, err := h.drafts.Get(chi.URLParam(r, "draftID"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to get draft")
		return nil, false
	}
	return draft, true
}

func (h *DraftHandler) draftItem(w http.ResponseWriter, r *http.Request) (*services.Draft, int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "item"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid index parameter")
		return nil, 0, false
	}
	draft, ok := h.draft(w, r)
	if !ok {
		return nil, 0, false
	}
	return draft, index, true
}

func draftResponse(draft *services.Draft) DraftResponse {
	return DraftResponse{
		ID:        draft.ID,
		Kind:      draft.Manager.Kind(),
		ProjectID: draft.Manager.ProjectID(),
		Items:     draft.Manager.Items(),
	}
}
