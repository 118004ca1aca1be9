package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/portfolio-site/backend/internal/auth"
	"github.com/portfolio-site/backend/internal/models"
	"go.uber.org/zap"
)

// ProjectMediaReader is the interface that wraps the public media listing
type ProjectMediaReader interface {
	// Method ListByProject reads a project's three media collections, each sorted by display order.
	ListByProject(ctx context.Context, projectID string) (*models.ProjectMedia, error)
}

// URLResolver is the interface that wraps methods turning stored locations into usable retrieval URLs
type URLResolver interface {
	// Method ResolveURL returns a retrieval URL for "rawURL", or "rawURL" itself when it cannot be resolved.
	ResolveURL(ctx context.Context, rawURL string, kind models.MediaKind) string
	// Method ResolveMedia resolves the URL of every item in place.
	ResolveMedia(ctx context.Context, media *models.ProjectMedia)
}

// LiveMedia is the interface that wraps the per-action media editor of an existing project
type LiveMedia interface {
	// Method Items returns the collection as of the last reload.
	Items() []models.MediaItem
	// Method HandleFileSelect validates, uploads and adds each file in turn.
	//
	// Per-file failures are reported in the returned batch report and do not stop the batch.
	HandleFileSelect(ctx context.Context, actingAs *auth.Session, files []models.CandidateFile) (*models.BatchReport, error)
	// Method Delete removes a persisted item. "confirmed" must be true.
	Delete(ctx context.Context, actingAs *auth.Session, id string, confirmed bool) error
	// Method Reorder swaps the item at "index" with its neighbour in "direction".
	Reorder(ctx context.Context, actingAs *auth.Session, index int, direction models.Direction) error
	// Method UpdateMetadata applies a partial metadata update to an item.
	UpdateMetadata(ctx context.Context, actingAs *auth.Session, id string, patch models.MetadataPatch) error
}

// LiveMediaOpener returns a loaded editor for one kind of a project
type LiveMediaOpener func(ctx context.Context, projectID string, kind models.MediaKind) (LiveMedia, error)

// OrphanSyncer is the interface that wraps the orphaned file reconciliation
type OrphanSyncer interface {
	// Method Sync adds a catalog row for every stored file of the project that no row references.
	Sync(ctx context.Context, actingAs *auth.Session, projectID string, kind models.MediaKind) ([]models.MediaItem, error)
}

// MoveRequest represents a one step move
type MoveRequest struct {
	Direction models.Direction `json:"direction"`
}

// BatchResponse is returned after a multi-file upload
type BatchResponse struct {
	Added  []models.MediaItem  `json:"added"`
	Errors []ItemErrorResponse `json:"errors"`
	Items  []models.MediaItem  `json:"items"`
}

// ItemsResponse holds a kind's collection after a change
type ItemsResponse struct {
	Items []models.MediaItem `json:"items"`
}

// MediaHandler handles HTTP requests for the media of existing projects
type MediaHandler struct {
	BaseHandler
	reader   ProjectMediaReader
	resolver URLResolver
	open     LiveMediaOpener
	syncer   OrphanSyncer
	authMw   func(http.Handler) http.Handler
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(
	reader ProjectMediaReader,
	resolver URLResolver,
	open LiveMediaOpener,
	syncer OrphanSyncer,
	authMw func(http.Handler) http.Handler,
	logger *zap.Logger,
) *MediaHandler {
	return &MediaHandler{
		BaseHandler: BaseHandler{Logger: logger},
		reader:      reader,
		resolver:    resolver,
		open:        open,
		syncer:      syncer,
		authMw:      authMw,
	}
}

// RegisterRoutes registers all media handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Route("/projects/{projectID}/media", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/thumbnail", h.Thumbnail)

		r.Group(func(r chi.Router) {
			r.Use(h.authMw)
			r.Post("/{kind}", h.Upload)
			r.Post("/{kind}/sync", h.Sync)
			r.Post("/{kind}/{item}/move", h.Move)
			r.Patch("/{kind}/{item}", h.Update)
			r.Delete("/{kind}/{item}", h.Delete)
		})
	})
}

// List handles GET /projects/{projectID}/media
// @Summary List project media
// @Description Get the images, audio tracks and videos of a project, each sorted by display order
// @Tags media
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.ProjectMedia
// @Failure 502 {object} map[string]string
// @Router /projects/{projectID}/media [get]
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	media, err := h.reader.ListByProject(r.Context(), projectID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to list media")
		return
	}
	h.resolver.ResolveMedia(r.Context(), media)

	h.RespondJSON(w, http.StatusOK, media)
}

// Thumbnail handles GET /projects/{projectID}/media/thumbnail
// @Summary Get project thumbnail
// @Description Get the image shown for the project in listing views: the flagged thumbnail, or the first image when none is flagged
// @Tags media
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.MediaItem
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /projects/{projectID}/media/thumbnail [get]
func (h *MediaHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	media, err := h.reader.ListByProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to get thumbnail")
		return
	}

	thumbnail, ok := media.Thumbnail()
	if !ok {
		h.RespondError(w, http.StatusNotFound, "project has no images")
		return
	}
	thumbnail.LocationURL = h.resolver.ResolveURL(r.Context(), thumbnail.LocationURL, models.MediaKindImage)

	h.RespondJSON(w, http.StatusOK, thumbnail)
}

// Upload handles POST /projects/{projectID}/media/{kind}
// @Summary Upload media files
// @Description Validate, upload and add each file in turn. Per-file failures are reported without stopping the batch.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param projectID path string true "Project ID"
// @Param kind path string true "Media kind: image, audio or video"
// @Param files formData file true "Files to upload"
// @Security ApiKeyAuth
// @Success 201 {object} BatchResponse "At least one file was added"
// @Success 200 {object} BatchResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} BatchResponse "No file was added"
// @Router /projects/{projectID}/media/{kind} [post]
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	editor, ok := h.openEditor(w, r)
	if !ok {
		return
	}

	files, err := readCandidateFiles(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := editor.HandleFileSelect(r.Context(), sessionFrom(r), files)
	if err != nil {
		h.RespondServiceError(w, err, "failed to upload files")
		return
	}

	status := http.StatusOK
	switch {
	case len(report.Added) > 0:
		status = http.StatusCreated
	case len(report.Errors) > 0:
		status = http.StatusUnprocessableEntity
	}

	h.RespondJSON(w, status, BatchResponse{
		Added:  h.resolveItems(r.Context(), report.Added),
		Errors: itemErrorsResponse(report.Errors),
		Items:  h.resolveItems(r.Context(), editor.Items()),
	})
}

// Delete handles DELETE /projects/{projectID}/media/{kind}/{id}
// @Summary Delete a media item
// @Description Delete a persisted media item. The owner must confirm with confirm=true.
// @Tags media
// @Produce json
// @Param projectID path string true "Project ID"
// @Param kind path string true "Media kind: image, audio or video"
// @Param id path string true "Media item ID"
// @Param confirm query bool true "Owner confirmation"
// @Security ApiKeyAuth
// @Success 204 "Item deleted"
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 428 {object} map[string]string "Confirmation required"
// @Router /projects/{projectID}/media/{kind}/{id} [delete]
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	editor, ok := h.openEditor(w, r)
	if !ok {
		return
	}

	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := editor.Delete(r.Context(), sessionFrom(r), chi.URLParam(r, "item"), confirmed); err != nil {
		h.RespondServiceError(w, err, "failed to delete media item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Move handles POST /projects/{projectID}/media/{kind}/{index}/move
// @Summary Move a media item
// @Description Swap the item at index with its neighbour. Moving past either end is a no-op.
// @Tags media
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param kind path string true "Media kind: image, audio or video"
// @Param index path int true "Zero-based list position"
// @Param request body MoveRequest true "Direction: up or down"
// @Security ApiKeyAuth
// @Success 200 {object} ItemsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /projects/{projectID}/media/{kind}/{index}/move [post]
func (h *MediaHandler) Move(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "item"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid index parameter")
		return
	}
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	editor, ok := h.openEditor(w, r)
	if !ok {
		return
	}

	if err := editor.Reorder(r.Context(), sessionFrom(r), index, req.Direction); err != nil {
		h.RespondServiceError(w, err, "failed to move media item")
		return
	}

	h.RespondJSON(w, http.StatusOK, ItemsResponse{Items: h.resolveItems(r.Context(), editor.Items())})
}

// Update handles PATCH /projects/{projectID}/media/{kind}/{id}
// @Summary Update media metadata
// @Description Apply a partial metadata update. Setting isThumbnail clears it on every other item of the kind.
// @Tags media
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param kind path string true "Media kind: image, audio or video"
// @Param id path string true "Media item ID"
// @Param request body models.MetadataPatch true "Metadata patch"
// @Security ApiKeyAuth
// @Success 200 {object} ItemsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{projectID}/media/{kind}/{id} [patch]
func (h *MediaHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.MetadataPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	editor, ok := h.openEditor(w, r)
	if !ok {
		return
	}

	if err := editor.UpdateMetadata(r.Context(), sessionFrom(r), chi.URLParam(r, "item"), patch); err != nil {
		h.RespondServiceError(w, err, "failed to update media item")
		return
	}

	h.RespondJSON(w, http.StatusOK, ItemsResponse{Items: h.resolveItems(r.Context(), editor.Items())})
}

// Sync handles POST /projects/{projectID}/media/{kind}/sync
// @Summary Sync orphaned files
// @Description Add a catalog entry for every stored file of the project that no entry references
// @Tags media
// @Produce json
// @Param projectID path string true "Project ID"
// @Param kind path string true "Media kind: image, audio or video"
// @Security ApiKeyAuth
// @Success 200 {object} ItemsResponse "Synced entries"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /projects/{projectID}/media/{kind}/sync [post]
func (h *MediaHandler) Sync(w http.ResponseWriter, r *http.Request) {
	kind := models.MediaKind(chi.URLParam(r, "kind"))

	synced, err := h.syncer.Sync(r.Context(), sessionFrom(r), chi.URLParam(r, "projectID"), kind)
	if err != nil {
		h.RespondServiceError(w, err, "failed to sync orphaned files")
		return
	}

	h.RespondJSON(w, http.StatusOK, ItemsResponse{Items: synced})
}

// openEditor validates the kind and loads the project's collection, writing the error response on failure
func (h *MediaHandler) openEditor(w http.ResponseWriter, r *http.Request) (LiveMedia, bool) {
	kind := models.MediaKind(chi.URLParam(r, "kind"))
	if !kind.IsValid() {
		h.RespondError(w, http.StatusBadRequest, "invalid media kind")
		return nil, false
	}

	editor, err := h.open(r.Context(), chi.URLParam(r, "projectID"), kind)
	if err != nil {
		if errors.Is(err, models.ErrInvalidKind) {
			h.RespondError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		h.RespondServiceError(w, err, "failed to load media")
		return nil, false
	}
	return editor, true
}

func (h *MediaHandler) resolveItems(ctx context.Context, items []models.MediaItem) []models.MediaItem {
	for i := range items {
		items[i].LocationURL = h.resolver.ResolveURL(ctx, items[i].LocationURL, items[i].Kind)
	}
	return items
}
