package handlers

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/portfolio-site/backend/internal/storage"
	"go.uber.org/zap"
)

// ObjectOpener is the interface that wraps access to stored objects through retrieval tokens
type ObjectOpener interface {
	// Method Open verifies "token" and opens the object it grants access to.
	//
	// The caller must close the reader. If the token does not match the object, storage.ErrInvalidToken will be returned;
	// if the object does not exist, storage.ErrObjectNotFound will be returned.
	Open(ctx context.Context, bucket, objectPath, token string) (io.ReadSeekCloser, storage.ObjectInfo, error)
}

// StorageHandler serves stored objects through signed retrieval URLs
type StorageHandler struct {
	BaseHandler
	objects ObjectOpener
}

// NewStorageHandler creates a new storage handler
func NewStorageHandler(objects ObjectOpener, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{
		BaseHandler: BaseHandler{Logger: logger},
		objects:     objects,
	}
}

// RegisterRoutes registers the signed object route at the router root
func (h *StorageHandler) RegisterRoutes(r chi.Router) {
	r.Get(storage.SignedRoutePrefix+"{bucket}/*", h.ServeObject)
}

// ServeObject handles GET /storage/v1/object/sign/{bucket}/{path}
// @Summary Download a stored object
// @Description Serve a stored object with range support. The token comes from a retrieval URL.
// @Tags storage
// @Produce octet-stream
// @Param bucket path string true "Bucket: images, audio or video"
// @Param path path string true "Object path"
// @Param token query string true "Retrieval token"
// @Success 200 {file} binary
// @Success 206 {file} binary "Partial content"
// @Failure 403 {object} map[string]string "Invalid or expired token"
// @Failure 404 {object} map[string]string "Object not found"
// @Router /storage/v1/object/sign/{bucket}/{path} [get]
func (h *StorageHandler) ServeObject(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	objectPath := chi.URLParam(r, "*")
	// chi matches on the escaped path when the request carries one
	if unescaped, err := url.PathUnescape(objectPath); err == nil {
		objectPath = unescaped
	}

	reader, info, err := h.objects.Open(r.Context(), bucket, objectPath, r.URL.Query().Get("token"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to open object")
		return
	}
	defer reader.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeContent(w, r, info.Name, info.ModTime, reader)
}
