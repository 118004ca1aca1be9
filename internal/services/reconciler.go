package services

import (
	"context"
	"path"
	"strings"

	"github.com/portfolio-site/backend/internal/auth"
	"github.com/portfolio-site/backend/internal/models"
	"github.com/portfolio-site/backend/internal/storage"
	"go.uber.org/zap"
)

// ObjectLister is the interface that wraps the blob store lookups needed to find orphaned files
type ObjectLister interface {
	// Method ListProjectObjects lists the objects stored under projects/{projectID}/ in the kind's bucket.
	ListProjectObjects(ctx context.Context, kind models.MediaKind, projectID string) ([]storage.ObjectInfo, error)
	// Method SignObject mints a retrieval URL for an object of the kind's bucket.
	SignObject(kind models.MediaKind, objectPath string) (string, error)
}

type reconciler struct {
	catalog Catalog
	objects ObjectLister
	logger  *zap.Logger
}

// NewReconciler creates a reconciler adding stored files that have no catalog row
func NewReconciler(catalog Catalog, objects ObjectLister, logger *zap.Logger) *reconciler {
	return &reconciler{
		catalog: catalog,
		objects: objects,
		logger:  logger,
	}
}

// Sync adds a catalog row for every file in the project's folder that no row references.
//
// Entries without an extension are skipped. New rows are titled after the file name without
// its extension and ordered after the highest existing display order. A failing file is logged and skipped.
func (r *reconciler) Sync(ctx context.Context, actingAs *auth.Session, projectID string, kind models.MediaKind) ([]models.MediaItem, error) {
	if actingAs == nil {
		return nil, models.ErrNotAuthorized
	}
	if !kind.IsValid() {
		return nil, models.ErrInvalidKind
	}

	objects, err := r.objects.ListProjectObjects(ctx, kind, projectID)
	if err != nil {
		return nil, err
	}

	media, err := r.catalog.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	existing := media.ByKind(kind)

	synced := []models.MediaItem{}
	nextOrder := maxOrder(existing) + 1
	for _, object := range objects {
		if object.IsDir || !strings.Contains(object.Name, ".") {
			continue
		}
		if referenced(existing, object.Name) {
			continue
		}

		url, err := r.objects.SignObject(kind, object.Path)
		if err != nil {
			r.logger.Warn("failed to sign orphaned file", zap.Error(err), zap.String("path", object.Path))
			continue
		}

		item := models.MediaItem{
			ProjectID:    projectID,
			Kind:         kind,
			LocationURL:  url,
			DisplayOrder: nextOrder,
			Metadata:     models.MetadataWithLabel(kind, strings.TrimSuffix(object.Name, path.Ext(object.Name))),
		}
		added, err := r.catalog.Add(ctx, actingAs, item)
		if err != nil {
			r.logger.Warn("failed to add orphaned file", zap.Error(err), zap.String("path", object.Path))
			continue
		}

		nextOrder++
		synced = append(synced, *added)
	}

	r.logger.Info("orphaned files synced",
		zap.String("project_id", projectID),
		zap.String("kind", string(kind)),
		zap.Int("found", len(objects)),
		zap.Int("synced", len(synced)),
	)
	return synced, nil
}

func referenced(items []models.MediaItem, name string) bool {
	for _, item := range items {
		if strings.Contains(item.LocationURL, name) {
			return true
		}
	}
	return false
}
