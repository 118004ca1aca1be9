package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/portfolio-site/backend/internal/auth"
	"github.com/portfolio-site/backend/internal/models"
	"go.uber.org/zap"
)

// MediaRepository is the interface that wraps methods for the per-kind media tables
type MediaRepository interface {
	// Method Create inserts "item" into the table of its kind.
	//
	// Empty ID and CreatedAt fields are generated and written back to "item".
	// If the kind does not support thumbnails and IsThumbnail is set, models.ErrThumbnailUnsupported will be returned.
	Create(ctx context.Context, item *models.MediaItem) error
	// Method GetByID retrieves a media item of "kind" by its ID.
	//
	// If the item does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, kind models.MediaKind, id string) (*models.MediaItem, error)
	// Method Delete removes a media item by its ID.
	//
	// If the item does not exist, models.ErrNotFound will be returned.
	Delete(ctx context.Context, kind models.MediaKind, id string) error
	// Method UpdateOrder sets the display order of a media item.
	//
	// Please reference Delete method for more information about error values.
	UpdateOrder(ctx context.Context, kind models.MediaKind, id string, order int) error
	// Method UpdateMetadata applies the non-nil fields of "patch" to a media item.
	//
	// An empty patch is a no-op. Please reference Delete method for more information about error values.
	UpdateMetadata(ctx context.Context, kind models.MediaKind, id string, patch models.MetadataPatch) error
	// Method ListThumbnailIDs returns the IDs of all items of "kind" in the project flagged as thumbnail, except "exceptID".
	ListThumbnailIDs(ctx context.Context, kind models.MediaKind, projectID, exceptID string) ([]string, error)
	// Method ListByProject reads the three media collections of a project, each sorted by display order.
	ListByProject(ctx context.Context, projectID string) (*models.ProjectMedia, error)
}

// URLInvalidator drops cached retrieval URLs of deleted items
type URLInvalidator interface {
	InvalidateURL(ctx context.Context, rawURL string) error
}

// CatalogObserver receives catalog call telemetry
type CatalogObserver interface {
	RecordCatalogOp(op, kind string, duration time.Duration, err error)
}

type catalogService struct {
	repo        MediaRepository
	invalidator URLInvalidator
	observer    CatalogObserver
	logger      *zap.Logger
}

// NewCatalogService creates a new media catalog
func NewCatalogService(repo MediaRepository, invalidator URLInvalidator, observer CatalogObserver, logger *zap.Logger) *catalogService {
	return &catalogService{
		repo:        repo,
		invalidator: invalidator,
		observer:    observer,
		logger:      logger,
	}
}

func (s *catalogService) record(op string, kind models.MediaKind, start time.Time, err error) {
	s.observer.RecordCatalogOp(op, string(kind), time.Since(start), err)
}

// checkKind validates the kind and that thumbnail is only requested where supported
func checkKind(kind models.MediaKind, wantsThumbnail bool) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", models.ErrInvalidKind, kind)
	}
	if wantsThumbnail && !kind.SupportsThumbnail() {
		return models.ErrThumbnailUnsupported
	}
	return nil
}

// Add persists a new media item.
//
// When the item is flagged as thumbnail, every other thumbnail of the same kind and project
// is cleared first, best effort.
func (s *catalogService) Add(ctx context.Context, actingAs *auth.Session, item models.MediaItem) (*models.MediaItem, error) {
	if actingAs == nil {
		return nil, models.ErrNotAuthorized
	}
	if err := checkKind(item.Kind, item.IsThumbnail); err != nil {
		return nil, err
	}

	if item.IsThumbnail {
		s.clearPeerThumbnails(ctx, item.Kind, item.ProjectID, item.ID)
	}

	start := time.Now()
	err := s.repo.Create(ctx, &item)
	s.record("add", item.Kind, start, err)
	if err != nil {
		return nil, &models.PersistenceError{Op: "add", Err: err}
	}

	return &item, nil
}

// Remove deletes a persisted media item and invalidates its cached retrieval URL.
// The caller must have obtained the owner's confirmation beforehand.
func (s *catalogService) Remove(ctx context.Context, actingAs *auth.Session, kind models.MediaKind, id string) error {
	if actingAs == nil {
		return models.ErrNotAuthorized
	}
	if err := checkKind(kind, false); err != nil {
		return err
	}

	start := time.Now()
	item, err := s.repo.GetByID(ctx, kind, id)
	if err == nil {
		err = s.repo.Delete(ctx, kind, id)
	}
	s.record("remove", kind, start, err)
	if err != nil {
		return &models.PersistenceError{Op: "remove", Err: err}
	}

	if err := s.invalidator.InvalidateURL(ctx, item.LocationURL); err != nil {
		s.logger.Warn("failed to invalidate cached url of removed item",
			zap.Error(err),
			zap.String("id", id),
		)
	}

	s.logger.Info("media item removed", zap.String("kind", string(kind)), zap.String("id", id))
	return nil
}

// Reorder sets the display order of one item
func (s *catalogService) Reorder(ctx context.Context, actingAs *auth.Session, kind models.MediaKind, id string, newOrder int) error {
	if actingAs == nil {
		return models.ErrNotAuthorized
	}
	if err := checkKind(kind, false); err != nil {
		return err
	}

	start := time.Now()
	err := s.repo.UpdateOrder(ctx, kind, id, newOrder)
	s.record("reorder", kind, start, err)
	if err != nil {
		return &models.PersistenceError{Op: "reorder", Err: err}
	}
	return nil
}

// Swap exchanges the display orders of two items with two separate Reorder calls.
//
// There is no transaction around the pair: if the second call fails both items keep the
// same order until the next reload sorts it out.
func (s *catalogService) Swap(ctx context.Context, actingAs *auth.Session, kind models.MediaKind, a, b models.MediaItem) error {
	if err := s.Reorder(ctx, actingAs, kind, a.ID, b.DisplayOrder); err != nil {
		return err
	}
	if err := s.Reorder(ctx, actingAs, kind, b.ID, a.DisplayOrder); err != nil {
		s.logger.Warn("swap left a duplicate display order",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("first", a.ID),
			zap.String("second", b.ID),
			zap.Int("order", b.DisplayOrder),
		)
		return err
	}
	return nil
}

// UpdateMetadata applies a partial metadata update.
//
// Setting IsThumbnail to true first clears the flag on every other item of the same kind
// and project, one update at a time; a peer that cannot be cleared is logged and skipped.
func (s *catalogService) UpdateMetadata(ctx context.Context, actingAs *auth.Session, kind models.MediaKind, id string, patch models.MetadataPatch) error {
	if actingAs == nil {
		return models.ErrNotAuthorized
	}
	if err := checkKind(kind, patch.IsThumbnail != nil); err != nil {
		return err
	}

	start := time.Now()
	if patch.IsThumbnail != nil && *patch.IsThumbnail {
		item, err := s.repo.GetByID(ctx, kind, id)
		if err != nil {
			s.record("update", kind, start, err)
			return &models.PersistenceError{Op: "update", Err: err}
		}
		s.clearPeerThumbnails(ctx, kind, item.ProjectID, id)
	}

	err := s.repo.UpdateMetadata(ctx, kind, id, patch)
	s.record("update", kind, start, err)
	if err != nil {
		return &models.PersistenceError{Op: "update", Err: err}
	}
	return nil
}

// ListByProject reads a project's media, each collection sorted by display order
func (s *catalogService) ListByProject(ctx context.Context, projectID string) (*models.ProjectMedia, error) {
	start := time.Now()
	media, err := s.repo.ListByProject(ctx, projectID)
	s.record("list", "", start, err)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list", Err: err}
	}
	return media, nil
}

// clearPeerThumbnails unsets the thumbnail flag on every other item, logging failures
func (s *catalogService) clearPeerThumbnails(ctx context.Context, kind models.MediaKind, projectID, exceptID string) {
	ids, err := s.repo.ListThumbnailIDs(ctx, kind, projectID, exceptID)
	if err != nil {
		s.logger.Warn("failed to list current thumbnails", zap.Error(err), zap.String("project_id", projectID))
		return
	}

	clear := false
	for _, id := range ids {
		err := s.repo.UpdateMetadata(ctx, kind, id, models.MetadataPatch{IsThumbnail: &clear})
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("failed to clear thumbnail flag",
				zap.Error(err),
				zap.String("kind", string(kind)),
				zap.String("id", id),
			)
		}
	}
}
