package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/portfolio-site/backend/internal/auth"
	"github.com/portfolio-site/backend/internal/models"
	"go.uber.org/zap"
)

// LiveManager edits the media of one kind of an existing project.
//
// Every action is written to the catalog immediately and followed by a full reload, so
// Items always reflects what the catalog holds once the action has settled.
type LiveManager struct {
	projectID string
	kind      models.MediaKind
	policy    models.KindPolicy
	catalog   Catalog
	uploader  Uploader
	logger    *zap.Logger

	mu    sync.Mutex
	items []models.MediaItem
}

// NewLiveManager creates a live manager bound to a project and kind
func NewLiveManager(projectID string, kind models.MediaKind, catalog Catalog, uploader Uploader, logger *zap.Logger) (*LiveManager, error) {
	policy, ok := kind.Policy()
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidKind, kind)
	}
	if projectID == "" {
		return nil, fmt.Errorf("project id is required")
	}

	return &LiveManager{
		projectID: projectID,
		kind:      kind,
		policy:    policy,
		catalog:   catalog,
		uploader:  uploader,
		logger:    logger,
		items:     []models.MediaItem{},
	}, nil
}

// Load reads the kind's collection from the catalog
func (m *LiveManager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(ctx)
}

// Items returns the collection as of the last reload
func (m *LiveManager) Items() []models.MediaItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items)
}

func (m *LiveManager) loadLocked(ctx context.Context) error {
	media, err := m.catalog.ListByProject(ctx, m.projectID)
	if err != nil {
		return err
	}
	m.items = slices.Clone(media.ByKind(m.kind))
	if m.items == nil {
		m.items = []models.MediaItem{}
	}
	return nil
}

// reloadLocked refreshes the list after a mutation; a failing reload keeps the previous list
func (m *LiveManager) reloadLocked(ctx context.Context) {
	if err := m.loadLocked(ctx); err != nil {
		m.logger.Warn("failed to reload media after change",
			zap.Error(err),
			zap.String("project_id", m.projectID),
			zap.String("kind", string(m.kind)),
		)
	}
}

// HandleFileSelect validates, uploads and adds each file in turn.
//
// Files are processed one at a time so each gets the display order following the previous
// one. The first item added to an empty collection of a kind with a default thumbnail becomes
// the thumbnail. A failing file is reported and the batch continues.
func (m *LiveManager) HandleFileSelect(ctx context.Context, actingAs *auth.Session, files []models.CandidateFile) (*models.BatchReport, error) {
	if actingAs == nil {
		return nil, models.ErrNotAuthorized
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	report := &models.BatchReport{
		Added:  []models.MediaItem{},
		Errors: []models.ItemError{},
	}
	current := slices.Clone(m.items)

	for i, file := range files {
		if err := ValidateFile(m.kind, file); err != nil {
			report.Errors = append(report.Errors, models.ItemError{Name: file.Name, Index: i, Err: err})
			continue
		}

		url, err := m.uploader.Upload(ctx, m.kind, file, m.projectID)
		if err != nil {
			report.Errors = append(report.Errors, models.ItemError{Name: file.Name, Index: i, Err: err})
			continue
		}

		item := models.MediaItem{
			ProjectID:    m.projectID,
			Kind:         m.kind,
			LocationURL:  url,
			DisplayOrder: maxOrder(current) + 1,
			Metadata:     models.MetadataWithLabel(m.kind, file.Name),
			IsThumbnail:  m.policy.DefaultThumbnail && len(current) == 0,
		}

		added, err := m.catalog.Add(ctx, actingAs, item)
		if err != nil {
			report.Errors = append(report.Errors, models.ItemError{Name: file.Name, Index: i, Err: err})
			continue
		}
		current = append(current, *added)
		report.Added = append(report.Added, *added)
	}

	m.reloadLocked(ctx)
	return report, nil
}

// Delete removes an item after the owner confirmed it, then reloads
func (m *LiveManager) Delete(ctx context.Context, actingAs *auth.Session, id string, confirmed bool) error {
	if actingAs == nil {
		return models.ErrNotAuthorized
	}
	if !confirmed {
		return models.ErrNotConfirmed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexLocked(id) < 0 {
		return models.ErrNotFound
	}

	err := m.catalog.Remove(ctx, actingAs, m.kind, id)
	m.reloadLocked(ctx)
	return err
}

// Reorder swaps the item at index with its neighbour in the given direction, then reloads.
// Moving past either end is a no-op.
func (m *LiveManager) Reorder(ctx context.Context, actingAs *auth.Session, index int, direction models.Direction) error {
	if actingAs == nil {
		return models.ErrNotAuthorized
	}
	if !direction.IsValid() {
		return models.ErrInvalidDirection
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.items) {
		return models.ErrIndexOutOfRange
	}
	target := index - 1
	if direction == models.DirectionDown {
		target = index + 1
	}
	if target < 0 || target >= len(m.items) {
		return nil
	}

	err := m.catalog.Swap(ctx, actingAs, m.kind, m.items[index], m.items[target])
	m.reloadLocked(ctx)
	return err
}

// UpdateMetadata applies a partial metadata update to an item, then reloads
func (m *LiveManager) UpdateMetadata(ctx context.Context, actingAs *auth.Session, id string, patch models.MetadataPatch) error {
	if actingAs == nil {
		return models.ErrNotAuthorized
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexLocked(id) < 0 {
		return models.ErrNotFound
	}

	err := m.catalog.UpdateMetadata(ctx, actingAs, m.kind, id, patch)
	m.reloadLocked(ctx)
	return err
}

func (m *LiveManager) indexLocked(id string) int {
	return slices.IndexFunc(m.items, func(item models.MediaItem) bool { return item.ID == id })
}

func maxOrder(items []models.MediaItem) int {
	highest := 0
	for _, item := range items {
		highest = max(highest, item.DisplayOrder)
	}
	return highest
}
