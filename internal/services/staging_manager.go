package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/portfolio-site/backend/internal/auth"
	"github.com/portfolio-site/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Catalog is the interface that wraps the media catalog operations used by the media managers
type Catalog interface {
	// Method Add persists a new media item and returns it with its ID and creation time set.
	//
	// A nil "actingAs" fails with models.ErrNotAuthorized. Backend failures are returned as *models.PersistenceError.
	Add(ctx context.Context, actingAs *auth.Session, item models.MediaItem) (*models.MediaItem, error)
	// Method Remove deletes a persisted media item.
	//
	// The caller must obtain the owner's confirmation before calling it.
	// Please reference Add method for more information about error values.
	Remove(ctx context.Context, actingAs *auth.Session, kind models.MediaKind, id string) error
	// Method Reorder sets the display order of a single item.
	Reorder(ctx context.Context, actingAs *auth.Session, kind models.MediaKind, id string, newOrder int) error
	// Method Swap exchanges the display orders of two items with two separate Reorder calls.
	Swap(ctx context.Context, actingAs *auth.Session, kind models.MediaKind, a, b models.MediaItem) error
	// Method UpdateMetadata applies a partial metadata update, keeping at most one thumbnail per kind and project.
	UpdateMetadata(ctx context.Context, actingAs *auth.Session, kind models.MediaKind, id string, patch models.MetadataPatch) error
	// Method ListByProject reads a project's three media collections, each sorted by display order.
	ListByProject(ctx context.Context, projectID string) (*models.ProjectMedia, error)
}

// Uploader is the interface that wraps the blob upload used by the media managers
type Uploader interface {
	// Method Upload stores a validated file and returns its retrieval URL.
	//
	// Failures are returned as *models.UploadError.
	Upload(ctx context.Context, kind models.MediaKind, file models.CandidateFile, projectID string) (string, error)
}

// ConfirmFunc asks the owner to confirm the deletion of a persisted item
type ConfirmFunc func(item models.StagedMediaItem) bool

// StagingManager holds the draft list of one media kind for a project form.
//
// Edits are local until Commit. Uploads start as soon as files are accepted and run
// in the background; each completion updates only its own item, found by Key.
type StagingManager struct {
	kind       models.MediaKind
	projectID  string
	catalog    Catalog
	uploader   Uploader
	logger     *zap.Logger
	previewURL func(key string) string

	uploads  *errgroup.Group
	inflight sync.WaitGroup

	// commitMu serializes commits so a Ready item is added at most once
	commitMu sync.Mutex

	mu     sync.Mutex
	items  []models.StagedMediaItem
	loaded map[string]models.MediaItem
}

type uploadJob struct {
	key  string
	file models.CandidateFile
}

// NewStagingManager creates a staging manager for one kind.
// An empty projectID stages uploads under the temp folder.
func NewStagingManager(kind models.MediaKind, projectID string, catalog Catalog, uploader Uploader, concurrency int, logger *zap.Logger) (*StagingManager, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidKind, kind)
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	uploads := &errgroup.Group{}
	uploads.SetLimit(concurrency)

	return &StagingManager{
		kind:      kind,
		projectID: projectID,
		catalog:   catalog,
		uploader:  uploader,
		logger:    logger,
		uploads:   uploads,
		items:     []models.StagedMediaItem{},
		loaded:    make(map[string]models.MediaItem),
	}, nil
}

// Kind returns the media kind the manager stages
func (m *StagingManager) Kind() models.MediaKind {
	return m.kind
}

// ProjectID returns the project the draft belongs to, empty for a new project
func (m *StagingManager) ProjectID() string {
	return m.projectID
}

// SetPreviewURL sets the function building the preview URL of an item still being uploaded
func (m *StagingManager) SetPreviewURL(fn func(key string) string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.previewURL = fn
}

// Load replaces the list with already persisted items, sorted by display order
func (m *StagingManager) Load(items []models.MediaItem) {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b models.MediaItem) int { return a.DisplayOrder - b.DisplayOrder })

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make([]models.StagedMediaItem, 0, len(sorted))
	m.loaded = make(map[string]models.MediaItem, len(sorted))
	for _, item := range sorted {
		m.items = append(m.items, models.StagedMediaItem{
			MediaItem:   item,
			Key:         uuid.New().String(),
			UploadState: models.UploadStateReady,
		})
		m.loaded[item.ID] = item
	}
}

// Items returns a copy of the current list
func (m *StagingManager) Items() []models.StagedMediaItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items)
}

// Preview returns the local bytes of an item whose upload has not completed yet
func (m *StagingManager) Preview(key string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(key)
	if idx < 0 || m.items[idx].SourceBytes == nil {
		return nil, "", false
	}
	return m.items[idx].SourceBytes, m.items[idx].ContentType, true
}

// AcceptFiles validates each file and stages the valid ones, starting their uploads.
//
// Accepted files are appended after the current highest display order, in the order given.
// Validation failures are returned per file and do not affect the other files.
func (m *StagingManager) AcceptFiles(ctx context.Context, files []models.CandidateFile) ([]models.StagedMediaItem, []models.ItemError) {
	accepted := []models.StagedMediaItem{}
	rejected := []models.ItemError{}
	jobs := make([]uploadJob, 0, len(files))

	m.mu.Lock()
	base := maxStagedOrder(m.items)
	for i, file := range files {
		if err := ValidateFile(m.kind, file); err != nil {
			rejected = append(rejected, models.ItemError{Name: file.Name, Index: i, Err: err})
			continue
		}

		key := uuid.New().String()
		item := models.StagedMediaItem{
			MediaItem: models.MediaItem{
				ProjectID:    m.projectID,
				Kind:         m.kind,
				DisplayOrder: base + 1 + len(accepted),
				Metadata:     models.MetadataWithLabel(m.kind, file.Name),
			},
			Key:         key,
			UploadState: models.UploadStatePending,
			SourceName:  file.Name,
			ContentType: file.ContentType,
			SourceBytes: file.Data,
		}
		if m.previewURL != nil {
			item.LocalPreviewURL = m.previewURL(key)
			item.LocationURL = item.LocalPreviewURL
		}

		m.items = append(m.items, item)
		accepted = append(accepted, item)
		jobs = append(jobs, uploadJob{key: key, file: file})
	}
	m.mu.Unlock()

	m.startUploads(context.WithoutCancel(ctx), jobs)

	return accepted, rejected
}

// Retry restarts the upload of a failed item
func (m *StagingManager) Retry(ctx context.Context, index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.items) {
		m.mu.Unlock()
		return models.ErrIndexOutOfRange
	}
	item := &m.items[index]
	if item.UploadState != models.UploadStateFailed || item.SourceBytes == nil {
		m.mu.Unlock()
		return fmt.Errorf("item %d is not a failed upload", index)
	}
	item.UploadState = models.UploadStatePending
	item.FailureReason = ""
	job := uploadJob{
		key: item.Key,
		file: models.CandidateFile{
			Name:        item.SourceName,
			ContentType: item.ContentType,
			Size:        int64(len(item.SourceBytes)),
			Data:        item.SourceBytes,
		},
	}
	m.mu.Unlock()

	m.startUploads(context.WithoutCancel(ctx), []uploadJob{job})
	return nil
}

// Wait blocks until every started upload has settled
func (m *StagingManager) Wait() {
	m.inflight.Wait()
}

func (m *StagingManager) startUploads(ctx context.Context, jobs []uploadJob) {
	if len(jobs) == 0 {
		return
	}
	m.inflight.Add(len(jobs))
	// Go blocks once the pool is full, so jobs are handed over off the caller's goroutine
	go func() {
		for _, job := range jobs {
			job := job
			m.uploads.Go(func() error {
				defer m.inflight.Done()
				m.runUpload(ctx, job)
				return nil
			})
		}
	}()
}

func (m *StagingManager) runUpload(ctx context.Context, job uploadJob) {
	if !m.setUploading(job.key) {
		return
	}

	url, err := m.uploader.Upload(ctx, m.kind, job.file, m.projectID)

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(job.key)
	if idx < 0 {
		return
	}
	item := &m.items[idx]
	if err != nil {
		item.UploadState = models.UploadStateFailed
		item.FailureReason = err.Error()
		m.logger.Warn("staged upload failed", zap.Error(err), zap.String("name", job.file.Name))
		return
	}

	item.UploadState = models.UploadStateReady
	item.LocationURL = url
	item.LocalPreviewURL = ""
	item.SourceBytes = nil
	item.FailureReason = ""
}

func (m *StagingManager) setUploading(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexLocked(key)
	if idx < 0 {
		return false
	}
	m.items[idx].UploadState = models.UploadStateUploading
	return true
}

// Remove drops the item at index and renumbers the rest 1..N.
//
// A persisted item needs confirmation and is deleted from the catalog first; if that fails
// the list is left untouched. Items whose upload has not settled cannot be removed.
func (m *StagingManager) Remove(ctx context.Context, actingAs *auth.Session, index int, confirm ConfirmFunc) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.items) {
		m.mu.Unlock()
		return models.ErrIndexOutOfRange
	}
	item := m.items[index]
	if !item.UploadState.IsSettled() {
		m.mu.Unlock()
		return models.ErrUploadInProgress
	}
	if !item.IsPersisted() {
		m.removeLocked(index)
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	if actingAs == nil {
		return models.ErrNotAuthorized
	}
	if confirm == nil || !confirm(item) {
		return models.ErrNotConfirmed
	}

	if err := m.catalog.Remove(ctx, actingAs, m.kind, item.ID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if idx := m.indexLocked(item.Key); idx >= 0 {
		m.removeLocked(idx)
	}
	delete(m.loaded, item.ID)
	return nil
}

// Reorder moves the item at index one step and renumbers the list 1..N.
// Moving past either end is a no-op.
func (m *StagingManager) Reorder(index int, direction models.Direction) error {
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

	m.items[index], m.items[target] = m.items[target], m.items[index]
	m.renumberLocked()
	return nil
}

// SetMetadata updates the item at index locally.
// Flagging an item as thumbnail clears the flag on every other item of the list.
func (m *StagingManager) SetMetadata(index int, patch models.MetadataPatch) error {
	if patch.IsThumbnail != nil && !m.kind.SupportsThumbnail() {
		return models.ErrThumbnailUnsupported
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.items) {
		return models.ErrIndexOutOfRange
	}

	item := &m.items[index]
	if m.kind == models.MediaKindImage && patch.AltText != nil {
		item.Metadata.AltText = *patch.AltText
	}
	if m.kind != models.MediaKindImage && patch.Title != nil {
		item.Metadata.Title = *patch.Title
	}
	if patch.IsThumbnail != nil {
		item.IsThumbnail = *patch.IsThumbnail
		if *patch.IsThumbnail {
			for i := range m.items {
				if i != index {
					m.items[i].IsThumbnail = false
				}
			}
		}
	}
	return nil
}

// Commit persists the draft.
//
// Ready items that were never persisted are added to the catalog and become persisted in place.
// Persisted items whose order or metadata changed since they were loaded are written back.
// Failed items are reported as errors and Pending or Uploading ones are skipped; neither is
// ever added. A failing item does not stop the remaining ones. Concurrent commits run one
// after the other. A draft bound to a project cannot be committed to another one.
func (m *StagingManager) Commit(ctx context.Context, actingAs *auth.Session, projectID string) (*models.CommitReport, error) {
	if actingAs == nil {
		return nil, models.ErrNotAuthorized
	}
	if projectID == "" {
		projectID = m.projectID
	}
	if projectID == "" {
		return nil, errors.New("project id is required to commit")
	}
	if m.projectID != "" && projectID != m.projectID {
		return nil, fmt.Errorf("%w: draft belongs to %q", models.ErrProjectMismatch, m.projectID)
	}

	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	m.mu.Lock()
	snapshot := slices.Clone(m.items)
	m.mu.Unlock()

	report := &models.CommitReport{
		Persisted: []models.MediaItem{},
		Errors:    []models.ItemError{},
	}

	for i, item := range snapshot {
		if item.IsPersisted() {
			m.commitExisting(ctx, actingAs, i, item, report)
			continue
		}

		switch item.UploadState {
		case models.UploadStateReady:
			toAdd := item.MediaItem
			toAdd.ProjectID = projectID
			toAdd.Kind = m.kind

			added, err := m.catalog.Add(ctx, actingAs, toAdd)
			if err != nil {
				report.Errors = append(report.Errors, models.ItemError{Name: displayName(item), Index: i, Err: err})
				continue
			}
			m.markPersisted(item.Key, *added)
			report.Persisted = append(report.Persisted, *added)
		case models.UploadStateFailed:
			report.Errors = append(report.Errors, models.ItemError{
				Name:  displayName(item),
				Index: i,
				Err:   &models.UploadError{Name: item.SourceName, Err: errors.New(item.FailureReason)},
			})
		default:
			report.Skipped++
		}
	}

	m.logger.Info("draft committed",
		zap.String("project_id", projectID),
		zap.String("kind", string(m.kind)),
		zap.Int("persisted", len(report.Persisted)),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", len(report.Errors)),
	)
	return report, nil
}

// commitExisting writes back the changes made to an already persisted item
func (m *StagingManager) commitExisting(ctx context.Context, actingAs *auth.Session, index int, item models.StagedMediaItem, report *models.CommitReport) {
	m.mu.Lock()
	base, ok := m.loaded[item.ID]
	m.mu.Unlock()
	if !ok {
		return
	}

	changed := false
	if item.DisplayOrder != base.DisplayOrder {
		if err := m.catalog.Reorder(ctx, actingAs, m.kind, item.ID, item.DisplayOrder); err != nil {
			report.Errors = append(report.Errors, models.ItemError{Name: displayName(item), Index: index, Err: err})
			return
		}
		base.DisplayOrder = item.DisplayOrder
		changed = true
	}

	var patch models.MetadataPatch
	if label := item.Metadata.Label(m.kind); label != base.Metadata.Label(m.kind) {
		if m.kind == models.MediaKindImage {
			patch.AltText = &label
		} else {
			patch.Title = &label
		}
	}
	if m.kind.SupportsThumbnail() && item.IsThumbnail != base.IsThumbnail {
		thumbnail := item.IsThumbnail
		patch.IsThumbnail = &thumbnail
	}
	if !patch.IsEmpty() {
		err := m.catalog.UpdateMetadata(ctx, actingAs, m.kind, item.ID, patch)
		if err != nil {
			report.Errors = append(report.Errors, models.ItemError{Name: displayName(item), Index: index, Err: err})
		} else {
			base.Metadata = item.Metadata
			base.IsThumbnail = item.IsThumbnail
			changed = true
		}
	}

	m.mu.Lock()
	m.loaded[item.ID] = base
	m.mu.Unlock()
	if changed {
		report.Updated++
	}
}

func (m *StagingManager) markPersisted(key string, added models.MediaItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loaded[added.ID] = added
	idx := m.indexLocked(key)
	if idx < 0 {
		return
	}
	item := &m.items[idx]
	item.ID = added.ID
	item.ProjectID = added.ProjectID
	item.CreatedAt = added.CreatedAt
	item.LocalPreviewURL = ""
	item.SourceBytes = nil
	// Local edits made while the commit was running are kept and written back on the next commit
	if item.DisplayOrder == added.DisplayOrder && item.Metadata == added.Metadata && item.IsThumbnail == added.IsThumbnail {
		item.MediaItem = added
	}
}

func (m *StagingManager) indexLocked(key string) int {
	return slices.IndexFunc(m.items, func(item models.StagedMediaItem) bool { return item.Key == key })
}

func (m *StagingManager) removeLocked(index int) {
	m.items = slices.Delete(m.items, index, index+1)
	m.renumberLocked()
}

// renumberLocked sets display orders to 1..N following list position
func (m *StagingManager) renumberLocked() {
	for i := range m.items {
		m.items[i].DisplayOrder = i + 1
	}
}

func maxStagedOrder(items []models.StagedMediaItem) int {
	highest := 0
	for _, item := range items {
		highest = max(highest, item.DisplayOrder)
	}
	return highest
}

func displayName(item models.StagedMediaItem) string {
	if item.SourceName != "" {
		return item.SourceName
	}
	if label := item.Metadata.Label(item.Kind); label != "" {
		return label
	}
	return item.ID
}
