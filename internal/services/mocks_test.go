package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/portfolio-site/backend/internal/auth"
	"github.com/portfolio-site/backend/internal/models"
	"go.uber.org/zap"
)

var testSession = &auth.Session{Subject: "owner@example.com", TokenID: "test"}

// memoryRepository is an in-memory implementation of MediaRepository
type memoryRepository struct {
	mu      sync.Mutex
	seq     int
	items   map[string]models.MediaItem
	created []models.MediaItem

	// delays and failures injected by tests
	createDelay      time.Duration
	createErrByLabel map[string]error
	orderErrByID     map[string]error
	metadataErrByID  map[string]error
	deleteErr        error
	listErr          error
	thumbnailsErr    error
}

func newMemoryRepository(items ...models.MediaItem) *memoryRepository {
	repo := &memoryRepository{
		items:            make(map[string]models.MediaItem),
		createErrByLabel: make(map[string]error),
		orderErrByID:     make(map[string]error),
		metadataErrByID:  make(map[string]error),
	}
	for _, item := range items {
		repo.seq++
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Unix(int64(repo.seq), 0)
		}
		repo.items[item.ID] = item
	}
	return repo
}

func (r *memoryRepository) Create(ctx context.Context, item *models.MediaItem) error {
	if r.createDelay > 0 {
		time.Sleep(r.createDelay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.createErrByLabel[item.Metadata.Label(item.Kind)]; err != nil {
		return err
	}
	if item.IsThumbnail && !item.Kind.SupportsThumbnail() {
		return models.ErrThumbnailUnsupported
	}
	r.seq++
	if item.ID == "" {
		item.ID = fmt.Sprintf("%s-%d", item.Kind, r.seq)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Unix(int64(r.seq), 0)
	}
	r.items[item.ID] = *item
	r.created = append(r.created, *item)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, kind models.MediaKind, id string) (*models.MediaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok || item.Kind != kind {
		return nil, models.ErrNotFound
	}
	return &item, nil
}

func (r *memoryRepository) Delete(ctx context.Context, kind models.MediaKind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleteErr != nil {
		return r.deleteErr
	}
	if item, ok := r.items[id]; !ok || item.Kind != kind {
		return models.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRepository) UpdateOrder(ctx context.Context, kind models.MediaKind, id string, order int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.orderErrByID[id]; err != nil {
		return err
	}
	item, ok := r.items[id]
	if !ok || item.Kind != kind {
		return models.ErrNotFound
	}
	item.DisplayOrder = order
	r.items[id] = item
	return nil
}

func (r *memoryRepository) UpdateMetadata(ctx context.Context, kind models.MediaKind, id string, patch models.MetadataPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.metadataErrByID[id]; err != nil {
		return err
	}
	item, ok := r.items[id]
	if !ok || item.Kind != kind {
		return models.ErrNotFound
	}
	if kind == models.MediaKindImage && patch.AltText != nil {
		item.Metadata.AltText = *patch.AltText
	}
	if kind != models.MediaKindImage && patch.Title != nil {
		item.Metadata.Title = *patch.Title
	}
	if patch.IsThumbnail != nil {
		if !kind.SupportsThumbnail() {
			return models.ErrThumbnailUnsupported
		}
		item.IsThumbnail = *patch.IsThumbnail
	}
	r.items[id] = item
	return nil
}

func (r *memoryRepository) ListThumbnailIDs(ctx context.Context, kind models.MediaKind, projectID, exceptID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.thumbnailsErr != nil {
		return nil, r.thumbnailsErr
	}
	ids := []string{}
	for _, item := range r.sortedLocked() {
		if item.Kind == kind && item.ProjectID == projectID && item.IsThumbnail && item.ID != exceptID {
			ids = append(ids, item.ID)
		}
	}
	return ids, nil
}

func (r *memoryRepository) ListByProject(ctx context.Context, projectID string) (*models.ProjectMedia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}
	media := &models.ProjectMedia{
		Images: []models.MediaItem{},
		Audios: []models.MediaItem{},
		Videos: []models.MediaItem{},
	}
	for _, item := range r.sortedLocked() {
		if item.ProjectID == projectID {
			media.Append(item)
		}
	}
	return media, nil
}

// sortedLocked returns all items ordered like the SQL query does
func (r *memoryRepository) sortedLocked() []models.MediaItem {
	all := make([]models.MediaItem, 0, len(r.items))
	for _, item := range r.items {
		all = append(all, item)
	}
	slices.SortFunc(all, func(a, b models.MediaItem) int {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder - b.DisplayOrder
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return all
}

func (r *memoryRepository) get(id string) (models.MediaItem, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	return item, ok
}

func (r *memoryRepository) thumbnails(kind models.MediaKind, projectID string) []string {
	ids, _ := r.ListThumbnailIDs(context.Background(), kind, projectID, "")
	return ids
}

// mockInvalidator records invalidated URLs
type mockInvalidator struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (m *mockInvalidator) InvalidateURL(ctx context.Context, rawURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urls = append(m.urls, rawURL)
	return m.err
}

// nopObserver discards telemetry
type nopObserver struct{}

func (nopObserver) RecordCatalogOp(string, string, time.Duration, error) {}

func (nopObserver) RecordUpload(string, time.Duration, int64, error) {}

func (nopObserver) RecordURLCache(bool) {}

// mockUploader returns a signed-looking URL derived from the file name
type mockUploader struct {
	mu        sync.Mutex
	calls     []string
	failNames map[string]error
	block     chan struct{}
}

func (m *mockUploader) Upload(ctx context.Context, kind models.MediaKind, file models.CandidateFile, projectID string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, file.Name)
	err := m.failNames[file.Name]
	block := m.block
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return "", &models.UploadError{Name: file.Name, Err: err}
	}
	policy, _ := kind.Policy()
	folder := "temp"
	if projectID != "" {
		folder = "projects/" + projectID
	}
	return fmt.Sprintf("https://media.test/storage/v1/object/sign/%s/%s/%s?token=t", policy.Bucket, folder, file.Name), nil
}

func (m *mockUploader) setFailure(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNames == nil {
		m.failNames = make(map[string]error)
	}
	if err == nil {
		delete(m.failNames, name)
		return
	}
	m.failNames[name] = err
}

func newTestCatalog(repo *memoryRepository) (*catalogService, *mockInvalidator) {
	invalidator := &mockInvalidator{}
	return NewCatalogService(repo, invalidator, nopObserver{}, zap.NewNop()), invalidator
}

func imageFile(name string) models.CandidateFile {
	return models.CandidateFile{Name: name, ContentType: "image/png", Size: 4, Data: []byte("data")}
}

func audioFile(name string) models.CandidateFile {
	return models.CandidateFile{Name: name, ContentType: "audio/mpeg", Size: 4, Data: []byte("data")}
}

var errBackend = errors.New("backend unavailable")

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
