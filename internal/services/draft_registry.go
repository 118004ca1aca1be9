package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-site/backend/internal/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Draft is a server-held staging session
type Draft struct {
	ID        string
	Manager   *StagingManager
	CreatedAt time.Time
	lastUsed  time.Time
}

// DraftRegistry keeps staging managers between requests and evicts idle ones
type DraftRegistry struct {
	catalog       Catalog
	uploader      Uploader
	concurrency   int
	ttl           time.Duration
	previewPrefix string
	logger        *zap.Logger
	now           func() time.Time

	mu     sync.Mutex
	drafts map[string]*Draft
}

// NewDraftRegistry creates a new draft registry.
// previewPrefix is the route under which draft item previews are served, e.g. /api/v1/drafts.
func NewDraftRegistry(catalog Catalog, uploader Uploader, concurrency int, ttl time.Duration, previewPrefix string, logger *zap.Logger) *DraftRegistry {
	return &DraftRegistry{
		catalog:       catalog,
		uploader:      uploader,
		concurrency:   concurrency,
		ttl:           ttl,
		previewPrefix: previewPrefix,
		logger:        logger,
		now:           time.Now,
		drafts:        make(map[string]*Draft),
	}
}

// Create opens a draft for one kind. With a projectID the draft starts from the project's
// persisted items of that kind; without one it starts empty and stages uploads under temp.
func (r *DraftRegistry) Create(ctx context.Context, kind models.MediaKind, projectID string) (*Draft, error) {
	manager, err := NewStagingManager(kind, projectID, r.catalog, r.uploader, r.concurrency, r.logger)
	if err != nil {
		return nil, err
	}

	if projectID != "" {
		media, err := r.catalog.ListByProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		manager.Load(media.ByKind(kind))
	}

	now := r.now()
	draft := &Draft{
		ID:        uuid.New().String(),
		Manager:   manager,
		CreatedAt: now,
		lastUsed:  now,
	}
	manager.SetPreviewURL(func(key string) string {
		return fmt.Sprintf("%s/%s/items/%s/preview", r.previewPrefix, draft.ID, key)
	})

	r.mu.Lock()
	r.drafts[draft.ID] = draft
	r.mu.Unlock()

	r.logger.Info("draft created",
		zap.String("draft_id", draft.ID),
		zap.String("kind", string(kind)),
		zap.String("project_id", projectID),
	)
	return draft, nil
}

// Get returns a draft and marks it as used
func (r *DraftRegistry) Get(id string) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft, ok := r.drafts[id]
	if !ok {
		return nil, models.ErrDraftNotFound
	}
	draft.lastUsed = r.now()
	return draft, nil
}

// Discard drops a draft; uploads still running finish in the background
func (r *DraftRegistry) Discard(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drafts[id]; !ok {
		return models.ErrDraftNotFound
	}
	delete(r.drafts, id)
	return nil
}

// Sweep evicts drafts idle for longer than the TTL and returns how many were dropped
func (r *DraftRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, draft := range r.drafts {
		if draft.lastUsed.Before(cutoff) {
			delete(r.drafts, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.Info("evicted idle drafts", zap.Int("count", evicted))
	}
	return evicted
}

// ScheduleSweep registers idle draft eviction on the scheduler.
// spec is a standard cron expression or a descriptor such as "@every 1m".
func (r *DraftRegistry) ScheduleSweep(scheduler *cron.Cron, spec string) error {
	if _, err := scheduler.AddFunc(spec, func() { r.Sweep() }); err != nil {
		return fmt.Errorf("invalid draft sweep schedule %q: %w", spec, err)
	}
	return nil
}
