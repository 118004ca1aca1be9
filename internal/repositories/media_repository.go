package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-site/backend/internal/models"
	"go.uber.org/zap"
)

type mediaRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMediaRepository creates a new media repository over the three per-kind tables
func NewMediaRepository(db *sql.DB, logger *zap.Logger) *mediaRepository {
	return &mediaRepository{
		db:     db,
		logger: logger,
	}
}

func policyFor(kind models.MediaKind) (models.KindPolicy, error) {
	policy, ok := kind.Policy()
	if !ok {
		return models.KindPolicy{}, fmt.Errorf("%w: %s", models.ErrInvalidKind, kind)
	}
	return policy, nil
}

// thumbnailColumn returns the column expression selecting the thumbnail flag
func thumbnailColumn(policy models.KindPolicy) string {
	if policy.SupportsThumbnail {
		return "is_thumbnail"
	}
	return "FALSE"
}

// Create inserts a media item into the table of its kind.
// ID and CreatedAt are generated when empty.
func (r *mediaRepository) Create(ctx context.Context, item *models.MediaItem) error {
	policy, err := policyFor(item.Kind)
	if err != nil {
		return err
	}
	if item.IsThumbnail && !policy.SupportsThumbnail {
		return models.ErrThumbnailUnsupported
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	columns := []string{"id", "project_id", policy.URLColumn, policy.LabelColumn, "display_order", "created_at"}
	args := []any{item.ID, item.ProjectID, item.LocationURL, item.Metadata.Label(item.Kind), item.DisplayOrder, item.CreatedAt}
	if policy.SupportsThumbnail {
		columns = append(columns, "is_thumbnail")
		args = append(args, item.IsThumbnail)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		policy.Table,
		strings.Join(columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "),
	)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to insert media item", zap.Error(err), zap.String("kind", string(item.Kind)))
		return fmt.Errorf("failed to insert media item: %w", err)
	}

	return nil
}

// GetByID retrieves a media item of the given kind by its ID
func (r *mediaRepository) GetByID(ctx context.Context, kind models.MediaKind, id string) (*models.MediaItem, error) {
	policy, err := policyFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, project_id, %s, %s, display_order, %s, created_at
		FROM %s
		WHERE id = ?
	`, policy.URLColumn, policy.LabelColumn, thumbnailColumn(policy), policy.Table)

	item := models.MediaItem{Kind: kind}
	var label sql.NullString
	err = r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.ProjectID,
		&item.LocationURL,
		&label,
		&item.DisplayOrder,
		&item.IsThumbnail,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("failed to query media item by id", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to query media item: %w", err)
	}
	item.Metadata = models.MetadataWithLabel(kind, label.String)

	return &item, nil
}

// Delete removes a media item by its ID
func (r *mediaRepository) Delete(ctx context.Context, kind models.MediaKind, id string) error {
	policy, err := policyFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", policy.Table)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete media item", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to delete media item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpdateOrder sets the display order of a media item
func (r *mediaRepository) UpdateOrder(ctx context.Context, kind models.MediaKind, id string, order int) error {
	policy, err := policyFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE %s SET display_order = ? WHERE id = ?", policy.Table)

	result, err := r.db.ExecContext(ctx, query, order, id)
	if err != nil {
		r.logger.Error("failed to update display order", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to update display order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpdateMetadata applies a partial metadata update.
// Only the label field that applies to the kind is written; the other one is ignored.
func (r *mediaRepository) UpdateMetadata(ctx context.Context, kind models.MediaKind, id string, patch models.MetadataPatch) error {
	policy, err := policyFor(kind)
	if err != nil {
		return err
	}

	// Build dynamic update query
	var setParts []string
	var args []any

	label := patch.Title
	if kind == models.MediaKindImage {
		label = patch.AltText
	}
	if label != nil {
		setParts = append(setParts, policy.LabelColumn+" = ?")
		args = append(args, *label)
	}
	if patch.IsThumbnail != nil {
		if !policy.SupportsThumbnail {
			return models.ErrThumbnailUnsupported
		}
		setParts = append(setParts, "is_thumbnail = ?")
		args = append(args, *patch.IsThumbnail)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", policy.Table, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update media metadata", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to update media metadata: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ListThumbnailIDs returns the IDs of the project's items of the kind that carry the thumbnail flag, excluding exceptID
func (r *mediaRepository) ListThumbnailIDs(ctx context.Context, kind models.MediaKind, projectID, exceptID string) ([]string, error) {
	policy, err := policyFor(kind)
	if err != nil {
		return nil, err
	}
	if !policy.SupportsThumbnail {
		return []string{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE project_id = ? AND is_thumbnail = TRUE AND id != ?
		ORDER BY display_order
	`, policy.Table)

	rows, err := r.db.QueryContext(ctx, query, projectID, exceptID)
	if err != nil {
		r.logger.Error("failed to query thumbnails", zap.Error(err), zap.String("project_id", projectID))
		return nil, fmt.Errorf("failed to query thumbnails: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan thumbnail id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}

// ListByProject reads the three collections of a project in one query, each sorted by display order
func (r *mediaRepository) ListByProject(ctx context.Context, projectID string) (*models.ProjectMedia, error) {
	kinds := models.AllKinds()
	selects := make([]string, 0, len(kinds))
	args := make([]any, 0, len(kinds))
	for _, kind := range kinds {
		policy, _ := kind.Policy()
		selects = append(selects, fmt.Sprintf(
			"SELECT '%s' AS kind, id, project_id, %s AS url, %s AS label, display_order, %s AS is_thumbnail, created_at FROM %s WHERE project_id = ?",
			kind, policy.URLColumn, policy.LabelColumn, thumbnailColumn(policy), policy.Table,
		))
		args = append(args, projectID)
	}
	query := strings.Join(selects, " UNION ALL ") + " ORDER BY display_order, created_at, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query project media", zap.Error(err), zap.String("project_id", projectID))
		return nil, fmt.Errorf("failed to query project media: %w", err)
	}
	defer rows.Close()

	media := &models.ProjectMedia{
		Images: []models.MediaItem{},
		Audios: []models.MediaItem{},
		Videos: []models.MediaItem{},
	}
	for rows.Next() {
		var item models.MediaItem
		var kind string
		var label sql.NullString
		if err := rows.Scan(&kind, &item.ID, &item.ProjectID, &item.LocationURL, &label, &item.DisplayOrder, &item.IsThumbnail, &item.CreatedAt); err != nil {
			r.logger.Error("failed to scan media item", zap.Error(err))
			return nil, fmt.Errorf("failed to scan media item: %w", err)
		}
		item.Kind = models.MediaKind(kind)
		item.Metadata = models.MetadataWithLabel(item.Kind, label.String)
		media.Append(item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return media, nil
}
