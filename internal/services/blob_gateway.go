package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/portfolio-site/backend/internal/models"
	"github.com/portfolio-site/backend/internal/storage"
	"go.uber.org/zap"
)

// ObjectStore is the interface that wraps methods for blob storage access
type ObjectStore interface {
	// Method Put stores the content of "reader" under "objectPath" in "bucket".
	//
	// "size" is the exact number of bytes the reader yields, "contentType" is stored with the object where the backend supports it.
	// If the object cannot be written, the error will be returned and no partial object is left behind.
	Put(ctx context.Context, bucket, objectPath string, reader io.Reader, size int64, contentType string) error
	// Method Open returns a seekable reader over a stored object together with its description.
	//
	// The caller must close the reader. If the object does not exist, storage.ErrObjectNotFound will be returned.
	Open(ctx context.Context, bucket, objectPath string) (io.ReadSeekCloser, storage.ObjectInfo, error)
	// Method List returns the direct children of "prefix" in "bucket".
	//
	// Sub-folders are returned with IsDir set. A missing prefix yields an empty slice.
	List(ctx context.Context, bucket, prefix string) ([]storage.ObjectInfo, error)
	// Method Remove deletes a stored object.
	Remove(ctx context.Context, bucket, objectPath string) error
}

// URLSigner is the interface that wraps methods for minting and checking retrieval URLs
type URLSigner interface {
	// Method Sign returns a retrieval URL for the object which stays valid for "ttl".
	Sign(bucket, objectPath string, ttl time.Duration) (string, error)
	// Method Verify checks that "token" grants access to the object.
	//
	// If the token is missing, expired or minted for another object, storage.ErrInvalidToken will be returned.
	Verify(bucket, objectPath, token string) error
}

// URLCache is the interface that wraps methods for caching resolved retrieval URLs.
// Failures are never fatal to callers.
type URLCache interface {
	Get(ctx context.Context, source string) (string, bool, error)
	Set(ctx context.Context, source, resolved string) error
	Delete(ctx context.Context, sources ...string) error
}

// BlobObserver receives upload and cache telemetry
type BlobObserver interface {
	RecordUpload(kind string, duration time.Duration, sizeBytes int64, err error)
	RecordURLCache(hit bool)
}

type blobGateway struct {
	store    ObjectStore
	signer   URLSigner
	cache    URLCache
	observer BlobObserver
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewBlobGateway creates a new blob store gateway.
// "ttl" is the lifetime of minted retrieval URLs.
func NewBlobGateway(store ObjectStore, signer URLSigner, cache URLCache, observer BlobObserver, ttl time.Duration, logger *zap.Logger) *blobGateway {
	return &blobGateway{
		store:    store,
		signer:   signer,
		cache:    cache,
		observer: observer,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Upload stores a validated file and returns its retrieval URL.
//
// The object goes to projects/{projectID}/ when projectID is set, otherwise to temp/.
// Its name is generated so concurrent uploads of equally named files never collide.
// Any storage or signing failure is returned as *models.UploadError.
func (g *blobGateway) Upload(ctx context.Context, kind models.MediaKind, file models.CandidateFile, projectID string) (string, error) {
	policy, ok := kind.Policy()
	if !ok {
		return "", fmt.Errorf("%w: %s", models.ErrInvalidKind, kind)
	}

	start := g.now()
	objectName := storage.GenerateObjectName(file.Name, file.ContentType, start)
	objectPath := storage.ObjectPath(projectID, objectName)

	err := g.store.Put(ctx, policy.Bucket, objectPath, bytes.NewReader(file.Data), int64(len(file.Data)), file.ContentType)
	g.observer.RecordUpload(string(kind), time.Since(start), int64(len(file.Data)), err)
	if err != nil {
		g.logger.Error("failed to upload file",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("name", file.Name),
		)
		return "", &models.UploadError{Name: file.Name, Err: err}
	}

	url, err := g.signer.Sign(policy.Bucket, objectPath, g.ttl)
	if err != nil {
		g.logger.Error("failed to sign uploaded object", zap.Error(err), zap.String("path", objectPath))
		return "", &models.UploadError{Name: file.Name, Err: err}
	}

	g.logger.Info("file uploaded",
		zap.String("kind", string(kind)),
		zap.String("bucket", policy.Bucket),
		zap.String("path", objectPath),
		zap.Int("bytes", len(file.Data)),
	)
	return url, nil
}

// ResolveURL returns a usable retrieval URL for a stored location.
//
// URLs already in signed form are returned unchanged. Bare public URLs are re-signed;
// a leading bucket segment equal to the kind's bucket is stripped from the path first.
// Any failure falls back to returning rawURL, so the function is idempotent and never fails.
func (g *blobGateway) ResolveURL(ctx context.Context, rawURL string, kind models.MediaKind) string {
	if rawURL == "" || storage.IsSignedURL(rawURL) {
		return rawURL
	}

	policy, ok := kind.Policy()
	if !ok {
		return rawURL
	}

	rest, ok := storage.PublicObjectPath(rawURL)
	if !ok {
		return rawURL
	}
	objectPath := strings.TrimPrefix(rest, policy.Bucket+"/")

	if cached, hit, err := g.cache.Get(ctx, rawURL); err != nil {
		g.logger.Warn("failed to read url cache", zap.Error(err))
	} else {
		g.observer.RecordURLCache(hit)
		if hit {
			return cached
		}
	}

	signed, err := g.signer.Sign(policy.Bucket, objectPath, g.ttl)
	if err != nil {
		g.logger.Warn("failed to re-sign url, keeping original", zap.Error(err), zap.String("url", rawURL))
		return rawURL
	}

	if err := g.cache.Set(ctx, rawURL, signed); err != nil {
		g.logger.Warn("failed to cache resolved url", zap.Error(err))
	}
	return signed
}

// ResolveMedia resolves the URL of every item in place
func (g *blobGateway) ResolveMedia(ctx context.Context, media *models.ProjectMedia) {
	for _, items := range [][]models.MediaItem{media.Images, media.Audios, media.Videos} {
		for i := range items {
			items[i].LocationURL = g.ResolveURL(ctx, items[i].LocationURL, items[i].Kind)
		}
	}
}

// InvalidateURL drops any cached resolution of rawURL
func (g *blobGateway) InvalidateURL(ctx context.Context, rawURL string) error {
	return g.cache.Delete(ctx, rawURL)
}

// SignObject mints a retrieval URL for an existing object of the kind's bucket
func (g *blobGateway) SignObject(kind models.MediaKind, objectPath string) (string, error) {
	policy, ok := kind.Policy()
	if !ok {
		return "", fmt.Errorf("%w: %s", models.ErrInvalidKind, kind)
	}
	return g.signer.Sign(policy.Bucket, objectPath, g.ttl)
}

// ListProjectObjects lists the objects stored under a project's folder in the kind's bucket
func (g *blobGateway) ListProjectObjects(ctx context.Context, kind models.MediaKind, projectID string) ([]storage.ObjectInfo, error) {
	policy, ok := kind.Policy()
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidKind, kind)
	}
	objects, err := g.store.List(ctx, policy.Bucket, storage.ProjectPrefix(projectID))
	if err != nil {
		return nil, fmt.Errorf("failed to list project objects: %w", err)
	}
	return objects, nil
}

// Open verifies a retrieval token and opens the object it grants access to
func (g *blobGateway) Open(ctx context.Context, bucket, objectPath, token string) (io.ReadSeekCloser, storage.ObjectInfo, error) {
	if _, ok := models.KindForBucket(bucket); !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	if err := g.signer.Verify(bucket, objectPath, token); err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	return g.store.Open(ctx, bucket, objectPath)
}
