package services

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/portfolio-site/backend/internal/models"
	"github.com/portfolio-site/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "https://media.test"

// memoryURLCache is a map-backed URLCache
type memoryURLCache struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
}

func newMemoryURLCache() *memoryURLCache {
	return &memoryURLCache{entries: make(map[string]string)}
}

func (c *memoryURLCache) Get(ctx context.Context, source string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", false, c.getErr
	}
	resolved, ok := c.entries[source]
	return resolved, ok, nil
}

func (c *memoryURLCache) Set(ctx context.Context, source, resolved string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[source] = resolved
	return nil
}

func (c *memoryURLCache) Delete(ctx context.Context, sources ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, source := range sources {
		delete(c.entries, source)
	}
	return nil
}

// blobObserverSpy counts uploads and cache lookups
type blobObserverSpy struct {
	mu         sync.Mutex
	uploads    int
	uploadErrs int
	hits       int
	misses     int
}

func (o *blobObserverSpy) RecordUpload(_ string, _ time.Duration, _ int64, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.uploads++
	if err != nil {
		o.uploadErrs++
	}
}

func (o *blobObserverSpy) RecordURLCache(hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

// failingStore rejects every write
type failingStore struct {
	ObjectStore
}

func (failingStore) Put(context.Context, string, string, io.Reader, int64, string) error {
	return errBackend
}

type blobGatewayFixture struct {
	gateway  *blobGateway
	store    ObjectStore
	signer   *storage.URLSigner
	cache    *memoryURLCache
	observer *blobObserverSpy
}

func setupBlobGateway(t *testing.T) blobGatewayFixture {
	t.Helper()
	store := storage.NewLocalStorage(t.TempDir())
	signer := storage.NewURLSigner("test-secret", testBaseURL)
	cache := newMemoryURLCache()
	obs := &blobObserverSpy{}
	return blobGatewayFixture{
		gateway:  NewBlobGateway(store, signer, cache, obs, time.Hour, zap.NewNop()),
		store:    store,
		signer:   signer,
		cache:    cache,
		observer: obs,
	}
}

// splitSignedURL returns the bucket, object path and token of a signed URL
func splitSignedURL(t *testing.T, raw string) (string, string, string) {
	t.Helper()
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	rest, ok := strings.CutPrefix(parsed.Path, storage.SignedRoutePrefix)
	require.True(t, ok, "not a signed url: %s", raw)
	bucket, objectPath, ok := strings.Cut(rest, "/")
	require.True(t, ok)
	return bucket, objectPath, parsed.Query().Get("token")
}

func TestBlobGateway_Upload(t *testing.T) {
	tests := []struct {
		name           string
		projectID      string
		expectedPrefix string
	}{
		{
			name:           "project folder",
			projectID:      "p1",
			expectedPrefix: "projects/p1/",
		},
		{
			name:           "temp folder",
			projectID:      "",
			expectedPrefix: "temp/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupBlobGateway(t)
			file := models.CandidateFile{Name: "Sunset Photo.PNG", ContentType: "image/png", Size: 5, Data: []byte("image")}

			signed, err := f.gateway.Upload(context.Background(), models.MediaKindImage, file, tt.projectID)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(signed, testBaseURL+storage.SignedRoutePrefix+"images/"+tt.expectedPrefix))
			bucket, objectPath, token := splitSignedURL(t, signed)
			assert.Equal(t, "images", bucket)
			assert.True(t, strings.HasSuffix(objectPath, ".png"))
			require.NoError(t, f.signer.Verify(bucket, objectPath, token))

			reader, info, err := f.store.Open(context.Background(), bucket, objectPath)
			require.NoError(t, err)
			defer reader.Close()
			content, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, []byte("image"), content)
			assert.Equal(t, int64(5), info.Size)
			assert.Equal(t, 1, f.observer.uploads)
		})
	}
}

func TestBlobGateway_Upload_SameNameDoesNotCollide(t *testing.T) {
	f := setupBlobGateway(t)
	file := audioFile("track.mp3")

	first, err := f.gateway.Upload(context.Background(), models.MediaKindAudio, file, "p1")
	require.NoError(t, err)
	second, err := f.gateway.Upload(context.Background(), models.MediaKindAudio, file, "p1")
	require.NoError(t, err)

	assert.NotEqual(t, storage.ObjectName(first), storage.ObjectName(second))
	objects, err := f.gateway.ListProjectObjects(context.Background(), models.MediaKindAudio, "p1")
	require.NoError(t, err)
	assert.Len(t, objects, 2)
}

func TestBlobGateway_Upload_Errors(t *testing.T) {
	t.Run("store failure", func(t *testing.T) {
		obs := &blobObserverSpy{}
		gateway := NewBlobGateway(failingStore{}, storage.NewURLSigner("s", testBaseURL), newMemoryURLCache(), obs, time.Hour, zap.NewNop())

		signed, err := gateway.Upload(context.Background(), models.MediaKindImage, imageFile("a.png"), "p1")

		assert.Empty(t, signed)
		var uploadErr *models.UploadError
		require.True(t, errors.As(err, &uploadErr))
		assert.Equal(t, "a.png", uploadErr.Name)
		assert.ErrorIs(t, err, errBackend)
		assert.Equal(t, 1, obs.uploadErrs)
	})

	t.Run("invalid kind", func(t *testing.T) {
		f := setupBlobGateway(t)
		_, err := f.gateway.Upload(context.Background(), models.MediaKind("document"), imageFile("a.png"), "")
		assert.ErrorIs(t, err, models.ErrInvalidKind)
	})
}

func TestBlobGateway_ResolveURL(t *testing.T) {
	f := setupBlobGateway(t)
	ctx := context.Background()

	signedInput, err := f.signer.Sign("images", "projects/p1/a.png", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
		kind models.MediaKind
		want string
	}{
		{
			name: "empty",
			raw:  "",
			kind: models.MediaKindImage,
			want: "",
		},
		{
			name: "already signed",
			raw:  signedInput,
			kind: models.MediaKindImage,
			want: signedInput,
		},
		{
			name: "unrelated url",
			raw:  "https://cdn.example.com/a.png",
			kind: models.MediaKindImage,
			want: "https://cdn.example.com/a.png",
		},
		{
			name: "unknown kind",
			raw:  testBaseURL + storage.PublicRoutePrefix + "images/projects/p1/a.png",
			kind: models.MediaKind("document"),
			want: testBaseURL + storage.PublicRoutePrefix + "images/projects/p1/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.gateway.ResolveURL(ctx, tt.raw, tt.kind))
		})
	}
}

func TestBlobGateway_ResolveURL_PublicForm(t *testing.T) {
	f := setupBlobGateway(t)
	ctx := context.Background()
	public := testBaseURL + storage.PublicRoutePrefix + "video/video/projects/p1/clip.mp4"

	resolved := f.gateway.ResolveURL(ctx, public, models.MediaKindVideo)

	require.True(t, storage.IsSignedURL(resolved))
	bucket, objectPath, token := splitSignedURL(t, resolved)
	assert.Equal(t, "video", bucket)
	assert.Equal(t, "video/projects/p1/clip.mp4", objectPath)
	assert.NoError(t, f.signer.Verify("video", "video/projects/p1/clip.mp4", token))
	assert.Equal(t, 0, f.observer.hits)
	assert.Equal(t, 1, f.observer.misses)

	// The resolved form resolves to itself
	assert.Equal(t, resolved, f.gateway.ResolveURL(ctx, resolved, models.MediaKindVideo))

	// Second lookup is served from the cache
	assert.Equal(t, resolved, f.gateway.ResolveURL(ctx, public, models.MediaKindVideo))
	assert.Equal(t, 1, f.observer.hits)

	require.NoError(t, f.gateway.InvalidateURL(ctx, public))
	_, ok, _ := f.cache.Get(ctx, public)
	assert.False(t, ok)
}

func TestBlobGateway_ResolveURL_CacheFailure(t *testing.T) {
	f := setupBlobGateway(t)
	f.cache.getErr = errors.New("redis down")
	public := testBaseURL + storage.PublicRoutePrefix + "images/projects/p1/a.png"

	resolved := f.gateway.ResolveURL(context.Background(), public, models.MediaKindImage)

	assert.True(t, storage.IsSignedURL(resolved))
	assert.Zero(t, f.observer.hits+f.observer.misses)
}

func TestBlobGateway_ResolveMedia(t *testing.T) {
	f := setupBlobGateway(t)
	media := &models.ProjectMedia{
		Images: []models.MediaItem{{Kind: models.MediaKindImage, LocationURL: testBaseURL + storage.PublicRoutePrefix + "images/projects/p1/a.png"}},
		Audios: []models.MediaItem{{Kind: models.MediaKindAudio, LocationURL: "https://cdn.example.com/track.mp3"}},
		Videos: []models.MediaItem{},
	}

	f.gateway.ResolveMedia(context.Background(), media)

	assert.True(t, storage.IsSignedURL(media.Images[0].LocationURL))
	assert.Equal(t, "https://cdn.example.com/track.mp3", media.Audios[0].LocationURL)
}

func TestBlobGateway_Open(t *testing.T) {
	f := setupBlobGateway(t)
	ctx := context.Background()

	signed, err := f.gateway.Upload(ctx, models.MediaKindImage, imageFile("a.png"), "p1")
	require.NoError(t, err)
	bucket, objectPath, token := splitSignedURL(t, signed)

	t.Run("valid token", func(t *testing.T) {
		reader, info, err := f.gateway.Open(ctx, bucket, objectPath, token)
		require.NoError(t, err)
		defer reader.Close()
		assert.Equal(t, int64(4), info.Size)
	})

	t.Run("token for another object", func(t *testing.T) {
		_, _, err := f.gateway.Open(ctx, bucket, "projects/p1/other.png", token)
		assert.ErrorIs(t, err, storage.ErrInvalidToken)
	})

	t.Run("missing token", func(t *testing.T) {
		_, _, err := f.gateway.Open(ctx, bucket, objectPath, "")
		assert.ErrorIs(t, err, storage.ErrInvalidToken)
	})

	t.Run("unknown bucket", func(t *testing.T) {
		_, _, err := f.gateway.Open(ctx, "documents", objectPath, token)
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})
}

func TestBlobGateway_SignObject(t *testing.T) {
	f := setupBlobGateway(t)

	signed, err := f.gateway.SignObject(models.MediaKindAudio, "projects/p1/track.mp3")
	require.NoError(t, err)
	bucket, objectPath, token := splitSignedURL(t, signed)
	assert.Equal(t, "audio", bucket)
	assert.NoError(t, f.signer.Verify(bucket, objectPath, token))

	_, err = f.gateway.SignObject(models.MediaKind("document"), "x")
	assert.ErrorIs(t, err, models.ErrInvalidKind)
}
