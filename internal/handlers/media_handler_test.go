package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/portfolio-site/backend/internal/auth"
	"github.com/portfolio-site/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockMediaReader struct {
	media *models.ProjectMedia
	err   error
}

func (m *mockMediaReader) ListByProject(ctx context.Context, projectID string) (*models.ProjectMedia, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.media, nil
}

// prefixResolver marks every URL it resolves
type prefixResolver struct{}

func (prefixResolver) ResolveURL(ctx context.Context, rawURL string, kind models.MediaKind) string {
	return "resolved:" + rawURL
}

func (p prefixResolver) ResolveMedia(ctx context.Context, media *models.ProjectMedia) {
	for _, items := range [][]models.MediaItem{media.Images, media.Audios, media.Videos} {
		for i := range items {
			items[i].LocationURL = p.ResolveURL(ctx, items[i].LocationURL, items[i].Kind)
		}
	}
}

type mockLiveMedia struct {
	items  []models.MediaItem
	report *models.BatchReport
	err    error

	files      []models.CandidateFile
	session    *auth.Session
	deletedID  string
	confirmed  bool
	movedIndex int
	direction  models.Direction
	patchedID  string
	patch      models.MetadataPatch
}

func (m *mockLiveMedia) Items() []models.MediaItem {
	return append([]models.MediaItem(nil), m.items...)
}

func (m *mockLiveMedia) HandleFileSelect(ctx context.Context, actingAs *auth.Session, files []models.CandidateFile) (*models.BatchReport, error) {
	m.session = actingAs
	m.files = files
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockLiveMedia) Delete(ctx context.Context, actingAs *auth.Session, id string, confirmed bool) error {
	m.session = actingAs
	m.deletedID = id
	m.confirmed = confirmed
	if !confirmed {
		return models.ErrNotConfirmed
	}
	return m.err
}

func (m *mockLiveMedia) Reorder(ctx context.Context, actingAs *auth.Session, index int, direction models.Direction) error {
	m.session = actingAs
	m.movedIndex = index
	m.direction = direction
	return m.err
}

func (m *mockLiveMedia) UpdateMetadata(ctx context.Context, actingAs *auth.Session, id string, patch models.MetadataPatch) error {
	m.session = actingAs
	m.patchedID = id
	m.patch = patch
	return m.err
}

type mockSyncer struct {
	synced []models.MediaItem
	err    error
}

func (m *mockSyncer) Sync(ctx context.Context, actingAs *auth.Session, projectID string, kind models.MediaKind) ([]models.MediaItem, error) {
	if actingAs == nil {
		return nil, models.ErrNotAuthorized
	}
	return m.synced, m.err
}

type openCall struct {
	projectID string
	kind      models.MediaKind
}

func setupMediaHandler(reader *mockMediaReader, editor *mockLiveMedia, syncer *mockSyncer) (http.Handler, *[]openCall) {
	var calls []openCall
	open := func(ctx context.Context, projectID string, kind models.MediaKind) (LiveMedia, error) {
		calls = append(calls, openCall{projectID: projectID, kind: kind})
		return editor, nil
	}
	handler := NewMediaHandler(reader, prefixResolver{}, open, syncer, fakeAuth, zap.NewNop())
	return newTestRouter(handler, nil), &calls
}

func TestMediaHandler_List(t *testing.T) {
	t.Run("resolves every url", func(t *testing.T) {
		reader := &mockMediaReader{media: &models.ProjectMedia{
			Images: []models.MediaItem{{ID: "i1", Kind: models.MediaKindImage, LocationURL: "img"}},
			Audios: []models.MediaItem{},
			Videos: []models.MediaItem{{ID: "v1", Kind: models.MediaKindVideo, LocationURL: "vid"}},
		}}
		router, _ := setupMediaHandler(reader, &mockLiveMedia{}, &mockSyncer{})

		w := serve(router, jsonRequest(t, http.MethodGet, "/api/v1/projects/p1/media/", ""))

		require.Equal(t, http.StatusOK, w.Code)
		media := decodeBody[models.ProjectMedia](t, w)
		require.Len(t, media.Images, 1)
		assert.Equal(t, "resolved:img", media.Images[0].LocationURL)
		assert.Empty(t, media.Audios)
		assert.Equal(t, "resolved:vid", media.Videos[0].LocationURL)
	})

	t.Run("catalog failure", func(t *testing.T) {
		reader := &mockMediaReader{err: &models.PersistenceError{Op: "list", Err: errors.New("connection refused")}}
		router, _ := setupMediaHandler(reader, &mockLiveMedia{}, &mockSyncer{})

		w := serve(router, jsonRequest(t, http.MethodGet, "/api/v1/projects/p1/media/", ""))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestMediaHandler_Thumbnail(t *testing.T) {
	tests := []struct {
		name           string
		images         []models.MediaItem
		expectedStatus int
		expectedID     string
		expectedURL    string
	}{
		{
			name: "flagged image",
			images: []models.MediaItem{
				{ID: "i1", Kind: models.MediaKindImage, LocationURL: "first", DisplayOrder: 1},
				{ID: "i2", Kind: models.MediaKindImage, LocationURL: "cover", DisplayOrder: 2, IsThumbnail: true},
			},
			expectedStatus: http.StatusOK,
			expectedID:     "i2",
			expectedURL:    "resolved:cover",
		},
		{
			name: "falls back to first image",
			images: []models.MediaItem{
				{ID: "i1", Kind: models.MediaKindImage, LocationURL: "first", DisplayOrder: 1},
				{ID: "i2", Kind: models.MediaKindImage, LocationURL: "second", DisplayOrder: 2},
			},
			expectedStatus: http.StatusOK,
			expectedID:     "i1",
			expectedURL:    "resolved:first",
		},
		{
			name:           "no images",
			images:         []models.MediaItem{},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &mockMediaReader{media: &models.ProjectMedia{
				Images: tt.images,
				Audios: []models.MediaItem{},
				Videos: []models.MediaItem{},
			}}
			router, _ := setupMediaHandler(reader, &mockLiveMedia{}, &mockSyncer{})

			w := serve(router, jsonRequest(t, http.MethodGet, "/api/v1/projects/p1/media/thumbnail", ""))

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			item := decodeBody[models.MediaItem](t, w)
			assert.Equal(t, tt.expectedID, item.ID)
			assert.Equal(t, tt.expectedURL, item.LocationURL)
		})
	}
}

func TestMediaHandler_Upload(t *testing.T) {
	tests := []struct {
		name           string
		report         *models.BatchReport
		expectedStatus int
	}{
		{
			name:           "some added",
			report:         &models.BatchReport{Added: []models.MediaItem{{ID: "n1", Kind: models.MediaKindImage, LocationURL: "new"}}},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "only failures",
			report: &models.BatchReport{Errors: []models.ItemError{
				{Name: "big.png", Index: 0, Err: models.ErrTooLarge},
			}},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "nothing happened",
			report:         &models.BatchReport{},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			editor := &mockLiveMedia{report: tt.report, items: []models.MediaItem{{ID: "old", Kind: models.MediaKindImage, LocationURL: "old"}}}
			router, calls := setupMediaHandler(&mockMediaReader{}, editor, &mockSyncer{})

			req := multipartRequest(t, http.MethodPost, "/api/v1/projects/p1/media/image",
				formFile{name: "a.png", data: pngHeader},
				formFile{name: "b.jpg", contentType: "image/jpeg", data: []byte("jpeg")},
			)
			w := serve(router, req)

			require.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, []openCall{{projectID: "p1", kind: models.MediaKindImage}}, *calls)
			assert.Equal(t, testSession, editor.session)
			require.Len(t, editor.files, 2)
			assert.Equal(t, "image/png", editor.files[0].ContentType)
			assert.Equal(t, int64(len(pngHeader)), editor.files[0].Size)
			assert.Equal(t, "image/jpeg", editor.files[1].ContentType)

			resp := decodeBody[BatchResponse](t, w)
			assert.Len(t, resp.Added, len(tt.report.Added))
			assert.Len(t, resp.Errors, len(tt.report.Errors))
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "resolved:old", resp.Items[0].LocationURL)
			if len(resp.Errors) > 0 {
				assert.Equal(t, "big.png", resp.Errors[0].Name)
				assert.Equal(t, models.ErrTooLarge.Error(), resp.Errors[0].Error)
			}
		})
	}
}

func TestMediaHandler_UploadRejections(t *testing.T) {
	t.Run("invalid kind", func(t *testing.T) {
		router, calls := setupMediaHandler(&mockMediaReader{}, &mockLiveMedia{}, &mockSyncer{})

		w := serve(router, multipartRequest(t, http.MethodPost, "/api/v1/projects/p1/media/document",
			formFile{name: "a.pdf", contentType: "application/pdf", data: []byte("%PDF")}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, *calls)
	})

	t.Run("no files", func(t *testing.T) {
		router, _ := setupMediaHandler(&mockMediaReader{}, &mockLiveMedia{}, &mockSyncer{})

		w := serve(router, multipartRequest(t, http.MethodPost, "/api/v1/projects/p1/media/image"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), errNoFiles.Error())
	})
}

func TestMediaHandler_Delete(t *testing.T) {
	tests := []struct {
		name              string
		query             string
		expectedStatus    int
		expectedConfirmed bool
	}{
		{name: "confirmed", query: "?confirm=true", expectedStatus: http.StatusNoContent, expectedConfirmed: true},
		{name: "not confirmed", query: "", expectedStatus: http.StatusPreconditionRequired},
		{name: "garbage confirm", query: "?confirm=maybe", expectedStatus: http.StatusPreconditionRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			editor := &mockLiveMedia{}
			router, _ := setupMediaHandler(&mockMediaReader{}, editor, &mockSyncer{})

			w := serve(router, jsonRequest(t, http.MethodDelete, "/api/v1/projects/p1/media/audio/a1"+tt.query, ""))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "a1", editor.deletedID)
			assert.Equal(t, tt.expectedConfirmed, editor.confirmed)
		})
	}

	t.Run("missing item", func(t *testing.T) {
		editor := &mockLiveMedia{err: models.ErrNotFound}
		router, _ := setupMediaHandler(&mockMediaReader{}, editor, &mockSyncer{})

		w := serve(router, jsonRequest(t, http.MethodDelete, "/api/v1/projects/p1/media/audio/zz?confirm=1", ""))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMediaHandler_Move(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		editor := &mockLiveMedia{items: []models.MediaItem{{ID: "b"}, {ID: "a"}}}
		router, _ := setupMediaHandler(&mockMediaReader{}, editor, &mockSyncer{})

		w := serve(router, jsonRequest(t, http.MethodPost, "/api/v1/projects/p1/media/video/1/move", MoveRequest{Direction: models.DirectionUp}))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, editor.movedIndex)
		assert.Equal(t, models.DirectionUp, editor.direction)
		resp := decodeBody[ItemsResponse](t, w)
		assert.Len(t, resp.Items, 2)
	})

	t.Run("non numeric index", func(t *testing.T) {
		router, calls := setupMediaHandler(&mockMediaReader{}, &mockLiveMedia{}, &mockSyncer{})

		w := serve(router, jsonRequest(t, http.MethodPost, "/api/v1/projects/p1/media/video/first/move", MoveRequest{Direction: models.DirectionUp}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, *calls)
	})

	t.Run("invalid direction", func(t *testing.T) {
		editor := &mockLiveMedia{err: models.ErrInvalidDirection}
		router, _ := setupMediaHandler(&mockMediaReader{}, editor, &mockSyncer{})

		w := serve(router, jsonRequest(t, http.MethodPost, "/api/v1/projects/p1/media/video/0/move", MoveRequest{Direction: "left"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMediaHandler_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		editor := &mockLiveMedia{}
		router, _ := setupMediaHandler(&mockMediaReader{}, editor, &mockSyncer{})

		w := serve(router, jsonRequest(t, http.MethodPatch, "/api/v1/projects/p1/media/image/i1", `{"altText":"sunset","isThumbnail":true}`))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "i1", editor.patchedID)
		require.NotNil(t, editor.patch.AltText)
		assert.Equal(t, "sunset", *editor.patch.AltText)
		require.NotNil(t, editor.patch.IsThumbnail)
		assert.True(t, *editor.patch.IsThumbnail)
		assert.Nil(t, editor.patch.Title)
	})

	t.Run("catalog failure", func(t *testing.T) {
		editor := &mockLiveMedia{err: &models.PersistenceError{Op: "update", Err: errors.New("deadlock")}}
		router, _ := setupMediaHandler(&mockMediaReader{}, editor, &mockSyncer{})

		w := serve(router, jsonRequest(t, http.MethodPatch, "/api/v1/projects/p1/media/image/i1", `{"title":"x"}`))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		router, calls := setupMediaHandler(&mockMediaReader{}, &mockLiveMedia{}, &mockSyncer{})

		w := serve(router, jsonRequest(t, http.MethodPatch, "/api/v1/projects/p1/media/image/i1", "{"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, *calls)
	})
}

func TestMediaHandler_Sync(t *testing.T) {
	syncer := &mockSyncer{synced: []models.MediaItem{{ID: "s1", Kind: models.MediaKindImage}}}
	router, _ := setupMediaHandler(&mockMediaReader{}, &mockLiveMedia{}, syncer)

	w := serve(router, jsonRequest(t, http.MethodPost, "/api/v1/projects/p1/media/image/sync", ""))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[ItemsResponse](t, w)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "s1", resp.Items[0].ID)
}

func TestMediaHandler_MutationsRequireAuth(t *testing.T) {
	open := func(ctx context.Context, projectID string, kind models.MediaKind) (LiveMedia, error) {
		t.Fatal("editor must not be opened without a session")
		return nil, nil
	}
	gate := auth.NewGate(auth.Config{Secret: "test-secret", OwnerEmail: "owner@example.com"})
	handler := NewMediaHandler(&mockMediaReader{media: &models.ProjectMedia{}}, prefixResolver{}, open, &mockSyncer{}, auth.Middleware(gate), zap.NewNop())
	router := newTestRouter(handler, nil)

	w := serve(router, jsonRequest(t, http.MethodDelete, "/api/v1/projects/p1/media/image/i1?confirm=true", ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(router, jsonRequest(t, http.MethodGet, "/api/v1/projects/p1/media/", ""))
	assert.Equal(t, http.StatusOK, w.Code)
}
