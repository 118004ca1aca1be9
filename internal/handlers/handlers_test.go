package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/portfolio-site/backend/internal/auth"
	"github.com/stretchr/testify/require"
)

var testSession = &auth.Session{Subject: "owner@example.com", TokenID: "t1", ExpiresAt: time.Now().Add(time.Hour)}

// pngHeader is enough of a PNG file for content sniffing
var pngHeader = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52}

// fakeAuth stands in for auth.Middleware and always injects the owner session
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), testSession)))
	})
}

// noAuth passes requests through without a session
func noAuth(next http.Handler) http.Handler {
	return next
}

type registrar interface {
	RegisterRoutes(r chi.Router)
}

func newTestRouter(h registrar, mw func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		if mw != nil {
			r.Use(mw)
		}
		h.RegisterRoutes(r)
	})
	return r
}

type formFile struct {
	name        string
	contentType string
	data        []byte
}

// multipartRequest builds a request with every file in the "files" field
func multipartRequest(t *testing.T, method, target string, files ...formFile) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="files"; filename="`+f.name+`"`)
		if f.contentType != "" {
			header.Set("Content-Type", f.contentType)
		}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	var body *strings.Reader
	if s, ok := payload.(string); ok {
		body = strings.NewReader(s)
	} else {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = strings.NewReader(string(data))
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
