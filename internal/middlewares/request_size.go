package middlewares

import (
	"mime"
	"net/http"
)

// RequestSizeLimitMiddleware limits the size of request bodies.
// maxRequestSize applies to every body except multipart/form-data uploads, which get maxUploadSize.
func RequestSizeLimitMiddleware(maxRequestSize, maxUploadSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := maxRequestSize
			if isMultipart(r) {
				limit = maxUploadSize
			}

			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(`{"error":"request body too large"}`))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
