package middleware

import (
	"bytes"
	"context"
	"net/http"

	"adpress/internal/cache"
)

// ResponseStore is the cache the response middleware reads and fills.
type ResponseStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
}

// bufferingWriter copies the body of a 200 response aside while passing it
// through to the client.
type bufferingWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (bw *bufferingWriter) WriteHeader(code int) {
	if bw.status == 0 {
		bw.status = code
	}
	bw.ResponseWriter.WriteHeader(code)
}

func (bw *bufferingWriter) Write(b []byte) (int, error) {
	if bw.status == 0 {
		bw.status = http.StatusOK
	}
	if bw.status == http.StatusOK {
		bw.buf.Write(b)
	}
	return bw.ResponseWriter.Write(b)
}

// CacheResponses serves anonymous GET requests from store and fills it with
// successful JSON responses. Requests carrying a session bypass the cache
// because they may see unpublished content.
func CacheResponses(store ResponseStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || SessionFromCtx(r.Context()) != nil || bearerToken(r) != "" {
				next.ServeHTTP(w, r)
				return
			}

			key := cache.Key(r.URL.Path, r.URL.Query())
			if body, ok := store.Get(r.Context(), key); ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				w.Write(body)
				return
			}

			w.Header().Set("X-Cache", "MISS")
			bw := &bufferingWriter{ResponseWriter: w}
			next.ServeHTTP(bw, r)
			if bw.status == http.StatusOK && bw.buf.Len() > 0 {
				store.Set(r.Context(), key, bw.buf.Bytes())
			}
		})
	}
}
