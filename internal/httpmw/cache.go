package httpmw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tranqv/shopcore/pkg/logger"
)

// ResponseCache caches successful GET responses in Redis for a short TTL.
// Only safe for public, user-independent endpoints.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a cache with the given TTL
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	return &ResponseCache{client: client, ttl: ttl}
}

// Middleware serves cached bodies for GET requests and stores fresh 200
// responses. Cache failures fall through to the handler.
func (c *ResponseCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := "httpcache:" + r.URL.RequestURI()

		cached, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
		if err != redis.Nil {
			logger.Warn(ctx).Err(err).Msg("response cache unavailable")
		}

		rec := &recordingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.statusCode == http.StatusOK && rec.body.Len() > 0 {
			if err := c.client.Set(ctx, key, rec.body.Bytes(), c.ttl).Err(); err != nil {
				logger.Warn(ctx).Err(err).Msg("failed to store cached response")
			}
		}
	})
}

// recordingResponseWriter tees the body so it can be cached after writing
type recordingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *recordingResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingResponseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == http.StatusOK {
		rw.body.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}
