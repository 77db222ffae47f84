package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Govind-619/MintSphere/metrics"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// ResponseCache stores successful GET responses in Redis. Entries are keyed by
// a generation counter so one INCR invalidates every cached page.
type ResponseCache struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewResponseCache creates a cache under prefix. A nil client disables caching.
func NewResponseCache(client *redis.Client, prefix string, ttl time.Duration) *ResponseCache {
	rc := &ResponseCache{prefix: prefix, ttl: ttl}
	if client != nil {
		rc.rdb = client
	}
	return rc
}

// Enabled reports whether a Redis client is attached
func (rc *ResponseCache) Enabled() bool {
	return rc != nil && rc.rdb != nil
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Handler serves cached bodies and records fresh 200 responses
func (rc *ResponseCache) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rc.Enabled() || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := rc.key(ctx, c.Request.URL.RequestURI())

		data, err := rc.rdb.Get(ctx, key).Bytes()
		if err == nil {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", data)
			c.Abort()
			return
		}
		if !errors.Is(err, redis.Nil) {
			metrics.CacheRequests.WithLabelValues("error").Inc()
			utils.LogError("Response cache GET %s failed: %v", key, err)
			c.Next()
			return
		}

		metrics.CacheRequests.WithLabelValues("miss").Inc()
		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder
		c.Header("X-Cache", "MISS")
		c.Next()

		if c.Writer.Status() != http.StatusOK || recorder.body.Len() == 0 {
			return
		}
		if err := rc.rdb.Set(ctx, key, recorder.body.Bytes(), rc.ttl).Err(); err != nil {
			utils.LogError("Response cache SET %s failed: %v", key, err)
		}
	}
}

// Invalidate drops every cached response by moving to a new generation
func (rc *ResponseCache) Invalidate(ctx context.Context) {
	if !rc.Enabled() {
		return
	}
	if err := rc.rdb.Incr(ctx, rc.generationKey()).Err(); err != nil {
		utils.LogError("Response cache invalidation failed: %v", err)
	}
}

func (rc *ResponseCache) key(ctx context.Context, uri string) string {
	gen, err := rc.rdb.Get(ctx, rc.generationKey()).Result()
	if err != nil {
		gen = "0"
	}
	return rc.prefix + ":" + gen + ":" + uri
}

func (rc *ResponseCache) generationKey() string {
	return rc.prefix + ":gen"
}
