package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const responseMetaKey = "response_meta"

// Keys written into the envelope meta block.
const (
	MetaCacheHit       = "cache_hit"
	MetaPeriod         = "period"
	MetaProcessingTime = "processing_time_ms"
)

type responseMeta struct {
	start  time.Time
	values map[string]interface{}
}

// WithResponseMeta starts the per-request meta block. Routes scoped to an
// academic period echo it back so clients can tell which tables answered.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := &responseMeta{start: time.Now(), values: map[string]interface{}{}}
		if period := c.Param("period"); period != "" {
			meta.values[MetaPeriod] = period
		}
		c.Set(responseMetaKey, meta)
		c.Next()
	}
}

// SetMeta records one meta value for the current response.
func SetMeta(c *gin.Context, key string, value interface{}) {
	if meta := metaFrom(c); meta != nil {
		meta.values[key] = value
	}
}

// SetCacheHit marks whether the payload came from the room cache.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, MetaCacheHit, hit)
}

// Meta returns a snapshot of the meta block with the elapsed handler time.
// It is nil when WithResponseMeta is not installed.
func Meta(c *gin.Context) map[string]interface{} {
	meta := metaFrom(c)
	if meta == nil {
		return nil
	}
	out := make(map[string]interface{}, len(meta.values)+1)
	for k, v := range meta.values {
		out[k] = v
	}
	out[MetaProcessingTime] = time.Since(meta.start).Milliseconds()
	return out
}

func metaFrom(c *gin.Context) *responseMeta {
	if c == nil {
		return nil
	}
	raw, ok := c.Get(responseMetaKey)
	if !ok {
		return nil
	}
	meta, _ := raw.(*responseMeta)
	return meta
}
