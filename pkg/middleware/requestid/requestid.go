package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// Header carries the request ID across service boundaries. A caller-supplied
	// value is trusted as-is so a browser session and the API share one trace ID.
	Header = "X-Request-ID"

	contextKey = "request_id"
)

// New tags every request with a UUID and echoes it in the response header.
func New() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)

		c.Next()
	}
}

// FromContext returns the request ID assigned by New, empty when absent.
func FromContext(c *gin.Context) string {
	if v, exists := c.Get(contextKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
