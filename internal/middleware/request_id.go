package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinic-server/internal/audit"
)

// RequestIDHeader is honored when a gateway or proxy already assigned an id.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request an id, echoes it on the response, and stashes
// client attribution in the request context for the audit recorder.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestID", id)
		c.Writer.Header().Set(RequestIDHeader, id)

		ctx := audit.WithMeta(c.Request.Context(), audit.Meta{
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the request id assigned by RequestID.
func GetRequestID(c *gin.Context) string {
	id, _ := c.Get("requestID")
	s, _ := id.(string)
	return s
}
