package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestID tags each request with an id, echoing a caller-supplied
// X-Request-ID when present. The id is stored on both the gin context (for
// error envelopes) and the request context, so app-layer code logging with
// the request's context can correlate entries.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), requestIDKey{}, requestID))
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestIDFromContext returns the request id carried by ctx, or "" when
// the request never passed through the RequestID middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
