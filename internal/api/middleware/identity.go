package middleware

import (
	"github.com/gin-gonic/gin"

	"meetscribe/internal/api/errors"
)

// Identity resolves the caller. The surrounding product authenticates
// upstream and forwards the user id; this boundary only requires that it
// arrived.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			HandleError(c, &errors.APIError{
				Kind:    errors.KindUnauthorized,
				Message: "missing user identity",
			})
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}
