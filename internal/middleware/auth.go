package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yallahq/yalla-api/internal/constants"
	apierrors "github.com/yallahq/yalla-api/internal/errors"
)

// RequireAuth rejects requests that carry no caller identity. The identity
// header is trusted as-is; verification belongs to the gateway in front of
// this service.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authUserID := c.GetHeader(constants.HeaderAuthUserID)
		if authUserID == "" {
			apierrors.Unauthorized(c, "Missing "+constants.HeaderAuthUserID+" header")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyAuthUserID, authUserID)
		c.Next()
	}
}

// OptionalAuth records the caller identity when present and lets anonymous
// requests through.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authUserID := c.GetHeader(constants.HeaderAuthUserID); authUserID != "" {
			c.Set(constants.ContextKeyAuthUserID, authUserID)
		}
		c.Next()
	}
}

// GetAuthUserID extracts the caller identity set by the auth middleware.
func GetAuthUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(constants.ContextKeyAuthUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
