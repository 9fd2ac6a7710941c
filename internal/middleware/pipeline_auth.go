package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "fizcal/internal/errors"
)

// PipelineAuthMiddleware validates the X-API-Key header against the
// configured pipeline API key. An empty key disables the pipeline routes.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithAppError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithAppError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
