package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "dealscout/internal/errors"
)

// PipelineAPIKeyHeader carries the listing pipeline's shared secret.
const PipelineAPIKeyHeader = "X-API-Key"

// PipelineAuthMiddleware admits the listing pipeline. Requests must carry
// apiKey in the X-API-Key header; with no key configured ingestion is
// switched off and every request gets 503.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		presented := c.GetHeader(PipelineAPIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
			abortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
