package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "dealscout/internal/errors"
	"dealscout/internal/logger"
)

// ErrorHandler renders the last error a handler attached with c.Error,
// unless a response was already written.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		WriteError(c, c.Errors.Last().Err)
	}
}

// WriteError renders err as the API's JSON error body. AppErrors keep their
// status and code. Anything else is logged and reported as INTERNAL_ERROR
// with no detail.
func WriteError(c *gin.Context, err error) {
	appErr := toAppError(c, err)
	c.JSON(appErr.StatusCode, errorBody(appErr))
}

func abortWithError(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.StatusCode, errorBody(err))
}

func toAppError(c *gin.Context, err error) *apperrors.AppError {
	log := logger.Named("http").With("method", c.Request.Method, "path", c.Request.URL.Path)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			log.Errorw("request failed", "code", appErr.Code, "internal", appErr.Internal.Error())
		}
		return appErr
	}

	log.Errorw("unexpected error", "error", err.Error())
	return apperrors.ErrInternalServer
}

func errorBody(err *apperrors.AppError) gin.H {
	return gin.H{"error": gin.H{"code": err.Code, "message": err.Message}}
}
