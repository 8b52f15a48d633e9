package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "dealscout/internal/errors"
	"dealscout/internal/middleware"
)

// getSession returns the authenticated caller.
// Returns ErrUnauthorized if not present.
func getSession(c *gin.Context) (middleware.Session, error) {
	s, ok := middleware.GetSession(c)
	if !ok {
		return middleware.Session{}, apperrors.ErrUnauthorized
	}
	return s, nil
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	s, err := getSession(c)
	if err != nil {
		return "", err
	}
	return s.UserID, nil
}

// parsePathID parses a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id.String(), nil
}

// respondWithError writes err as the JSON error body.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}
