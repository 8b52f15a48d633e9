package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "dealscout/internal/errors"
	"dealscout/internal/models"
	"dealscout/internal/pagination"
	"dealscout/internal/services"
)

// SavedPropertyHandler handles bookmarked listings.
type SavedPropertyHandler struct {
	savedPropertyService services.SavedPropertyServicer
	auditService         services.AuditServicer
}

// NewSavedPropertyHandler creates a new SavedPropertyHandler.
func NewSavedPropertyHandler(savedPropertyService services.SavedPropertyServicer, auditService services.AuditServicer) *SavedPropertyHandler {
	return &SavedPropertyHandler{savedPropertyService: savedPropertyService, auditService: auditService}
}

// SavePropertyRequest names the listing to bookmark.
type SavePropertyRequest struct {
	PropertyID string `json:"property_id" binding:"required,uuid"`
}

// SavedPropertyResponse is a bookmark with its snapshot.
type SavedPropertyResponse struct {
	ID         string          `json:"id"`
	PropertyID string          `json:"property_id"`
	Property   models.Property `json:"property"`
	Profit     Amount          `json:"profit"`
	ROI        Amount          `json:"roi"`
	SavedAt    time.Time       `json:"saved_at"`
}

func newSavedPropertyResponse(s *models.SavedProperty) SavedPropertyResponse {
	return SavedPropertyResponse{
		ID:         s.ID,
		PropertyID: s.PropertyID,
		Property:   s.Property,
		Profit:     Amount(s.Profit),
		ROI:        Amount(s.ROI),
		SavedAt:    s.CreatedAt,
	}
}

// SaveProperty bookmarks a listing
// @Summary     Save property
// @Description Bookmark a published listing with a snapshot of its profit and ROI
// @Tags        saved-properties
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SavePropertyRequest true "Listing"
// @Success     201 {object} SavedPropertyResponse "Bookmark created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Listing not found"
// @Failure     409 {object} ErrorResponse "Already saved"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /saved-properties [post]
func (h *SavedPropertyHandler) SaveProperty(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SavePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	saved, err := h.savedPropertyService.SaveProperty(userID, req.PropertyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SAVE_PROPERTY", "property", req.PropertyID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, newSavedPropertyResponse(saved))
}

// UnsaveProperty removes a bookmark
// @Summary     Unsave property
// @Description Remove a bookmarked listing
// @Tags        saved-properties
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Property ID"
// @Success     200 {object} map[string]interface{} "Bookmark removed"
// @Failure     400 {object} ErrorResponse "Invalid property ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not saved"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /saved-properties/{id} [delete]
func (h *SavedPropertyHandler) UnsaveProperty(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	propertyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.savedPropertyService.UnsaveProperty(userID, propertyID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UNSAVE_PROPERTY", "property", propertyID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Property removed from saved list"})
}

// GetSavedProperties lists the caller's bookmarks
// @Summary     List saved properties
// @Description List bookmarked listings with their saved snapshots, newest first
// @Tags        saved-properties
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated bookmarks"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /saved-properties [get]
func (h *SavedPropertyHandler) GetSavedProperties(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.savedPropertyService.GetSavedProperties(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(result, newSavedPropertyResponse))
}
