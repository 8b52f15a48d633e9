package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dealscout/internal/dealcalc"
	apperrors "dealscout/internal/errors"
	"dealscout/internal/pagination"
	"dealscout/internal/services"
)

// SavedSearchHandler handles named filter and sort combinations.
type SavedSearchHandler struct {
	savedSearchService services.SavedSearchServicer
	dealService        services.DealServicer
	auditService       services.AuditServicer
}

// NewSavedSearchHandler creates a new SavedSearchHandler.
func NewSavedSearchHandler(savedSearchService services.SavedSearchServicer, dealService services.DealServicer, auditService services.AuditServicer) *SavedSearchHandler {
	return &SavedSearchHandler{savedSearchService: savedSearchService, dealService: dealService, auditService: auditService}
}

// CreateSavedSearchRequest names a search.
type CreateSavedSearchRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	DealSearchRequest
}

// CreateSavedSearch stores a named search
// @Summary     Create saved search
// @Description Store a named filter and sort combination
// @Tags        saved-searches
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSavedSearchRequest true "Search"
// @Success     201 {object} map[string]interface{} "Saved search"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /saved-searches [post]
func (h *SavedSearchHandler) CreateSavedSearch(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSavedSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	query := req.query()
	if query.SortKey == "" {
		query.SortKey = dealcalc.SortDateAdded
	}
	if query.SortOrder == "" {
		query.SortOrder = dealcalc.SortDesc
	}

	search, err := h.savedSearchService.CreateSavedSearch(userID, req.Name, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SAVED_SEARCH", "saved_search", search.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"saved_search": search})
}

// GetSavedSearches lists the caller's saved searches
// @Summary     List saved searches
// @Tags        saved-searches
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated saved searches"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /saved-searches [get]
func (h *SavedSearchHandler) GetSavedSearches(c *gin.Context) {
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

	result, err := h.savedSearchService.GetSavedSearches(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSavedSearch returns one saved search
// @Summary     Get saved search
// @Tags        saved-searches
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Saved search ID"
// @Success     200 {object} map[string]interface{} "Saved search"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Saved search not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /saved-searches/{id} [get]
func (h *SavedSearchHandler) GetSavedSearch(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	searchID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	search, err := h.savedSearchService.GetSavedSearch(userID, searchID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved_search": search})
}

// RunSavedSearch runs a saved search against the current listings
// @Summary     Run saved search
// @Description Run a saved search with the caller's current factors and saved listings
// @Tags        saved-searches
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Saved search ID"
// @Success     200 {object} map[string]interface{} "Matching deals"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Saved search not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /saved-searches/{id}/results [get]
func (h *SavedSearchHandler) RunSavedSearch(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	searchID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	search, err := h.savedSearchService.GetSavedSearch(userID, searchID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	results, err := h.dealService.Search(c.Request.Context(), userID, services.DealQuery{
		Filter:    search.Filter,
		SortKey:   search.SortKey,
		SortOrder: search.SortOrder,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"saved_search": search,
		"deals":        newDealResponses(results),
		"count":        len(results),
	})
}

// DeleteSavedSearch removes a saved search
// @Summary     Delete saved search
// @Tags        saved-searches
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Saved search ID"
// @Success     200 {object} map[string]interface{} "Saved search deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Saved search not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /saved-searches/{id} [delete]
func (h *SavedSearchHandler) DeleteSavedSearch(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	searchID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.savedSearchService.DeleteSavedSearch(userID, searchID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SAVED_SEARCH", "saved_search", searchID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Saved search deleted"})
}
