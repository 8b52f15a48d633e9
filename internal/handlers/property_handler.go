package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "dealscout/internal/errors"
	"dealscout/internal/logger"
	"dealscout/internal/pagination"
	"dealscout/internal/services"
	"dealscout/internal/validator"
)

// PropertyHandler handles listing submission and review.
type PropertyHandler struct {
	propertyService services.PropertyServicer
	auditService    services.AuditServicer
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(propertyService services.PropertyServicer, auditService services.AuditServicer) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService, auditService: auditService}
}

// PropertyRequest represents a listing submitted for review.
type PropertyRequest struct {
	Address        string  `json:"address" binding:"required,min=1,max=255"`
	ZipCode        string  `json:"zip_code" binding:"max=10"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	EstimatedARV   float64 `json:"estimated_arv" binding:"gte=0"`
	RenovationCost float64 `json:"renovation_cost" binding:"gte=0"`
	RentPotential  float64 `json:"rent_potential" binding:"gte=0"`
	Bedrooms       int     `json:"bedrooms" binding:"gte=0,lte=50"`
	Bathrooms      float64 `json:"bathrooms" binding:"gte=0,lte=50"`
	SquareFeet     int     `json:"square_feet" binding:"gte=0"`
	YearBuilt      int     `json:"year_built" binding:"omitempty,gte=1700,lte=2100"`
	PropertyType   string  `json:"property_type" binding:"max=50"`
	DealType       string  `json:"deal_type" binding:"max=50"`
}

func (r PropertyRequest) input() services.PropertyInput {
	return services.PropertyInput{
		Address:        r.Address,
		ZipCode:        r.ZipCode,
		Price:          r.Price,
		EstimatedARV:   r.EstimatedARV,
		RenovationCost: r.RenovationCost,
		RentPotential:  r.RentPotential,
		Bedrooms:       r.Bedrooms,
		Bathrooms:      r.Bathrooms,
		SquareFeet:     r.SquareFeet,
		YearBuilt:      r.YearBuilt,
		PropertyType:   r.PropertyType,
		DealType:       r.DealType,
	}
}

// IngestPropertiesRequest is a batch of listings from the listing pipeline.
type IngestPropertiesRequest struct {
	Properties []PropertyRequest `json:"properties" binding:"required,min=1,max=500,dive"`
}

// ReviewPropertyRequest represents a reviewer's decision. Estimates left out
// keep the submitted values.
type ReviewPropertyRequest struct {
	Decision       string   `json:"decision" binding:"required,review_decision"`
	EstimatedARV   *float64 `json:"estimated_arv" binding:"omitempty,gte=0"`
	RenovationCost *float64 `json:"renovation_cost" binding:"omitempty,gte=0"`
	Notes          string   `json:"notes" binding:"max=1000"`
}

// SubmitProperty handles a wholesaler's listing submission
// @Summary     Submit a property
// @Description Submit a listing; it stays hidden from deal search until reviewed
// @Tags        properties
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PropertyRequest true "Listing details"
// @Success     201 {object} map[string]interface{} "Listing queued for review"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /properties [post]
func (h *PropertyHandler) SubmitProperty(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	property, err := h.propertyService.SubmitProperty(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SUBMIT_PROPERTY", "property", property.ID, c.ClientIP(),
		map[string]interface{}{"address": req.Address, "price": req.Price})

	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// GetMySubmissions lists the caller's submitted listings
// @Summary     List my submissions
// @Description List listings submitted by the authenticated user, newest first
// @Tags        properties
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated listings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /properties/mine [get]
func (h *PropertyHandler) GetMySubmissions(c *gin.Context) {
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

	result, err := h.propertyService.GetSubmissions(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetReviewQueue lists listings awaiting review
// @Summary     Review queue
// @Description List pending listings, oldest first
// @Tags        review
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated pending listings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /review/properties [get]
func (h *PropertyHandler) GetReviewQueue(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.propertyService.GetReviewQueue(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ReviewProperty approves or rejects a pending listing
// @Summary     Review a listing
// @Description Approve (publish) or reject a pending listing, optionally correcting its estimates
// @Tags        review
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Property ID"
// @Param       request body ReviewPropertyRequest true "Review decision"
// @Success     200 {object} map[string]interface{} "Reviewed listing"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Listing not found"
// @Failure     409 {object} ErrorResponse "Listing already reviewed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /review/properties/{id} [post]
func (h *PropertyHandler) ReviewProperty(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	propertyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReviewPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	property, err := h.propertyService.ReviewProperty(c.Request.Context(), reviewerID, propertyID, services.ReviewDecision{
		Approve:        req.Decision == validator.DecisionApprove,
		EstimatedARV:   req.EstimatedARV,
		RenovationCost: req.RenovationCost,
		Notes:          req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(reviewerID, "REVIEW_PROPERTY", "property", property.ID, c.ClientIP(),
		map[string]interface{}{"decision": req.Decision, "status": property.Status})

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// IngestProperties accepts a batch from the listing pipeline
// @Summary     Ingest listings
// @Description Queue a batch of scraped listings for review. The batch is stored all-or-nothing.
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    PipelineAPIKey
// @Param       request body IngestPropertiesRequest true "Listings"
// @Success     201 {object} map[string]interface{} "Number of listings queued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/properties [post]
func (h *PropertyHandler) IngestProperties(c *gin.Context) {
	var req IngestPropertiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.PropertyInput, 0, len(req.Properties))
	for _, p := range req.Properties {
		inputs = append(inputs, p.input())
	}

	props, err := h.propertyService.IngestProperties(inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Named("pipeline").Infow("listings ingested", "count", len(props), "client_ip", c.ClientIP())

	ids := make([]string, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}
	c.JSON(http.StatusCreated, gin.H{"ingested": len(props), "ids": ids})
}
