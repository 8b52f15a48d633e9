package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"dealscout/internal/dealcalc"
	apperrors "dealscout/internal/errors"
	"dealscout/internal/services"
)

// DealHandler handles deal search and analysis.
type DealHandler struct {
	dealService services.DealServicer
}

// NewDealHandler creates a new DealHandler.
func NewDealHandler(dealService services.DealServicer) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// DealSearchRequest carries filter and sort parameters, either as query
// parameters or as JSON. Omitted bounds fall back to the default filter.
type DealSearchRequest struct {
	Search        string             `form:"search" json:"search" binding:"max=200"`
	MinPrice      *float64           `form:"min_price" json:"min_price" binding:"omitempty,finite,gte=0"`
	MaxPrice      *float64           `form:"max_price" json:"max_price" binding:"omitempty,finite,gte=0"`
	MinBedrooms   *int               `form:"min_bedrooms" json:"min_bedrooms" binding:"omitempty,gte=0"`
	MinROI        *float64           `form:"min_roi" json:"min_roi" binding:"omitempty,finite"`
	PropertyTypes []string           `form:"property_type" json:"property_types" binding:"omitempty,max=20,dive,max=50"`
	MinYearBuilt  *int               `form:"min_year_built" json:"min_year_built"`
	MaxYearBuilt  *int               `form:"max_year_built" json:"max_year_built"`
	MinNetProfit  *float64           `form:"min_net_profit" json:"min_net_profit" binding:"omitempty,finite"`
	DealType      string             `form:"deal_type" json:"deal_type" binding:"max=50"`
	SavedOnly     bool               `form:"saved_only" json:"saved_only"`
	SortKey       dealcalc.SortKey   `form:"sort" json:"sort" binding:"omitempty,sort_key"`
	SortOrder     dealcalc.SortOrder `form:"order" json:"order" binding:"omitempty,sort_order"`
}

func (r DealSearchRequest) query() services.DealQuery {
	f := dealcalc.DefaultFilter()
	f.SearchTerm = r.Search
	if r.MinPrice != nil {
		f.PriceRange[0] = *r.MinPrice
	}
	if r.MaxPrice != nil {
		f.PriceRange[1] = *r.MaxPrice
	}
	if r.MinBedrooms != nil {
		f.MinBedrooms = *r.MinBedrooms
	}
	if r.MinROI != nil {
		f.MinROI = *r.MinROI
	}
	f.PropertyTypes = r.PropertyTypes
	if r.MinYearBuilt != nil {
		f.YearBuiltRange[0] = *r.MinYearBuilt
	}
	if r.MaxYearBuilt != nil {
		f.YearBuiltRange[1] = *r.MaxYearBuilt
	}
	if r.MinNetProfit != nil {
		f.MinNetProfit = *r.MinNetProfit
	}
	if r.DealType != "" {
		f.DealType = r.DealType
	}
	f.SavedOnly = r.SavedOnly
	return services.DealQuery{Filter: f, SortKey: r.SortKey, SortOrder: r.SortOrder}
}

// AnalyzeRequest overrides stored factors for one analysis.
type AnalyzeRequest struct {
	UpdateFactorsRequest
	Strategy      *dealcalc.Strategy      `json:"strategy" binding:"omitempty,strategy"`
	PurchaseModel *dealcalc.PurchaseModel `json:"purchase_model" binding:"omitempty,purchase_model"`
}

// MetricsResponse holds the computed figures for a listing. Degenerate
// figures are null.
type MetricsResponse struct {
	FinancingCosts  Amount `json:"financing_costs"`
	MiscCosts       Amount `json:"misc_costs"`
	TotalCosts      Amount `json:"total_costs"`
	NetProfit       Amount `json:"net_profit"`
	ROI             Amount `json:"roi"`
	TotalInvestment Amount `json:"total_investment"`
}

// DealResponse is a listing with its metrics.
type DealResponse struct {
	Property         dealcalc.Property `json:"property"`
	Metrics          MetricsResponse   `json:"metrics"`
	NetProfitDisplay string            `json:"net_profit_display"`
	Saved            bool              `json:"saved"`
}

func newDealResponse(r services.DealResult) DealResponse {
	m := r.Metrics
	return DealResponse{
		Property: r.Property,
		Metrics: MetricsResponse{
			FinancingCosts:  Amount(m.FinancingCosts),
			MiscCosts:       Amount(m.MiscCosts),
			TotalCosts:      Amount(m.TotalCosts),
			NetProfit:       Amount(m.NetProfit),
			ROI:             Amount(m.ROI),
			TotalInvestment: Amount(m.TotalInvestment),
		},
		NetProfitDisplay: dealcalc.FormatCurrency(m.NetProfit),
		Saved:            r.Saved,
	}
}

func newDealResponses(results []services.DealResult) []DealResponse {
	out := make([]DealResponse, 0, len(results))
	for _, r := range results {
		out = append(out, newDealResponse(r))
	}
	return out
}

// SearchDeals filters and sorts published listings
// @Summary     Search deals
// @Description Filter and sort published listings; ROI and net profit use the caller's factors
// @Tags        deals
// @Produce     json
// @Security    BearerAuth
// @Param       search query string false "Address or zip substring"
// @Param       min_price query number false "Minimum price"
// @Param       max_price query number false "Maximum price"
// @Param       min_bedrooms query int false "Minimum bedrooms"
// @Param       min_roi query number false "Minimum ROI percent"
// @Param       property_type query []string false "Property types" collectionFormat(multi)
// @Param       min_year_built query int false "Earliest year built"
// @Param       max_year_built query int false "Latest year built"
// @Param       min_net_profit query number false "Minimum net profit"
// @Param       deal_type query string false "Deal type or all"
// @Param       saved_only query bool false "Only saved listings"
// @Param       sort query string false "Sort key" Enums(dateAdded, price, roi, netProfit, bedrooms, squareFeet, yearBuilt)
// @Param       order query string false "Sort order" Enums(asc, desc)
// @Success     200 {object} map[string]interface{} "Matching deals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals [get]
func (h *DealHandler) SearchDeals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DealSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	results, err := h.dealService.Search(c.Request.Context(), userID, req.query())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deals": newDealResponses(results), "count": len(results)})
}

// GetDeal analyzes one listing under the stored factors
// @Summary     Get deal
// @Description Analyze one published listing under the caller's stored factors
// @Tags        deals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Property ID"
// @Success     200 {object} map[string]interface{} "Deal and factors used"
// @Failure     400 {object} ErrorResponse "Invalid property ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Listing not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id} [get]
func (h *DealHandler) GetDeal(c *gin.Context) {
	h.analyze(c, nil)
}

// AnalyzeDeal analyzes one listing with temporary overrides. An empty body
// means no overrides.
// @Summary     Analyze deal
// @Description Analyze one published listing with factor overrides that are not saved
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Property ID"
// @Param       request body AnalyzeRequest false "Overrides"
// @Success     200 {object} map[string]interface{} "Deal and factors used"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Listing not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id}/analyze [post]
func (h *DealHandler) AnalyzeDeal(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	h.analyze(c, &services.FactorOverrides{
		FactorsUpdate: req.update(),
		Strategy:      req.Strategy,
		PurchaseModel: req.PurchaseModel,
	})
}

func (h *DealHandler) analyze(c *gin.Context, overrides *services.FactorOverrides) {
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

	result, factors, err := h.dealService.Analyze(c.Request.Context(), userID, propertyID, overrides)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deal":            newDealResponse(*result),
		"factors":         factors,
		"estimated_costs": Amount(factors.EstimatedCosts()),
	})
}
