package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dealscout/internal/dealcalc"
	apperrors "dealscout/internal/errors"
	"dealscout/internal/models"
	"dealscout/internal/services"
)

// SettingsHandler handles a user's calculation factors.
type SettingsHandler struct {
	settingsService services.SettingsServicer
	auditService    services.AuditServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer, auditService services.AuditServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, auditService: auditService}
}

// UpdateFactorsRequest changes scalar factors. Omitted fields are kept.
type UpdateFactorsRequest struct {
	InterestRate             *float64 `json:"interest_rate" binding:"omitempty,gte=0,lte=100"`
	DownPaymentPercentage    *float64 `json:"down_payment_percentage" binding:"omitempty,gte=0,lte=100"`
	RehabFinancingPercentage *float64 `json:"rehab_financing_percentage" binding:"omitempty,gte=0,lte=100"`
	HoldingPeriod            *float64 `json:"holding_period" binding:"omitempty,gte=0,lte=600"`
	MiscCostsPercentage      *float64 `json:"misc_costs_percentage" binding:"omitempty,gte=0,lte=100"`
}

func (r UpdateFactorsRequest) update() services.FactorsUpdate {
	return services.FactorsUpdate{
		InterestRate:             r.InterestRate,
		DownPaymentPercentage:    r.DownPaymentPercentage,
		RehabFinancingPercentage: r.RehabFinancingPercentage,
		HoldingPeriod:            r.HoldingPeriod,
		MiscCostsPercentage:      r.MiscCostsPercentage,
	}
}

// SetStrategyRequest switches the active strategy.
type SetStrategyRequest struct {
	Strategy dealcalc.Strategy `json:"strategy" binding:"required,strategy"`
}

// SetPurchaseModelRequest switches between financed and cash.
type SetPurchaseModelRequest struct {
	PurchaseModel dealcalc.PurchaseModel `json:"purchase_model" binding:"required,purchase_model"`
}

// SetUseDefaultsRequest toggles preset tracking.
type SetUseDefaultsRequest struct {
	UseDefaults *bool `json:"use_defaults" binding:"required"`
}

// CostItemRequest sets one cost item.
type CostItemRequest struct {
	Category dealcalc.CategoryName `json:"category" binding:"required,cost_category"`
	Item     string                `json:"item" binding:"required,min=1,max=100"`
	Amount   *float64              `json:"amount" binding:"required,gte=0"`
}

// MiscBreakdownRequest itemizes misc costs.
type MiscBreakdownRequest struct {
	Utilities          float64 `json:"utilities" binding:"gte=0"`
	Insurance          float64 `json:"insurance" binding:"gte=0"`
	PropertyTaxes      float64 `json:"property_taxes" binding:"gte=0"`
	Maintenance        float64 `json:"maintenance" binding:"gte=0"`
	PropertyManagement float64 `json:"property_management" binding:"gte=0"`
	Other              float64 `json:"other" binding:"gte=0"`
}

// SettingsResponse is the stored factors plus the itemized cost totals for
// the active strategy.
type SettingsResponse struct {
	UseDefaults        bool                        `json:"use_defaults"`
	Factors            dealcalc.CalculationFactors `json:"factors"`
	EstimatedCosts     Amount                      `json:"estimated_costs"`
	Breakdown          []dealcalc.CategoryTotal    `json:"breakdown"`
	MiscBreakdownTotal Amount                      `json:"misc_breakdown_total"`
}

func newSettingsResponse(s *models.AnalysisSettings) SettingsResponse {
	f := s.Factors
	return SettingsResponse{
		UseDefaults:        s.UseDefaults,
		Factors:            f,
		EstimatedCosts:     Amount(f.EstimatedCosts()),
		Breakdown:          dealcalc.Breakdown(f.CurrentCosts, f.Strategy),
		MiscBreakdownTotal: Amount(f.MiscCostsBreakdown.Total()),
	}
}

// respond writes the settings or the error from a settings call.
func (h *SettingsHandler) respond(c *gin.Context, settings *models.AnalysisSettings, err error) {
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSettingsResponse(settings))
}

// GetSettings returns the caller's analysis settings
// @Summary     Get analysis settings
// @Description Get the caller's calculation factors, creating the defaults on first use
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SettingsResponse "Analysis settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.GetSettings(userID)
	h.respond(c, settings, err)
}

// UpdateFactors changes scalar factors
// @Summary     Update factors
// @Description Update interest rate, down payment, rehab financing, holding period or misc percentage
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateFactorsRequest true "Factors to change"
// @Success     200 {object} SettingsResponse "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/factors [patch]
func (h *SettingsHandler) UpdateFactors(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateFactorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.UpdateFactors(userID, req.update())
	h.respond(c, settings, err)
}

// SetStrategy switches the active strategy
// @Summary     Set strategy
// @Description Switch strategy. With defaults on the current costs are replaced by the preset.
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetStrategyRequest true "Strategy"
// @Success     200 {object} SettingsResponse "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid strategy"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/strategy [put]
func (h *SettingsHandler) SetStrategy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidStrategy, err.Error()))
		return
	}

	settings, err := h.settingsService.SetStrategy(userID, req.Strategy)
	h.respond(c, settings, err)
}

// SetPurchaseModel switches between financed and cash
// @Summary     Set purchase model
// @Description Switch between financed and cash purchases
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetPurchaseModelRequest true "Purchase model"
// @Success     200 {object} SettingsResponse "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid purchase model"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/purchase-model [put]
func (h *SettingsHandler) SetPurchaseModel(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetPurchaseModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPurchaseModel, err.Error()))
		return
	}

	settings, err := h.settingsService.SetPurchaseModel(userID, req.PurchaseModel)
	h.respond(c, settings, err)
}

// SetUseDefaults toggles preset tracking
// @Summary     Toggle defaults
// @Description Turning defaults on replaces the current costs with the active preset
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetUseDefaultsRequest true "Flag"
// @Success     200 {object} SettingsResponse "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/use-defaults [put]
func (h *SettingsHandler) SetUseDefaults(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetUseDefaultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.SetUseDefaults(userID, *req.UseDefaults)
	h.respond(c, settings, err)
}

// EditPreset sets one item of a preset
// @Summary     Edit preset item
// @Description Set one cost item in the preset for a strategy and purchase model
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       strategy path string true "Strategy"
// @Param       model path string true "Purchase model"
// @Param       request body CostItemRequest true "Cost item"
// @Success     200 {object} SettingsResponse "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/presets/{strategy}/{model} [put]
func (h *SettingsHandler) EditPreset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	strategy, err := dealcalc.ParseStrategy(c.Param("strategy"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidStrategy, err.Error()))
		return
	}
	model, err := dealcalc.ParsePurchaseModel(c.Param("model"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPurchaseModel, err.Error()))
		return
	}

	var req CostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.EditPreset(userID, strategy, model, req.Category, req.Item, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "EDIT_PRESET", "analysis_settings", settings.ID, c.ClientIP(),
		map[string]interface{}{
			"strategy":       strategy,
			"purchase_model": model,
			"category":       req.Category,
			"item":           req.Item,
			"amount":         *req.Amount,
		})

	c.JSON(http.StatusOK, newSettingsResponse(settings))
}

// EditCurrentCost sets one item of the current costs
// @Summary     Edit current cost item
// @Description Set one item of the cost sheet in use without touching the presets
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CostItemRequest true "Cost item"
// @Success     200 {object} SettingsResponse "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/current-costs [put]
func (h *SettingsHandler) EditCurrentCost(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.EditCurrentCost(userID, req.Category, req.Item, *req.Amount)
	h.respond(c, settings, err)
}

// ResetPresets restores the built-in presets
// @Summary     Reset presets
// @Description Restore the built-in preset tables
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SettingsResponse "Updated settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/presets/reset [post]
func (h *SettingsHandler) ResetPresets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.ResetPresets(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RESET_PRESETS", "analysis_settings", settings.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, newSettingsResponse(settings))
}

// UpdateMiscBreakdown replaces the itemized misc costs
// @Summary     Update misc breakdown
// @Description Replace the itemized misc costs. Net profit keeps using the misc percentage.
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body MiscBreakdownRequest true "Misc cost items"
// @Success     200 {object} SettingsResponse "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/misc-breakdown [put]
func (h *SettingsHandler) UpdateMiscBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MiscBreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.UpdateMiscBreakdown(userID, dealcalc.MiscCostsBreakdown{
		Utilities:          req.Utilities,
		Insurance:          req.Insurance,
		PropertyTaxes:      req.PropertyTaxes,
		Maintenance:        req.Maintenance,
		PropertyManagement: req.PropertyManagement,
		Other:              req.Other,
	})
	h.respond(c, settings, err)
}
