// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"math"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"dealscout/internal/dealcalc"
	"dealscout/internal/models"
)

// Review decisions accepted by the review endpoint.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("strategy", validateStrategy)
		_ = v.RegisterValidation("purchase_model", validatePurchaseModel)
		_ = v.RegisterValidation("cost_category", validateCostCategory)
		_ = v.RegisterValidation("property_status", validatePropertyStatus)
		_ = v.RegisterValidation("role", validateRole)
		_ = v.RegisterValidation("sort_key", validateSortKey)
		_ = v.RegisterValidation("sort_order", validateSortOrder)
		_ = v.RegisterValidation("review_decision", validateReviewDecision)
		_ = v.RegisterValidation("finite", validateFinite)
	}
}

func validateStrategy(fl validator.FieldLevel) bool {
	return dealcalc.Strategy(fl.Field().String()).Valid()
}

func validatePurchaseModel(fl validator.FieldLevel) bool {
	return dealcalc.PurchaseModel(fl.Field().String()).Valid()
}

func validateCostCategory(fl validator.FieldLevel) bool {
	switch dealcalc.CategoryName(fl.Field().String()) {
	case dealcalc.CategoryAcquisition, dealcalc.CategoryRehab, dealcalc.CategoryHolding,
		dealcalc.CategorySelling, dealcalc.CategorySetup, dealcalc.CategoryOperating,
		dealcalc.CategoryRefinance, dealcalc.CategoryWholesale:
		return true
	}
	return false
}

func validatePropertyStatus(fl validator.FieldLevel) bool {
	return dealcalc.PropertyStatus(fl.Field().String()).Valid()
}

func validateRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

func validateSortKey(fl validator.FieldLevel) bool {
	return dealcalc.SortKey(fl.Field().String()).Valid()
}

func validateSortOrder(fl validator.FieldLevel) bool {
	return dealcalc.SortOrder(fl.Field().String()).Valid()
}

func validateReviewDecision(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case DecisionApprove, DecisionReject:
		return true
	}
	return false
}

// validateFinite rejects NaN and ±Inf; JSON cannot carry them but query
// strings can.
func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.Float32 && f.Kind() != reflect.Float64 {
		return true
	}
	v := f.Float()
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
