// Package dealcalc holds the deal-economics engine: strategy cost presets,
// financing costs, net profit and ROI, and the filter/sort evaluation that
// listing search is built on. Every function here is pure; callers own the
// CalculationFactors they pass in and serialize their own writes to it.
package dealcalc

import "fmt"

// Strategy is an acquisition strategy. It decides which cost categories are
// relevant when totalling estimated costs.
type Strategy string

const (
	StrategyFixAndFlip    Strategy = "fix-and-flip"
	StrategyTurnkeyRental Strategy = "turnkey-rental"
	StrategyBRRR          Strategy = "brrr"
	StrategyWholesale     Strategy = "wholesale"
)

// Strategies returns every strategy in display order.
func Strategies() []Strategy {
	return []Strategy{StrategyFixAndFlip, StrategyTurnkeyRental, StrategyBRRR, StrategyWholesale}
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyFixAndFlip, StrategyTurnkeyRental, StrategyBRRR, StrategyWholesale:
		return true
	}
	return false
}

// Label is the human readable strategy name.
func (s Strategy) Label() string {
	switch s {
	case StrategyFixAndFlip:
		return "Buy, Fix, and Flip"
	case StrategyTurnkeyRental:
		return "Turnkey Rental"
	case StrategyBRRR:
		return "BRRR"
	case StrategyWholesale:
		return "Wholesale"
	}
	return string(s)
}

// ParseStrategy converts a raw value into a Strategy.
func ParseStrategy(raw string) (Strategy, error) {
	s := Strategy(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown strategy %q", raw)
	}
	return s, nil
}

// PurchaseModel says how the acquisition is paid for.
type PurchaseModel string

const (
	PurchaseFinanced PurchaseModel = "financed"
	PurchaseCash     PurchaseModel = "cash"
)

// PurchaseModels returns both purchase models, financed first.
func PurchaseModels() []PurchaseModel {
	return []PurchaseModel{PurchaseFinanced, PurchaseCash}
}

// Valid reports whether m is financed or cash.
func (m PurchaseModel) Valid() bool {
	return m == PurchaseFinanced || m == PurchaseCash
}

// ParsePurchaseModel converts a raw value into a PurchaseModel.
func ParsePurchaseModel(raw string) (PurchaseModel, error) {
	m := PurchaseModel(raw)
	if !m.Valid() {
		return "", fmt.Errorf("unknown purchase model %q", raw)
	}
	return m, nil
}

// CategoryName names a group of cost items.
type CategoryName string

const (
	CategoryAcquisition CategoryName = "acquisition"
	CategoryRehab       CategoryName = "rehab"
	CategoryHolding     CategoryName = "holding"
	CategorySelling     CategoryName = "selling"
	CategorySetup       CategoryName = "setup"
	CategoryOperating   CategoryName = "operating"
	CategoryRefinance   CategoryName = "refinance"
	CategoryWholesale   CategoryName = "wholesale"
)

// Label is the display title for a category.
func (c CategoryName) Label() string {
	switch c {
	case CategoryAcquisition:
		return "Acquisition"
	case CategoryRehab:
		return "Rehabilitation"
	case CategoryHolding:
		return "Holding"
	case CategorySelling:
		return "Selling"
	case CategorySetup:
		return "Setup"
	case CategoryOperating:
		return "Operating"
	case CategoryRefinance:
		return "Refinance"
	case CategoryWholesale:
		return "Wholesale"
	}
	return string(c)
}

// RelevantCategories returns the categories that count toward a strategy's
// total, in display order. Unknown strategies have none.
func RelevantCategories(s Strategy) []CategoryName {
	switch s {
	case StrategyFixAndFlip:
		return []CategoryName{CategoryAcquisition, CategoryRehab, CategoryHolding, CategorySelling}
	case StrategyTurnkeyRental:
		return []CategoryName{CategoryAcquisition, CategorySetup, CategoryOperating}
	case StrategyBRRR:
		return []CategoryName{CategoryAcquisition, CategoryRehab, CategoryRefinance, CategoryOperating}
	case StrategyWholesale:
		return []CategoryName{CategoryWholesale}
	}
	return nil
}
