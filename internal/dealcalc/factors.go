package dealcalc

import (
	"encoding/json"
	"fmt"
	"slices"
)

// MiscCostsBreakdown itemizes overhead outside the strategy cost sheet.
type MiscCostsBreakdown struct {
	Utilities          float64 `json:"utilities"`
	Insurance          float64 `json:"insurance"`
	PropertyTaxes      float64 `json:"property_taxes"`
	Maintenance        float64 `json:"maintenance"`
	PropertyManagement float64 `json:"property_management"`
	Other              float64 `json:"other"`
}

// Total sums every item.
func (b MiscCostsBreakdown) Total() float64 {
	return b.Utilities + b.Insurance + b.PropertyTaxes + b.Maintenance + b.PropertyManagement + b.Other
}

// CalculationFactors is the cost model a user analyzes deals under.
//
// CurrentCosts normally follows CostPresets[Strategy][PurchaseModel]. When
// defaults are switched off it keeps whatever the user had, even across a
// strategy switch; totals then only read the categories the new strategy
// uses.
type CalculationFactors struct {
	PurchaseModel            PurchaseModel      `json:"purchase_model"`
	Strategy                 Strategy           `json:"strategy"`
	InterestRate             float64            `json:"interest_rate"`
	DownPaymentPercentage    float64            `json:"down_payment_percentage"`
	RehabFinancingPercentage float64            `json:"rehab_financing_percentage"`
	HoldingPeriod            float64            `json:"holding_period"`
	MiscCostsPercentage      float64            `json:"misc_costs_percentage"`
	MiscCostsBreakdown       MiscCostsBreakdown `json:"misc_costs_breakdown"`
	CostPresets              CostPresets        `json:"cost_presets"`
	CurrentCosts             StrategyCosts      `json:"-"`
}

// DefaultFactors returns the starting configuration for a new session:
// a financed fix-and-flip at 5% with 10% down held for six months.
func DefaultFactors() CalculationFactors {
	presets := DefaultPresets()
	return CalculationFactors{
		PurchaseModel:            PurchaseFinanced,
		Strategy:                 StrategyFixAndFlip,
		InterestRate:             5,
		DownPaymentPercentage:    10,
		RehabFinancingPercentage: 100,
		HoldingPeriod:            6,
		MiscCostsPercentage:      5,
		MiscCostsBreakdown: MiscCostsBreakdown{
			Utilities:     150,
			Insurance:     100,
			PropertyTaxes: 200,
			Maintenance:   100,
		},
		CostPresets:  presets,
		CurrentCosts: presets[StrategyFixAndFlip][PurchaseFinanced],
	}
}

// WithStrategy switches strategy. With useDefaults the current costs are
// replaced wholesale by the preset for the new pair; otherwise they are
// left as they are.
func (f CalculationFactors) WithStrategy(s Strategy, useDefaults bool) (CalculationFactors, error) {
	if !s.Valid() {
		return f, fmt.Errorf("unknown strategy %q", s)
	}
	if useDefaults {
		costs, err := f.CostPresets.Lookup(s, f.PurchaseModel)
		if err != nil {
			return f, err
		}
		f.CurrentCosts = costs
	}
	f.Strategy = s
	return f, nil
}

// WithPurchaseModel switches purchase model, refreshing the current costs
// from the presets when useDefaults is set.
func (f CalculationFactors) WithPurchaseModel(m PurchaseModel, useDefaults bool) (CalculationFactors, error) {
	if !m.Valid() {
		return f, fmt.Errorf("unknown purchase model %q", m)
	}
	if useDefaults {
		costs, err := f.CostPresets.Lookup(f.Strategy, m)
		if err != nil {
			return f, err
		}
		f.CurrentCosts = costs
	}
	f.PurchaseModel = m
	return f, nil
}

// WithDefaultsApplied replaces the current costs with the preset for the
// active strategy and purchase model. Nothing of the previous costs
// survives.
func (f CalculationFactors) WithDefaultsApplied() (CalculationFactors, error) {
	costs, err := f.CostPresets.Lookup(f.Strategy, f.PurchaseModel)
	if err != nil {
		return f, err
	}
	f.CurrentCosts = costs
	return f, nil
}

// WithPresets installs a new preset tree. The current costs follow it only
// when useDefaults is set.
func (f CalculationFactors) WithPresets(p CostPresets, useDefaults bool) (CalculationFactors, error) {
	if err := p.Validate(); err != nil {
		return f, err
	}
	f.CostPresets = p
	if useDefaults {
		return f.WithDefaultsApplied()
	}
	return f, nil
}

// WithCurrentItem edits one item of the current costs without touching the
// presets. The edited sheet is a copy; the preset it came from is unchanged.
//
// A sheet kept from an earlier strategy (defaults off) lacks categories the
// active strategy needs. Editing one of those re-shapes the sheet for the
// active strategy first, carrying over the categories both strategies share,
// so the estimated total is unchanged apart from the edit itself.
func (f CalculationFactors) WithCurrentItem(category CategoryName, item string, amount float64) (CalculationFactors, error) {
	if f.CurrentCosts == nil {
		return f, fmt.Errorf("current costs are not set")
	}
	if item == "" {
		return f, fmt.Errorf("cost item name is required")
	}

	sheet := f.CurrentCosts
	current, ok := sheet.Category(category)
	if !ok && sheet.Strategy() != f.Strategy {
		if !slices.Contains(RelevantCategories(f.Strategy), category) {
			return f, fmt.Errorf("cost category %q is not used by strategy %q", category, f.Strategy)
		}
		reshaped, err := reshapeCosts(sheet, f.Strategy)
		if err != nil {
			return f, err
		}
		sheet = reshaped
	}

	edited := current.clone()
	if edited == nil {
		edited = CostCategory{}
	}
	edited[item] = amount
	costs, err := withCategory(sheet, category, edited)
	if err != nil {
		return f, err
	}
	f.CurrentCosts = costs
	return f, nil
}

// reshapeCosts builds the sheet for s from the categories of costs that s
// also uses.
func reshapeCosts(costs StrategyCosts, s Strategy) (StrategyCosts, error) {
	shared := make(map[CategoryName]CostCategory)
	for _, name := range RelevantCategories(s) {
		if c, ok := costs.Category(name); ok {
			shared[name] = c
		}
	}
	return NewStrategyCosts(s, shared)
}

// EstimatedCosts is the itemized cost total for the active strategy.
func (f CalculationFactors) EstimatedCosts() float64 {
	return TotalForStrategy(f.CurrentCosts, f.Strategy)
}

// Validate checks the enums and the preset tree.
func (f CalculationFactors) Validate() error {
	if !f.Strategy.Valid() {
		return fmt.Errorf("unknown strategy %q", f.Strategy)
	}
	if !f.PurchaseModel.Valid() {
		return fmt.Errorf("unknown purchase model %q", f.PurchaseModel)
	}
	if err := f.CostPresets.Validate(); err != nil {
		return err
	}
	if f.CurrentCosts == nil {
		return fmt.Errorf("current costs are not set")
	}
	return nil
}

type factorsAlias CalculationFactors

type factorsJSON struct {
	factorsAlias
	CurrentCosts CostSheet `json:"current_costs"`
}

// MarshalJSON implements json.Marshaler.
func (f CalculationFactors) MarshalJSON() ([]byte, error) {
	return json.Marshal(factorsJSON{
		factorsAlias: factorsAlias(f),
		CurrentCosts: CostSheet{f.CurrentCosts},
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *CalculationFactors) UnmarshalJSON(data []byte) error {
	var raw factorsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = CalculationFactors(raw.factorsAlias)
	f.CurrentCosts = raw.CurrentCosts.StrategyCosts
	return nil
}
