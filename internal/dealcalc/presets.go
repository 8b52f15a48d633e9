package dealcalc

import (
	"encoding/json"
	"fmt"
)

// CostPresets holds a cost sheet for every strategy and purchase model pair.
// Treat it as immutable: WithItem returns an edited copy and leaves the
// receiver alone.
type CostPresets map[Strategy]map[PurchaseModel]StrategyCosts

// Lookup returns the preset sheet for a strategy and purchase model.
func (p CostPresets) Lookup(s Strategy, m PurchaseModel) (StrategyCosts, error) {
	byModel, ok := p[s]
	if !ok {
		return nil, fmt.Errorf("no presets for strategy %q", s)
	}
	costs, ok := byModel[m]
	if !ok || costs == nil {
		return nil, fmt.Errorf("no %q presets for strategy %q", m, s)
	}
	return costs, nil
}

// WithItem sets one cost item and returns the new preset tree. Only the path
// from the root to the edited leaf is copied; every other branch is shared
// with p, which is not modified.
func (p CostPresets) WithItem(s Strategy, m PurchaseModel, category CategoryName, item string, amount float64) (CostPresets, error) {
	if item == "" {
		return nil, fmt.Errorf("cost item name is required")
	}
	costs, err := p.Lookup(s, m)
	if err != nil {
		return nil, err
	}
	current, _ := costs.Category(category)
	edited := current.clone()
	if edited == nil {
		edited = CostCategory{}
	}
	edited[item] = amount

	updated, err := withCategory(costs, category, edited)
	if err != nil {
		return nil, err
	}

	byModel := make(map[PurchaseModel]StrategyCosts, len(p[s]))
	for k, v := range p[s] {
		byModel[k] = v
	}
	byModel[m] = updated

	out := make(CostPresets, len(p))
	for k, v := range p {
		out[k] = v
	}
	out[s] = byModel
	return out, nil
}

// Validate checks that every strategy and purchase model pair has a sheet of
// the right variant with all of its categories present.
func (p CostPresets) Validate() error {
	for _, s := range Strategies() {
		for _, m := range PurchaseModels() {
			costs, err := p.Lookup(s, m)
			if err != nil {
				return err
			}
			if costs.Strategy() != s {
				return fmt.Errorf("%s/%s presets hold a %s cost sheet", s, m, costs.Strategy())
			}
			for _, name := range RelevantCategories(s) {
				if _, ok := costs.Category(name); !ok {
					return fmt.Errorf("%s/%s presets are missing the %s category", s, m, name)
				}
			}
		}
	}
	return nil
}

// UnmarshalJSON decodes the strategy -> model -> category -> item layout.
func (p *CostPresets) UnmarshalJSON(data []byte) error {
	var raw map[Strategy]map[PurchaseModel]map[CategoryName]CostCategory
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(CostPresets, len(raw))
	for s, byModel := range raw {
		out[s] = make(map[PurchaseModel]StrategyCosts, len(byModel))
		for m, categories := range byModel {
			if !m.Valid() {
				return fmt.Errorf("unknown purchase model %q", m)
			}
			costs, err := NewStrategyCosts(s, categories)
			if err != nil {
				return err
			}
			out[s][m] = costs
		}
	}
	*p = out
	return nil
}

// DefaultPresets returns a fresh copy of the built-in preset tables.
func DefaultPresets() CostPresets {
	acquisition := func(closing float64) CostCategory {
		return CostCategory{"closingCosts": closing, "inspectionCosts": 500}
	}
	rehab := func() CostCategory {
		return CostCategory{"renovationBudget": 25000, "permitsAndFees": 1500, "contingency": 2500}
	}
	holding := func(loanInterest float64) CostCategory {
		return CostCategory{
			"propertyTaxes": 2000,
			"utilities":     1200,
			"insurance":     800,
			"hoaFees":       0,
			"loanInterest":  loanInterest,
		}
	}
	selling := func() CostCategory {
		return CostCategory{"realtorCommission": 15000, "closingCosts": 3000, "stagingCosts": 1500}
	}
	setup := func() CostCategory {
		return CostCategory{"repairs": 5000, "propertyManagementSetup": 500}
	}
	operating := func() CostCategory {
		return CostCategory{
			"propertyTaxes":      200,
			"insurance":          100,
			"propertyManagement": 100,
			"maintenanceReserve": 200,
			"vacancyReserve":     100,
		}
	}
	refinance := func() CostCategory {
		return CostCategory{"appraisalFees": 500, "closingCosts": 3000, "prepaymentPenalties": 0}
	}
	wholesale := func() CostCategory {
		return CostCategory{"assignmentFee": 5000, "buyerRehabBudget": 25000, "marketingFees": 1000}
	}

	return CostPresets{
		StrategyFixAndFlip: {
			PurchaseFinanced: FixAndFlipCosts{
				Acquisition: acquisition(3000),
				Rehab:       rehab(),
				Holding:     holding(3000),
				Selling:     selling(),
			},
			PurchaseCash: FixAndFlipCosts{
				Acquisition: acquisition(2000),
				Rehab:       rehab(),
				Holding:     holding(0),
				Selling:     selling(),
			},
		},
		StrategyTurnkeyRental: {
			PurchaseFinanced: TurnkeyRentalCosts{
				Acquisition: acquisition(3000),
				Setup:       setup(),
				Operating:   operating(),
			},
			PurchaseCash: TurnkeyRentalCosts{
				Acquisition: acquisition(2000),
				Setup:       setup(),
				Operating:   operating(),
			},
		},
		StrategyBRRR: {
			PurchaseFinanced: BrrrCosts{
				Acquisition: acquisition(3000),
				Rehab:       rehab(),
				Refinance:   refinance(),
				Operating:   operating(),
			},
			PurchaseCash: BrrrCosts{
				Acquisition: acquisition(2000),
				Rehab:       rehab(),
				Refinance:   refinance(),
				Operating:   operating(),
			},
		},
		StrategyWholesale: {
			PurchaseFinanced: WholesaleCosts{Wholesale: wholesale()},
			PurchaseCash:     WholesaleCosts{Wholesale: wholesale()},
		},
	}
}
