package dealcalc

import (
	"encoding/json"
	"fmt"
	"sort"
)

// CostCategory maps a cost item name to its amount.
type CostCategory map[string]float64

// TotalForCategory sums every item in c. A nil or empty category totals 0.
// Items are summed in sorted key order so the result does not depend on map
// iteration order. A client summing in entry order can differ from this in
// the last bit when amounts carry cents; whole-dollar amounts, which is
// every preset, agree exactly.
func TotalForCategory(c CostCategory) float64 {
	total := 0.0
	for _, k := range c.Items() {
		total += c[k]
	}
	return total
}

// Items returns the item names of c in sorted order.
func (c CostCategory) Items() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c CostCategory) clone() CostCategory {
	if c == nil {
		return nil
	}
	out := make(CostCategory, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// StrategyCosts is the cost sheet of one strategy. It is a closed set of
// variants: FixAndFlipCosts, TurnkeyRentalCosts, BrrrCosts and
// WholesaleCosts.
type StrategyCosts interface {
	// Strategy is the strategy whose category layout this sheet follows.
	Strategy() Strategy
	// Category returns the named category. ok is false when the variant does
	// not carry that category or it was never filled in.
	Category(name CategoryName) (c CostCategory, ok bool)
	// Categories lists the categories this variant carries.
	Categories() []CategoryName

	sealed()
}

// FixAndFlipCosts is the cost sheet for StrategyFixAndFlip.
type FixAndFlipCosts struct {
	Acquisition CostCategory `json:"acquisition"`
	Rehab       CostCategory `json:"rehab"`
	Holding     CostCategory `json:"holding"`
	Selling     CostCategory `json:"selling"`
}

func (FixAndFlipCosts) Strategy() Strategy { return StrategyFixAndFlip }

func (c FixAndFlipCosts) Category(name CategoryName) (CostCategory, bool) {
	switch name {
	case CategoryAcquisition:
		return c.Acquisition, c.Acquisition != nil
	case CategoryRehab:
		return c.Rehab, c.Rehab != nil
	case CategoryHolding:
		return c.Holding, c.Holding != nil
	case CategorySelling:
		return c.Selling, c.Selling != nil
	}
	return nil, false
}

func (FixAndFlipCosts) Categories() []CategoryName { return RelevantCategories(StrategyFixAndFlip) }

func (FixAndFlipCosts) sealed() {}

// TurnkeyRentalCosts is the cost sheet for StrategyTurnkeyRental.
type TurnkeyRentalCosts struct {
	Acquisition CostCategory `json:"acquisition"`
	Setup       CostCategory `json:"setup"`
	Operating   CostCategory `json:"operating"`
}

func (TurnkeyRentalCosts) Strategy() Strategy { return StrategyTurnkeyRental }

func (c TurnkeyRentalCosts) Category(name CategoryName) (CostCategory, bool) {
	switch name {
	case CategoryAcquisition:
		return c.Acquisition, c.Acquisition != nil
	case CategorySetup:
		return c.Setup, c.Setup != nil
	case CategoryOperating:
		return c.Operating, c.Operating != nil
	}
	return nil, false
}

func (TurnkeyRentalCosts) Categories() []CategoryName {
	return RelevantCategories(StrategyTurnkeyRental)
}

func (TurnkeyRentalCosts) sealed() {}

// BrrrCosts is the cost sheet for StrategyBRRR.
type BrrrCosts struct {
	Acquisition CostCategory `json:"acquisition"`
	Rehab       CostCategory `json:"rehab"`
	Refinance   CostCategory `json:"refinance"`
	Operating   CostCategory `json:"operating"`
}

func (BrrrCosts) Strategy() Strategy { return StrategyBRRR }

func (c BrrrCosts) Category(name CategoryName) (CostCategory, bool) {
	switch name {
	case CategoryAcquisition:
		return c.Acquisition, c.Acquisition != nil
	case CategoryRehab:
		return c.Rehab, c.Rehab != nil
	case CategoryRefinance:
		return c.Refinance, c.Refinance != nil
	case CategoryOperating:
		return c.Operating, c.Operating != nil
	}
	return nil, false
}

func (BrrrCosts) Categories() []CategoryName { return RelevantCategories(StrategyBRRR) }

func (BrrrCosts) sealed() {}

// WholesaleCosts is the cost sheet for StrategyWholesale.
type WholesaleCosts struct {
	Wholesale CostCategory `json:"wholesale"`
}

func (WholesaleCosts) Strategy() Strategy { return StrategyWholesale }

func (c WholesaleCosts) Category(name CategoryName) (CostCategory, bool) {
	if name == CategoryWholesale {
		return c.Wholesale, c.Wholesale != nil
	}
	return nil, false
}

func (WholesaleCosts) Categories() []CategoryName { return RelevantCategories(StrategyWholesale) }

func (WholesaleCosts) sealed() {}

// NewStrategyCosts builds the variant for s from a category map. Categories
// absent from the map stay empty; categories s does not carry are rejected.
func NewStrategyCosts(s Strategy, categories map[CategoryName]CostCategory) (StrategyCosts, error) {
	var costs StrategyCosts
	switch s {
	case StrategyFixAndFlip:
		costs = FixAndFlipCosts{}
	case StrategyTurnkeyRental:
		costs = TurnkeyRentalCosts{}
	case StrategyBRRR:
		costs = BrrrCosts{}
	case StrategyWholesale:
		costs = WholesaleCosts{}
	default:
		return nil, fmt.Errorf("unknown strategy %q", s)
	}
	for name, c := range categories {
		var err error
		if costs, err = withCategory(costs, name, c.clone()); err != nil {
			return nil, err
		}
	}
	return costs, nil
}

// withCategory returns a copy of costs with one category replaced. The other
// categories are shared with the original.
func withCategory(costs StrategyCosts, name CategoryName, c CostCategory) (StrategyCosts, error) {
	unknown := fmt.Errorf("strategy %q has no %q cost category", costs.Strategy(), name)
	switch v := costs.(type) {
	case FixAndFlipCosts:
		switch name {
		case CategoryAcquisition:
			v.Acquisition = c
		case CategoryRehab:
			v.Rehab = c
		case CategoryHolding:
			v.Holding = c
		case CategorySelling:
			v.Selling = c
		default:
			return nil, unknown
		}
		return v, nil
	case TurnkeyRentalCosts:
		switch name {
		case CategoryAcquisition:
			v.Acquisition = c
		case CategorySetup:
			v.Setup = c
		case CategoryOperating:
			v.Operating = c
		default:
			return nil, unknown
		}
		return v, nil
	case BrrrCosts:
		switch name {
		case CategoryAcquisition:
			v.Acquisition = c
		case CategoryRehab:
			v.Rehab = c
		case CategoryRefinance:
			v.Refinance = c
		case CategoryOperating:
			v.Operating = c
		default:
			return nil, unknown
		}
		return v, nil
	case WholesaleCosts:
		if name != CategoryWholesale {
			return nil, unknown
		}
		v.Wholesale = c
		return v, nil
	}
	return nil, fmt.Errorf("unsupported cost sheet %T", costs)
}

// CloneCosts deep-copies a cost sheet so the copy can be edited freely.
func CloneCosts(costs StrategyCosts) StrategyCosts {
	if costs == nil {
		return nil
	}
	out, err := NewStrategyCosts(costs.Strategy(), categoryMap(costs))
	if err != nil {
		return nil
	}
	return out
}

func categoryMap(costs StrategyCosts) map[CategoryName]CostCategory {
	out := make(map[CategoryName]CostCategory, len(costs.Categories()))
	for _, name := range costs.Categories() {
		if c, ok := costs.Category(name); ok {
			out[name] = c
		}
	}
	return out
}

// TotalForStrategy sums the categories relevant to s. Categories the sheet
// carries that s does not use are ignored, and categories s needs that the
// sheet lacks count as 0. This keeps a sheet left over from a previous
// strategy from leaking into the total.
func TotalForStrategy(costs StrategyCosts, s Strategy) float64 {
	if costs == nil {
		return 0
	}
	total := 0.0
	for _, name := range RelevantCategories(s) {
		c, _ := costs.Category(name)
		total += TotalForCategory(c)
	}
	return total
}

// CategoryTotal is one line of a cost breakdown.
type CategoryTotal struct {
	Category CategoryName `json:"category"`
	Label    string       `json:"label"`
	Items    CostCategory `json:"items"`
	Total    float64      `json:"total"`
}

// Breakdown lists the relevant categories of s with their totals.
func Breakdown(costs StrategyCosts, s Strategy) []CategoryTotal {
	names := RelevantCategories(s)
	out := make([]CategoryTotal, 0, len(names))
	for _, name := range names {
		var c CostCategory
		if costs != nil {
			c, _ = costs.Category(name)
		}
		if c == nil {
			c = CostCategory{}
		}
		out = append(out, CategoryTotal{
			Category: name,
			Label:    name.Label(),
			Items:    c,
			Total:    TotalForCategory(c),
		})
	}
	return out
}

// CostSheet wraps StrategyCosts for JSON. The encoding carries the variant's
// strategy so a sheet kept across a strategy switch decodes to the same
// variant.
type CostSheet struct {
	StrategyCosts
}

type costSheetJSON struct {
	Strategy   Strategy                      `json:"strategy"`
	Categories map[CategoryName]CostCategory `json:"categories"`
}

// MarshalJSON implements json.Marshaler.
func (s CostSheet) MarshalJSON() ([]byte, error) {
	if s.StrategyCosts == nil {
		return []byte("null"), nil
	}
	return json.Marshal(costSheetJSON{
		Strategy:   s.Strategy(),
		Categories: categoryMap(s.StrategyCosts),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *CostSheet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		s.StrategyCosts = nil
		return nil
	}
	var raw costSheetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	costs, err := NewStrategyCosts(raw.Strategy, raw.Categories)
	if err != nil {
		return err
	}
	s.StrategyCosts = costs
	return nil
}
