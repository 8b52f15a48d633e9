package dealcalc

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// DealTypeAll disables deal type filtering.
const DealTypeAll = "all"

// Filter is a conjunction of listing predicates. Zero-width ranges and empty
// selections behave exactly as written; use DefaultFilter for the permissive
// starting point.
type Filter struct {
	SearchTerm     string          `json:"search_term"`
	PriceRange     [2]float64      `json:"price_range"`
	MinBedrooms    int             `json:"min_bedrooms"`
	MinROI         float64         `json:"min_roi"`
	PropertyTypes  []string        `json:"property_types"`
	YearBuiltRange [2]int          `json:"year_built_range"`
	MinNetProfit   float64         `json:"min_net_profit"`
	DealType       string          `json:"deal_type"`
	SavedOnly      bool            `json:"saved_only"`
	SavedIDs       map[string]bool `json:"-"`
}

// DefaultFilter mirrors the search screen's reset state.
func DefaultFilter() Filter {
	return Filter{
		PriceRange:     [2]float64{0, 200000},
		MinBedrooms:    1,
		YearBuiltRange: [2]int{1900, 2024},
		DealType:       DealTypeAll,
	}
}

// Matches reports whether p passes every predicate of the filter. ROI and
// net profit are computed under f on each call.
func (flt Filter) Matches(p Property, f CalculationFactors) bool {
	if flt.SavedOnly && !flt.SavedIDs[p.ID] {
		return false
	}
	if !matchesSearch(p, flt.SearchTerm) {
		return false
	}
	if p.Price < flt.PriceRange[0] || p.Price > flt.PriceRange[1] {
		return false
	}
	if p.Bedrooms < flt.MinBedrooms {
		return false
	}
	if !(ROI(p.EstimatedARV, p.Price, p.RenovationCost) >= flt.MinROI) {
		return false
	}
	if len(flt.PropertyTypes) > 0 && !slices.Contains(flt.PropertyTypes, p.PropertyType) {
		return false
	}
	if p.YearBuilt < flt.YearBuiltRange[0] || p.YearBuilt > flt.YearBuiltRange[1] {
		return false
	}
	if !(NetProfit(p, f) >= flt.MinNetProfit) {
		return false
	}
	if flt.DealType != DealTypeAll && p.DealType != flt.DealType {
		return false
	}
	return true
}

func matchesSearch(p Property, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Address), term) ||
		strings.Contains(strings.ToLower(p.ZipCode), term)
}

// Apply returns the properties that match flt, in input order.
func Apply(props []Property, flt Filter, f CalculationFactors) []Property {
	out := make([]Property, 0, len(props))
	for _, p := range props {
		if flt.Matches(p, f) {
			out = append(out, p)
		}
	}
	return out
}

// SortKey selects the field listings are ordered by.
type SortKey string

const (
	SortDateAdded  SortKey = "dateAdded"
	SortPrice      SortKey = "price"
	SortROI        SortKey = "roi"
	SortNetProfit  SortKey = "netProfit"
	SortBedrooms   SortKey = "bedrooms"
	SortSquareFeet SortKey = "squareFeet"
	SortYearBuilt  SortKey = "yearBuilt"
)

// SortKeys lists every sort key.
func SortKeys() []SortKey {
	return []SortKey{SortDateAdded, SortPrice, SortROI, SortNetProfit, SortBedrooms, SortSquareFeet, SortYearBuilt}
}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys(), k)
}

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// Compare orders a before b by key, ascending. ROI and net profit are
// recomputed under f. Floats go through cmp.Compare, so NaN sorts before
// every number and the order stays total.
func Compare(a, b Property, key SortKey, f CalculationFactors) int {
	switch key {
	case SortDateAdded:
		return dateAdded(a).Compare(dateAdded(b))
	case SortPrice:
		return cmp.Compare(a.Price, b.Price)
	case SortROI:
		return cmp.Compare(
			ROI(a.EstimatedARV, a.Price, a.RenovationCost),
			ROI(b.EstimatedARV, b.Price, b.RenovationCost),
		)
	case SortNetProfit:
		return cmp.Compare(NetProfit(a, f), NetProfit(b, f))
	case SortBedrooms:
		return cmp.Compare(a.Bedrooms, b.Bedrooms)
	case SortSquareFeet:
		return cmp.Compare(a.SquareFeet, b.SquareFeet)
	case SortYearBuilt:
		return cmp.Compare(a.YearBuilt, b.YearBuilt)
	}
	return 0
}

// dateAdded treats a missing date as the Unix epoch.
func dateAdded(p Property) time.Time {
	if p.DateAdded == nil {
		return time.Unix(0, 0).UTC()
	}
	return *p.DateAdded
}

// Sort orders props in place by a single key. The sort is stable: properties
// with equal keys keep their input order in both directions.
func Sort(props []Property, key SortKey, order SortOrder, f CalculationFactors) error {
	if !key.Valid() {
		return fmt.Errorf("unknown sort key %q", key)
	}
	if !order.Valid() {
		return fmt.Errorf("unknown sort order %q", order)
	}
	slices.SortStableFunc(props, func(a, b Property) int {
		c := Compare(a, b, key, f)
		if order == SortDesc {
			return -c
		}
		return c
	})
	return nil
}
