package dealcalc

import "time"

// PropertyStatus is the review state of a listing.
type PropertyStatus string

const (
	StatusPendingReview PropertyStatus = "pending_review"
	StatusPublished     PropertyStatus = "published"
	StatusRejected      PropertyStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s PropertyStatus) Valid() bool {
	switch s {
	case StatusPendingReview, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// Property is an acquisition candidate as the engine sees it. Absent
// estimates are zero; the engine never mutates a Property.
type Property struct {
	ID             string         `json:"id"`
	Address        string         `json:"address"`
	ZipCode        string         `json:"zip_code,omitempty"`
	Price          float64        `json:"price"`
	EstimatedARV   float64        `json:"estimated_arv"`
	RenovationCost float64        `json:"renovation_cost"`
	RentPotential  float64        `json:"rent_potential,omitempty"`
	Bedrooms       int            `json:"bedrooms"`
	Bathrooms      float64        `json:"bathrooms"`
	SquareFeet     int            `json:"square_feet"`
	YearBuilt      int            `json:"year_built"`
	PropertyType   string         `json:"property_type"`
	DealType       string         `json:"deal_type,omitempty"`
	Status         PropertyStatus `json:"status"`
	DateAdded      *time.Time     `json:"date_added,omitempty"`
}

// SavedSnapshot is the profit and ROI of a property at the moment it was
// saved. It is not recomputed when the factors change later.
type SavedSnapshot struct {
	Profit float64 `json:"profit"`
	ROI    float64 `json:"roi"`
}

// Snapshot captures the current profit and ROI of p under f.
func Snapshot(p Property, f CalculationFactors) SavedSnapshot {
	return SavedSnapshot{
		Profit: NetProfit(p, f),
		ROI:    ROI(p.EstimatedARV, p.Price, p.RenovationCost),
	}
}
