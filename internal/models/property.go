package models

import (
	"time"

	"dealscout/internal/dealcalc"
)

// Property is a listing as stored. Submissions start in pending_review and
// only published listings are visible to deal search.
type Property struct {
	Base
	SubmittedByID  *string                 `gorm:"type:uuid;index" json:"submitted_by_id,omitempty"`
	Address        string                  `gorm:"not null" json:"address"`
	ZipCode        string                  `gorm:"size:10;index" json:"zip_code"`
	Price          float64                 `gorm:"not null" json:"price"`
	EstimatedARV   float64                 `json:"estimated_arv"`
	RenovationCost float64                 `json:"renovation_cost"`
	RentPotential  float64                 `json:"rent_potential"`
	Bedrooms       int                     `json:"bedrooms"`
	Bathrooms      float64                 `json:"bathrooms"`
	SquareFeet     int                     `json:"square_feet"`
	YearBuilt      int                     `json:"year_built"`
	PropertyType   string                  `gorm:"size:50" json:"property_type"`
	DealType       string                  `gorm:"size:50" json:"deal_type"`
	Status         dealcalc.PropertyStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ReviewedByID   *string                 `gorm:"type:uuid" json:"reviewed_by_id,omitempty"`
	ReviewNotes    string                  `json:"review_notes,omitempty"`
	ReviewedAt     *time.Time              `json:"reviewed_at,omitempty"`
}

// Listing converts the row into the value the deal calculations work on.
// The listing date is the submission date.
func (p *Property) Listing() dealcalc.Property {
	added := p.CreatedAt
	return dealcalc.Property{
		ID:             p.ID,
		Address:        p.Address,
		ZipCode:        p.ZipCode,
		Price:          p.Price,
		EstimatedARV:   p.EstimatedARV,
		RenovationCost: p.RenovationCost,
		RentPotential:  p.RentPotential,
		Bedrooms:       p.Bedrooms,
		Bathrooms:      p.Bathrooms,
		SquareFeet:     p.SquareFeet,
		YearBuilt:      p.YearBuilt,
		PropertyType:   p.PropertyType,
		DealType:       p.DealType,
		Status:         p.Status,
		DateAdded:      &added,
	}
}
