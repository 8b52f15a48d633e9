package models

import "dealscout/internal/dealcalc"

// AnalysisSettings persists one user's calculation factors. UseDefaults
// keeps the current costs in step with the presets whenever the strategy,
// purchase model or presets change.
type AnalysisSettings struct {
	Base
	UserID      string                      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Factors     dealcalc.CalculationFactors `gorm:"type:text;serializer:json" json:"factors"`
	UseDefaults bool                        `gorm:"not null" json:"use_defaults"`
}
