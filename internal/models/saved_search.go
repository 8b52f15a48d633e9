package models

import "dealscout/internal/dealcalc"

// SavedSearch is a named filter and sort combination.
type SavedSearch struct {
	Base
	UserID    string             `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string             `gorm:"not null" json:"name"`
	Filter    dealcalc.Filter    `gorm:"type:text;serializer:json" json:"filter"`
	SortKey   dealcalc.SortKey   `gorm:"size:20" json:"sort_key"`
	SortOrder dealcalc.SortOrder `gorm:"size:4" json:"sort_order"`
}
