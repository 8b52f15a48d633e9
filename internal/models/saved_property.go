package models

// SavedProperty bookmarks a listing for a user together with the profit and
// ROI it showed under the user's factors at the time of saving.
type SavedProperty struct {
	Base
	UserID     string   `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_property" json:"user_id"`
	PropertyID string   `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_property" json:"property_id"`
	Property   Property `gorm:"foreignKey:PropertyID" json:"property"`
	Profit     float64  `json:"profit"`
	ROI        float64  `json:"roi"`
}
