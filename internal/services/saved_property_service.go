package services

import (
	"errors"

	"gorm.io/gorm"

	"dealscout/internal/dealcalc"
	apperrors "dealscout/internal/errors"
	"dealscout/internal/models"
	"dealscout/internal/pagination"
)

// savedPropertyService handles a user's bookmarked listings.
type savedPropertyService struct {
	db         *gorm.DB
	properties PropertyServicer
	settings   SettingsServicer
}

// NewSavedPropertyService creates a new SavedPropertyServicer.
func NewSavedPropertyService(db *gorm.DB, properties PropertyServicer, settings SettingsServicer) SavedPropertyServicer {
	return &savedPropertyService{db: db, properties: properties, settings: settings}
}

// SaveProperty bookmarks a published listing with a snapshot of its profit
// and ROI under the user's current factors.
func (s *savedPropertyService) SaveProperty(userID, propertyID string) (*models.SavedProperty, error) {
	property, err := s.properties.GetPublishedProperty(propertyID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.SavedProperty{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrPropertyAlreadySaved
	}

	settings, err := s.settings.GetSettings(userID)
	if err != nil {
		return nil, err
	}
	snap := dealcalc.Snapshot(property.Listing(), settings.Factors)

	saved := &models.SavedProperty{
		UserID:     userID,
		PropertyID: propertyID,
		Profit:     snap.Profit,
		ROI:        snap.ROI,
	}
	if err := s.db.Create(saved).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrPropertyAlreadySaved
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	saved.Property = *property
	return saved, nil
}

// UnsaveProperty removes a bookmark. The row is deleted outright so the
// listing can be saved again later.
func (s *savedPropertyService) UnsaveProperty(userID, propertyID string) error {
	res := s.db.Unscoped().
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&models.SavedProperty{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrSavedPropertyNotFound
	}
	return nil
}

// GetSavedProperties lists a user's bookmarks, newest first.
func (s *savedPropertyService) GetSavedProperties(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavedProperty], error) {
	query := s.db.Model(&models.SavedProperty{}).Where("user_id = ?", userID)
	resp, err := pagination.Find[models.SavedProperty](query, page, pagination.NewestFirst, "Property")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return resp, nil
}

// SavedPropertyIDs returns the set of listing IDs the user has saved.
func (s *savedPropertyService) SavedPropertyIDs(userID string) (map[string]bool, error) {
	var ids []string
	if err := s.db.Model(&models.SavedProperty{}).
		Where("user_id = ?", userID).
		Pluck("property_id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
