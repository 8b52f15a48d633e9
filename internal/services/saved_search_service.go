package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "dealscout/internal/errors"
	"dealscout/internal/models"
	"dealscout/internal/pagination"
)

// savedSearchService handles named filter and sort combinations.
type savedSearchService struct {
	db *gorm.DB
}

// NewSavedSearchService creates a new SavedSearchServicer.
func NewSavedSearchService(db *gorm.DB) SavedSearchServicer {
	return &savedSearchService{db: db}
}

// CreateSavedSearch stores query under name. The saved-only flag is kept
// but the saved ID set is resolved again whenever the search runs.
func (s *savedSearchService) CreateSavedSearch(userID, name string, query DealQuery) (*models.SavedSearch, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !query.SortKey.Valid() || !query.SortOrder.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid sort")
	}

	filter := query.Filter
	filter.SavedIDs = nil
	search := &models.SavedSearch{
		UserID:    userID,
		Name:      name,
		Filter:    filter,
		SortKey:   query.SortKey,
		SortOrder: query.SortOrder,
	}
	if err := s.db.Create(search).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return search, nil
}

// GetSavedSearches lists a user's saved searches, newest first.
func (s *savedSearchService) GetSavedSearches(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavedSearch], error) {
	query := s.db.Model(&models.SavedSearch{}).Where("user_id = ?", userID)
	resp, err := pagination.Find[models.SavedSearch](query, page, pagination.NewestFirst)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return resp, nil
}

// GetSavedSearch returns one of the user's saved searches.
func (s *savedSearchService) GetSavedSearch(userID, searchID string) (*models.SavedSearch, error) {
	var search models.SavedSearch
	if err := s.db.Where("id = ? AND user_id = ?", searchID, userID).First(&search).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSavedSearchNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &search, nil
}

// DeleteSavedSearch removes one of the user's saved searches.
func (s *savedSearchService) DeleteSavedSearch(userID, searchID string) error {
	res := s.db.Where("id = ? AND user_id = ?", searchID, userID).Delete(&models.SavedSearch{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrSavedSearchNotFound
	}
	return nil
}
