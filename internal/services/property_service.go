package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"dealscout/internal/cache"
	"dealscout/internal/dealcalc"
	apperrors "dealscout/internal/errors"
	"dealscout/internal/logger"
	"dealscout/internal/metrics"
	"dealscout/internal/models"
	"dealscout/internal/pagination"
)

// propertyService handles listing submission, review and publication.
type propertyService struct {
	db    *gorm.DB
	cache cache.ListingCache
}

// NewPropertyService creates a new PropertyServicer. The cache holds the
// published listing set and is invalidated whenever a review publishes
// a listing.
func NewPropertyService(db *gorm.DB, listingCache cache.ListingCache) PropertyServicer {
	if listingCache == nil {
		listingCache = cache.Noop{}
	}
	return &propertyService{db: db, cache: listingCache}
}

func newPendingProperty(in PropertyInput) *models.Property {
	return &models.Property{
		Address:        in.Address,
		ZipCode:        in.ZipCode,
		Price:          in.Price,
		EstimatedARV:   in.EstimatedARV,
		RenovationCost: in.RenovationCost,
		RentPotential:  in.RentPotential,
		Bedrooms:       in.Bedrooms,
		Bathrooms:      in.Bathrooms,
		SquareFeet:     in.SquareFeet,
		YearBuilt:      in.YearBuilt,
		PropertyType:   in.PropertyType,
		DealType:       in.DealType,
		Status:         dealcalc.StatusPendingReview,
	}
}

func validatePropertyInput(in PropertyInput) error {
	if in.Address == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "address is required")
	}
	if in.Price <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be positive")
	}
	return nil
}

// SubmitProperty queues a listing for review.
func (s *propertyService) SubmitProperty(submitterID string, in PropertyInput) (*models.Property, error) {
	if err := validatePropertyInput(in); err != nil {
		return nil, err
	}

	p := newPendingProperty(in)
	p.SubmittedByID = &submitterID
	if err := s.db.Create(p).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return p, nil
}

// IngestProperties queues a batch from the listing pipeline. The batch is
// all-or-nothing.
func (s *propertyService) IngestProperties(in []PropertyInput) ([]models.Property, error) {
	if len(in) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one property is required")
	}
	for _, item := range in {
		if err := validatePropertyInput(item); err != nil {
			return nil, err
		}
	}

	props := make([]models.Property, 0, len(in))
	for _, item := range in {
		props = append(props, *newPendingProperty(item))
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&props).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	metrics.PropertiesIngested.Add(float64(len(props)))
	return props, nil
}

// GetSubmissions lists the listings a user submitted, newest first.
func (s *propertyService) GetSubmissions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Property], error) {
	query := s.db.Model(&models.Property{}).Where("submitted_by_id = ?", userID)
	return s.paginate(query, page, pagination.NewestFirst)
}

// GetReviewQueue lists pending listings, oldest first.
func (s *propertyService) GetReviewQueue(page pagination.PageRequest) (*pagination.PageResponse[models.Property], error) {
	query := s.db.Model(&models.Property{}).Where("status = ?", dealcalc.StatusPendingReview)
	return s.paginate(query, page, pagination.OldestFirst)
}

func (s *propertyService) paginate(query *gorm.DB, page pagination.PageRequest, order string) (*pagination.PageResponse[models.Property], error) {
	resp, err := pagination.Find[models.Property](query, page, order)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return resp, nil
}

// ReviewProperty approves or rejects a pending listing. Only pending
// listings can be reviewed; a decision is final.
func (s *propertyService) ReviewProperty(ctx context.Context, reviewerID, propertyID string, decision ReviewDecision) (*models.Property, error) {
	var property models.Property
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", propertyID).First(&property).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPropertyNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if property.Status != dealcalc.StatusPendingReview {
			return apperrors.ErrPropertyNotReviewable
		}

		now := time.Now()
		property.Status = dealcalc.StatusRejected
		if decision.Approve {
			property.Status = dealcalc.StatusPublished
		}
		if decision.EstimatedARV != nil {
			property.EstimatedARV = *decision.EstimatedARV
		}
		if decision.RenovationCost != nil {
			property.RenovationCost = *decision.RenovationCost
		}
		property.ReviewedByID = &reviewerID
		property.ReviewNotes = decision.Notes
		property.ReviewedAt = &now

		// the status guard makes concurrent reviews of one listing race-free
		res := tx.Model(&models.Property{}).
			Where("id = ? AND status = ?", property.ID, dealcalc.StatusPendingReview).
			Updates(map[string]interface{}{
				"status":          property.Status,
				"estimated_arv":   property.EstimatedARV,
				"renovation_cost": property.RenovationCost,
				"reviewed_by_id":  reviewerID,
				"review_notes":    property.ReviewNotes,
				"reviewed_at":     now,
			})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrPropertyNotReviewable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PropertyReviews.WithLabelValues(string(property.Status)).Inc()
	if property.Status == dealcalc.StatusPublished {
		if err := s.cache.Invalidate(ctx); err != nil {
			logger.Named("property_service").Warnw("failed to invalidate listing cache", "error", err, "property_id", property.ID)
		}
	}
	return &property, nil
}

// GetPublishedProperty returns a listing visible to deal search.
func (s *propertyService) GetPublishedProperty(id string) (*models.Property, error) {
	var property models.Property
	err := s.db.Where("id = ? AND status = ?", id, dealcalc.StatusPublished).First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPropertyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &property, nil
}

// ListPublished returns every published listing, oldest first, from the
// cache when possible. Cache failures fall back to the database.
func (s *propertyService) ListPublished(ctx context.Context) ([]dealcalc.Property, error) {
	log := logger.Named("property_service")

	cached, ok, err := s.cache.GetPublished(ctx)
	switch {
	case err != nil:
		metrics.ListingCacheLookups.WithLabelValues("error").Inc()
		log.Warnw("listing cache read failed", "error", err)
	case ok:
		metrics.ListingCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.ListingCacheLookups.WithLabelValues("miss").Inc()
	}

	var rows []models.Property
	if err := s.db.WithContext(ctx).
		Where("status = ?", dealcalc.StatusPublished).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	listings := make([]dealcalc.Property, 0, len(rows))
	for i := range rows {
		listings = append(listings, rows[i].Listing())
	}

	if err := s.cache.SetPublished(ctx, listings); err != nil {
		log.Warnw("listing cache write failed", "error", err)
	}
	return listings, nil
}
