package services

import (
	"context"

	"dealscout/internal/dealcalc"
	apperrors "dealscout/internal/errors"
	"dealscout/internal/metrics"
)

// dealService runs deal search and single-listing analysis under the
// caller's stored factors.
type dealService struct {
	properties PropertyServicer
	settings   SettingsServicer
	saved      SavedPropertyServicer
}

// NewDealService creates a new DealServicer.
func NewDealService(properties PropertyServicer, settings SettingsServicer, saved SavedPropertyServicer) DealServicer {
	return &dealService{properties: properties, settings: settings, saved: saved}
}

// Search filters and sorts the published listings. ROI and net profit are
// evaluated under the caller's factors for both filtering and sorting.
func (s *dealService) Search(ctx context.Context, userID string, query DealQuery) ([]DealResult, error) {
	if query.SortKey == "" {
		query.SortKey = dealcalc.SortDateAdded
	}
	if query.SortOrder == "" {
		query.SortOrder = dealcalc.SortDesc
	}
	if !query.SortKey.Valid() || !query.SortOrder.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid sort")
	}

	settings, err := s.settings.GetSettings(userID)
	if err != nil {
		return nil, err
	}
	savedIDs, err := s.saved.SavedPropertyIDs(userID)
	if err != nil {
		return nil, err
	}
	listings, err := s.properties.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	factors := settings.Factors
	filter := query.Filter
	filter.SavedIDs = savedIDs

	matched := dealcalc.Apply(listings, filter, factors)
	if err := dealcalc.Sort(matched, query.SortKey, query.SortOrder, factors); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}

	results := make([]DealResult, 0, len(matched))
	for _, p := range matched {
		results = append(results, DealResult{
			Property: p,
			Metrics:  dealcalc.Evaluate(p, factors),
			Saved:    savedIDs[p.ID],
		})
	}

	metrics.DealSearches.WithLabelValues(string(factors.Strategy)).Inc()
	metrics.DealSearchResults.Observe(float64(len(results)))
	return results, nil
}

// Analyze evaluates one published listing. Overrides apply to this call only
// and return the factors actually used.
func (s *dealService) Analyze(ctx context.Context, userID, propertyID string, overrides *FactorOverrides) (*DealResult, dealcalc.CalculationFactors, error) {
	settings, err := s.settings.GetSettings(userID)
	if err != nil {
		return nil, dealcalc.CalculationFactors{}, err
	}
	factors := settings.Factors

	if overrides != nil {
		factors, err = applyOverrides(factors, *overrides, settings.UseDefaults)
		if err != nil {
			return nil, dealcalc.CalculationFactors{}, err
		}
	}

	property, err := s.properties.GetPublishedProperty(propertyID)
	if err != nil {
		return nil, dealcalc.CalculationFactors{}, err
	}
	savedIDs, err := s.saved.SavedPropertyIDs(userID)
	if err != nil {
		return nil, dealcalc.CalculationFactors{}, err
	}

	listing := property.Listing()
	metrics.DealAnalyses.WithLabelValues(string(factors.Strategy), string(factors.PurchaseModel)).Inc()
	return &DealResult{
		Property: listing,
		Metrics:  dealcalc.Evaluate(listing, factors),
		Saved:    savedIDs[listing.ID],
	}, factors, nil
}

func applyOverrides(f dealcalc.CalculationFactors, o FactorOverrides, useDefaults bool) (dealcalc.CalculationFactors, error) {
	var err error
	if o.Strategy != nil {
		if !o.Strategy.Valid() {
			return f, apperrors.ErrInvalidStrategy
		}
		if f, err = f.WithStrategy(*o.Strategy, useDefaults); err != nil {
			return f, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if o.PurchaseModel != nil {
		if !o.PurchaseModel.Valid() {
			return f, apperrors.ErrInvalidPurchaseModel
		}
		if f, err = f.WithPurchaseModel(*o.PurchaseModel, useDefaults); err != nil {
			return f, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return applyFactorsUpdate(f, o.FactorsUpdate), nil
}
