package services

import (
	"errors"
	"slices"

	"gorm.io/gorm"

	"dealscout/internal/dealcalc"
	apperrors "dealscout/internal/errors"
	"dealscout/internal/models"
)

// settingsService persists each user's calculation factors. All factor
// arithmetic lives in dealcalc; this service loads, applies and stores.
type settingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &settingsService{db: db}
}

// GetSettings returns the user's settings, creating the defaults on first
// use.
func (s *settingsService) GetSettings(userID string) (*models.AnalysisSettings, error) {
	settings, err := s.load(s.db, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings = &models.AnalysisSettings{
		UserID:      userID,
		Factors:     dealcalc.DefaultFactors(),
		UseDefaults: true,
	}
	if err := s.db.Create(settings).Error; err != nil {
		// lost a race with a concurrent first read
		if existing, loadErr := s.load(s.db, userID); loadErr == nil {
			return existing, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}

func (s *settingsService) load(db *gorm.DB, userID string) (*models.AnalysisSettings, error) {
	var settings models.AnalysisSettings
	if err := db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, err
	}
	if err := settings.Factors.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// mutate applies change to the stored settings inside a transaction.
func (s *settingsService) mutate(userID string, change func(*models.AnalysisSettings) error) (*models.AnalysisSettings, error) {
	if _, err := s.GetSettings(userID); err != nil {
		return nil, err
	}

	var settings *models.AnalysisSettings
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		settings, err = s.load(tx, userID)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := change(settings); err != nil {
			return err
		}
		if err := tx.Save(settings).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateFactors changes the scalar factors that are set in update.
func (s *settingsService) UpdateFactors(userID string, update FactorsUpdate) (*models.AnalysisSettings, error) {
	return s.mutate(userID, func(st *models.AnalysisSettings) error {
		st.Factors = applyFactorsUpdate(st.Factors, update)
		return nil
	})
}

func applyFactorsUpdate(f dealcalc.CalculationFactors, u FactorsUpdate) dealcalc.CalculationFactors {
	if u.InterestRate != nil {
		f.InterestRate = *u.InterestRate
	}
	if u.DownPaymentPercentage != nil {
		f.DownPaymentPercentage = *u.DownPaymentPercentage
	}
	if u.RehabFinancingPercentage != nil {
		f.RehabFinancingPercentage = *u.RehabFinancingPercentage
	}
	if u.HoldingPeriod != nil {
		f.HoldingPeriod = *u.HoldingPeriod
	}
	if u.MiscCostsPercentage != nil {
		f.MiscCostsPercentage = *u.MiscCostsPercentage
	}
	return f
}

// SetStrategy switches the active strategy.
func (s *settingsService) SetStrategy(userID string, strategy dealcalc.Strategy) (*models.AnalysisSettings, error) {
	if !strategy.Valid() {
		return nil, apperrors.ErrInvalidStrategy
	}
	return s.mutate(userID, func(st *models.AnalysisSettings) error {
		f, err := st.Factors.WithStrategy(strategy, st.UseDefaults)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		st.Factors = f
		return nil
	})
}

// SetPurchaseModel switches between financed and cash.
func (s *settingsService) SetPurchaseModel(userID string, model dealcalc.PurchaseModel) (*models.AnalysisSettings, error) {
	if !model.Valid() {
		return nil, apperrors.ErrInvalidPurchaseModel
	}
	return s.mutate(userID, func(st *models.AnalysisSettings) error {
		f, err := st.Factors.WithPurchaseModel(model, st.UseDefaults)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		st.Factors = f
		return nil
	})
}

// SetUseDefaults toggles preset tracking. Turning it on replaces the
// current costs with the active preset.
func (s *settingsService) SetUseDefaults(userID string, useDefaults bool) (*models.AnalysisSettings, error) {
	return s.mutate(userID, func(st *models.AnalysisSettings) error {
		if useDefaults {
			f, err := st.Factors.WithDefaultsApplied()
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			st.Factors = f
		}
		st.UseDefaults = useDefaults
		return nil
	})
}

// EditPreset sets one preset item. The current costs follow when defaults
// are on.
func (s *settingsService) EditPreset(userID string, strategy dealcalc.Strategy, model dealcalc.PurchaseModel, category dealcalc.CategoryName, item string, amount float64) (*models.AnalysisSettings, error) {
	if !strategy.Valid() {
		return nil, apperrors.ErrInvalidStrategy
	}
	if !model.Valid() {
		return nil, apperrors.ErrInvalidPurchaseModel
	}
	if !slices.Contains(dealcalc.RelevantCategories(strategy), category) {
		return nil, apperrors.ErrUnknownCostCategory
	}
	if item == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cost item name is required")
	}

	return s.mutate(userID, func(st *models.AnalysisSettings) error {
		presets, err := st.Factors.CostPresets.WithItem(strategy, model, category, item, amount)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrUnknownCostCategory, err)
		}
		f, err := st.Factors.WithPresets(presets, st.UseDefaults)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		st.Factors = f
		return nil
	})
}

// EditCurrentCost sets one item of the current costs only. With defaults off
// the sheet may still belong to a previous strategy; editing a category of
// the active strategy reshapes it.
func (s *settingsService) EditCurrentCost(userID string, category dealcalc.CategoryName, item string, amount float64) (*models.AnalysisSettings, error) {
	if item == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cost item name is required")
	}
	return s.mutate(userID, func(st *models.AnalysisSettings) error {
		f, err := st.Factors.WithCurrentItem(category, item, amount)
		if err != nil {
			return apperrors.WithMessage(apperrors.ErrUnknownCostCategory, err.Error())
		}
		st.Factors = f
		return nil
	})
}

// ResetPresets restores the built-in preset tables.
func (s *settingsService) ResetPresets(userID string) (*models.AnalysisSettings, error) {
	return s.mutate(userID, func(st *models.AnalysisSettings) error {
		f, err := st.Factors.WithPresets(dealcalc.DefaultPresets(), st.UseDefaults)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		st.Factors = f
		return nil
	})
}

// UpdateMiscBreakdown replaces the itemized misc costs. The breakdown is
// informational; net profit keeps using the misc percentage.
func (s *settingsService) UpdateMiscBreakdown(userID string, breakdown dealcalc.MiscCostsBreakdown) (*models.AnalysisSettings, error) {
	return s.mutate(userID, func(st *models.AnalysisSettings) error {
		st.Factors.MiscCostsBreakdown = breakdown
		return nil
	})
}
