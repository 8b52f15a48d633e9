package services

import (
	"context"

	"dealscout/internal/dealcalc"
	"dealscout/internal/models"
	"dealscout/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	RegisterUser(email, password, firstName, lastName string, role models.Role) (*models.User, error)
	EnsureAdmin(email, password string) (*models.User, bool, error)
	CreateUser(email, password, firstName, lastName string, role models.Role) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// PropertyInput carries the listing fields a submitter provides.
type PropertyInput struct {
	Address        string
	ZipCode        string
	Price          float64
	EstimatedARV   float64
	RenovationCost float64
	RentPotential  float64
	Bedrooms       int
	Bathrooms      float64
	SquareFeet     int
	YearBuilt      int
	PropertyType   string
	DealType       string
}

// ReviewDecision is a reviewer's verdict on a pending listing. Nil estimates
// keep the submitted values.
type ReviewDecision struct {
	Approve        bool
	EstimatedARV   *float64
	RenovationCost *float64
	Notes          string
}

// PropertyServicer defines the contract for listing submission, review and
// the published listing set.
type PropertyServicer interface {
	SubmitProperty(submitterID string, in PropertyInput) (*models.Property, error)
	IngestProperties(in []PropertyInput) ([]models.Property, error)
	GetSubmissions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Property], error)
	GetReviewQueue(page pagination.PageRequest) (*pagination.PageResponse[models.Property], error)
	ReviewProperty(ctx context.Context, reviewerID, propertyID string, decision ReviewDecision) (*models.Property, error)
	GetPublishedProperty(id string) (*models.Property, error)
	ListPublished(ctx context.Context) ([]dealcalc.Property, error)
}

// FactorsUpdate holds the scalar factors to change; nil fields are kept.
type FactorsUpdate struct {
	InterestRate             *float64
	DownPaymentPercentage    *float64
	RehabFinancingPercentage *float64
	HoldingPeriod            *float64
	MiscCostsPercentage      *float64
}

// SettingsServicer defines the contract for a user's analysis settings.
// Every mutation returns the settings as stored afterwards.
type SettingsServicer interface {
	GetSettings(userID string) (*models.AnalysisSettings, error)
	UpdateFactors(userID string, update FactorsUpdate) (*models.AnalysisSettings, error)
	SetStrategy(userID string, strategy dealcalc.Strategy) (*models.AnalysisSettings, error)
	SetPurchaseModel(userID string, model dealcalc.PurchaseModel) (*models.AnalysisSettings, error)
	SetUseDefaults(userID string, useDefaults bool) (*models.AnalysisSettings, error)
	EditPreset(userID string, strategy dealcalc.Strategy, model dealcalc.PurchaseModel, category dealcalc.CategoryName, item string, amount float64) (*models.AnalysisSettings, error)
	EditCurrentCost(userID string, category dealcalc.CategoryName, item string, amount float64) (*models.AnalysisSettings, error)
	ResetPresets(userID string) (*models.AnalysisSettings, error)
	UpdateMiscBreakdown(userID string, breakdown dealcalc.MiscCostsBreakdown) (*models.AnalysisSettings, error)
}

// DealQuery is a deal search request.
type DealQuery struct {
	Filter    dealcalc.Filter
	SortKey   dealcalc.SortKey
	SortOrder dealcalc.SortOrder
}

// DealResult is a listing with its metrics under the caller's factors.
type DealResult struct {
	Property dealcalc.Property
	Metrics  dealcalc.Metrics
	Saved    bool
}

// FactorOverrides adjusts the caller's stored factors for a single
// analysis without persisting anything.
type FactorOverrides struct {
	FactorsUpdate
	Strategy      *dealcalc.Strategy
	PurchaseModel *dealcalc.PurchaseModel
}

// DealServicer defines the contract for deal search and analysis.
type DealServicer interface {
	Search(ctx context.Context, userID string, query DealQuery) ([]DealResult, error)
	Analyze(ctx context.Context, userID, propertyID string, overrides *FactorOverrides) (*DealResult, dealcalc.CalculationFactors, error)
}

// SavedPropertyServicer defines the contract for bookmarked listings.
type SavedPropertyServicer interface {
	SaveProperty(userID, propertyID string) (*models.SavedProperty, error)
	UnsaveProperty(userID, propertyID string) error
	GetSavedProperties(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavedProperty], error)
	SavedPropertyIDs(userID string) (map[string]bool, error)
}

// SavedSearchServicer defines the contract for named searches.
type SavedSearchServicer interface {
	CreateSavedSearch(userID, name string, query DealQuery) (*models.SavedSearch, error)
	GetSavedSearches(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavedSearch], error)
	GetSavedSearch(userID, searchID string) (*models.SavedSearch, error)
	DeleteSavedSearch(userID, searchID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
