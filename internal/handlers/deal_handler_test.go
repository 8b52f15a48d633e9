package handlers

import (
	"context"
	"math"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"dealscout/internal/dealcalc"
	apperrors "dealscout/internal/errors"
	"dealscout/internal/models"
	"dealscout/internal/services"
)

// --- mock deal service ---

type mockDealService struct {
	searchFn  func(ctx context.Context, userID string, query services.DealQuery) ([]services.DealResult, error)
	analyzeFn func(ctx context.Context, userID, propertyID string, overrides *services.FactorOverrides) (*services.DealResult, dealcalc.CalculationFactors, error)
}

func (m *mockDealService) Search(ctx context.Context, userID string, query services.DealQuery) ([]services.DealResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, userID, query)
	}
	return nil, nil
}

func (m *mockDealService) Analyze(ctx context.Context, userID, propertyID string, overrides *services.FactorOverrides) (*services.DealResult, dealcalc.CalculationFactors, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, userID, propertyID, overrides)
	}
	return &services.DealResult{}, dealcalc.DefaultFactors(), nil
}

var _ services.DealServicer = (*mockDealService)(nil)

func setupDealRouter(handler *DealHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectSession(testUserID, models.RoleClient))
	auth.GET("/deals", handler.SearchDeals)
	auth.GET("/deals/:id", handler.GetDeal)
	auth.POST("/deals/:id/analyze", handler.AnalyzeDeal)
	return r
}

func sampleDeal() services.DealResult {
	p := dealcalc.Property{ID: testPropertyID, Address: "12 Oak Street", Price: 100000, RenovationCost: 20000, EstimatedARV: 180000}
	f := dealcalc.DefaultFactors()
	f.PurchaseModel = dealcalc.PurchaseCash
	return services.DealResult{Property: p, Metrics: dealcalc.Evaluate(p, f), Saved: true}
}

func TestDealHandler_SearchDeals(t *testing.T) {
	t.Run("binds filters over the defaults", func(t *testing.T) {
		var got services.DealQuery
		var gotUser string
		dealSvc := &mockDealService{
			searchFn: func(_ context.Context, userID string, query services.DealQuery) ([]services.DealResult, error) {
				gotUser = userID
				got = query
				return []services.DealResult{sampleDeal()}, nil
			},
		}
		r := setupDealRouter(NewDealHandler(dealSvc))

		rec := doRequest(r, "GET",
			"/deals?search=oak&max_price=150000&min_roi=10&property_type=condo&property_type=single-family&deal_type=wholesale&saved_only=true&sort=roi&order=desc", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUser != testUserID {
			t.Errorf("expected %s, got %s", testUserID, gotUser)
		}
		flt := got.Filter
		if flt.SearchTerm != "oak" || flt.PriceRange != [2]float64{0, 150000} || flt.MinROI != 10 {
			t.Errorf("unexpected filter %+v", flt)
		}
		if len(flt.PropertyTypes) != 2 || flt.PropertyTypes[0] != "condo" {
			t.Errorf("unexpected property types %v", flt.PropertyTypes)
		}
		if flt.MinBedrooms != 1 || flt.YearBuiltRange != [2]int{1900, 2024} {
			t.Errorf("expected default bedrooms and year range, got %d %v", flt.MinBedrooms, flt.YearBuiltRange)
		}
		if flt.DealType != "wholesale" || !flt.SavedOnly {
			t.Errorf("unexpected deal type or saved flag: %+v", flt)
		}
		if got.SortKey != dealcalc.SortROI || got.SortOrder != dealcalc.SortDesc {
			t.Errorf("unexpected sort %s %s", got.SortKey, got.SortOrder)
		}

		result := parseJSON(t, rec)
		if result["count"].(float64) != 1 {
			t.Fatalf("expected 1 deal, got %v", result["count"])
		}
		deal := result["deals"].([]interface{})[0].(map[string]interface{})
		if deal["net_profit_display"] != "$59,000" {
			t.Errorf("expected $59,000, got %v", deal["net_profit_display"])
		}
		if deal["saved"] != true {
			t.Error("expected saved flag")
		}
	})

	t.Run("empty query uses the default filter", func(t *testing.T) {
		var got services.DealQuery
		dealSvc := &mockDealService{
			searchFn: func(_ context.Context, _ string, query services.DealQuery) ([]services.DealResult, error) {
				got = query
				return nil, nil
			},
		}
		r := setupDealRouter(NewDealHandler(dealSvc))

		rec := doRequest(r, "GET", "/deals", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Filter.PriceRange != dealcalc.DefaultFilter().PriceRange || got.Filter.DealType != dealcalc.DealTypeAll {
			t.Errorf("expected default filter, got %+v", got.Filter)
		}
		if parseJSON(t, rec)["count"].(float64) != 0 {
			t.Error("expected no deals")
		}
	})

	t.Run("degenerate metrics render as null", func(t *testing.T) {
		dealSvc := &mockDealService{
			searchFn: func(context.Context, string, services.DealQuery) ([]services.DealResult, error) {
				free := dealcalc.Property{ID: testPropertyID}
				m := dealcalc.Metrics{ROI: math.NaN()}
				return []services.DealResult{{Property: free, Metrics: m}}, nil
			},
		}
		r := setupDealRouter(NewDealHandler(dealSvc))

		rec := doRequest(r, "GET", "/deals", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		deal := parseJSON(t, rec)["deals"].([]interface{})[0].(map[string]interface{})
		metrics := deal["metrics"].(map[string]interface{})
		if v, ok := metrics["roi"]; !ok || v != nil {
			t.Errorf("expected null roi, got %v", v)
		}
		if metrics["net_profit"].(float64) != 0 {
			t.Errorf("expected zero net profit, got %v", metrics["net_profit"])
		}
	})

	t.Run("returns 400 on unknown sort key", func(t *testing.T) {
		r := setupDealRouter(NewDealHandler(&mockDealService{}))

		rec := doRequest(r, "GET", "/deals?sort=rent", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on bad number", func(t *testing.T) {
		r := setupDealRouter(NewDealHandler(&mockDealService{}))

		rec := doRequest(r, "GET", "/deals?min_price=cheap", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestDealHandler_GetDeal(t *testing.T) {
	t.Run("analyzes with stored factors", func(t *testing.T) {
		called := false
		dealSvc := &mockDealService{
			analyzeFn: func(_ context.Context, _, propertyID string, overrides *services.FactorOverrides) (*services.DealResult, dealcalc.CalculationFactors, error) {
				called = true
				if overrides != nil {
					t.Error("expected no overrides")
				}
				d := sampleDeal()
				return &d, dealcalc.DefaultFactors(), nil
			},
		}
		r := setupDealRouter(NewDealHandler(dealSvc))

		rec := doRequest(r, "GET", "/deals/"+testPropertyID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !called {
			t.Fatal("expected Analyze to be called")
		}
		result := parseJSON(t, rec)
		if result["estimated_costs"].(float64) != 59000 {
			t.Errorf("expected 59000, got %v", result["estimated_costs"])
		}
		if _, ok := result["factors"].(map[string]interface{}); !ok {
			t.Error("expected factors object")
		}
	})

	t.Run("returns 404 when not published", func(t *testing.T) {
		dealSvc := &mockDealService{
			analyzeFn: func(context.Context, string, string, *services.FactorOverrides) (*services.DealResult, dealcalc.CalculationFactors, error) {
				return nil, dealcalc.CalculationFactors{}, apperrors.ErrPropertyNotFound
			},
		}
		r := setupDealRouter(NewDealHandler(dealSvc))

		rec := doRequest(r, "GET", "/deals/"+testPropertyID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PROPERTY_NOT_FOUND")
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupDealRouter(NewDealHandler(&mockDealService{}))

		rec := doRequest(r, "GET", "/deals/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestDealHandler_AnalyzeDeal(t *testing.T) {
	t.Run("passes overrides", func(t *testing.T) {
		var got *services.FactorOverrides
		dealSvc := &mockDealService{
			analyzeFn: func(_ context.Context, _, _ string, overrides *services.FactorOverrides) (*services.DealResult, dealcalc.CalculationFactors, error) {
				got = overrides
				d := sampleDeal()
				return &d, dealcalc.DefaultFactors(), nil
			},
		}
		r := setupDealRouter(NewDealHandler(dealSvc))

		rec := doRequest(r, "POST", "/deals/"+testPropertyID+"/analyze",
			`{"strategy":"wholesale","purchase_model":"cash","misc_costs_percentage":0}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got == nil || got.Strategy == nil || *got.Strategy != dealcalc.StrategyWholesale {
			t.Fatalf("expected wholesale override, got %+v", got)
		}
		if got.PurchaseModel == nil || *got.PurchaseModel != dealcalc.PurchaseCash {
			t.Error("expected cash override")
		}
		if got.MiscCostsPercentage == nil || *got.MiscCostsPercentage != 0 {
			t.Error("expected misc override of 0")
		}
		if got.InterestRate != nil {
			t.Error("expected interest rate untouched")
		}
	})

	t.Run("empty body means no overrides", func(t *testing.T) {
		var got *services.FactorOverrides
		dealSvc := &mockDealService{
			analyzeFn: func(_ context.Context, _, _ string, overrides *services.FactorOverrides) (*services.DealResult, dealcalc.CalculationFactors, error) {
				got = overrides
				d := sampleDeal()
				return &d, dealcalc.DefaultFactors(), nil
			},
		}
		r := setupDealRouter(NewDealHandler(dealSvc))

		rec := doRequest(r, "POST", "/deals/"+testPropertyID+"/analyze", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got == nil || got.Strategy != nil || got.PurchaseModel != nil || got.InterestRate != nil {
			t.Errorf("expected empty overrides, got %+v", got)
		}
	})

	t.Run("returns 400 on unknown strategy", func(t *testing.T) {
		r := setupDealRouter(NewDealHandler(&mockDealService{}))

		rec := doRequest(r, "POST", "/deals/"+testPropertyID+"/analyze", `{"strategy":"hold"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		r := setupDealRouter(NewDealHandler(&mockDealService{}))

		rec := doRequest(r, "POST", "/deals/"+testPropertyID+"/analyze", `{"interest_rate":`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
