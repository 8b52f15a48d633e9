package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"dealscout/internal/dealcalc"
	apperrors "dealscout/internal/errors"
	"dealscout/internal/models"
	"dealscout/internal/pagination"
	"dealscout/internal/services"
)

// --- mock saved search service ---

type mockSavedSearchService struct {
	createSavedSearchFn func(userID, name string, query services.DealQuery) (*models.SavedSearch, error)
	getSavedSearchesFn  func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavedSearch], error)
	getSavedSearchFn    func(userID, searchID string) (*models.SavedSearch, error)
	deleteSavedSearchFn func(userID, searchID string) error
}

func (m *mockSavedSearchService) CreateSavedSearch(userID, name string, query services.DealQuery) (*models.SavedSearch, error) {
	if m.createSavedSearchFn != nil {
		return m.createSavedSearchFn(userID, name, query)
	}
	return &models.SavedSearch{UserID: userID, Name: name, Filter: query.Filter}, nil
}

func (m *mockSavedSearchService) GetSavedSearches(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavedSearch], error) {
	if m.getSavedSearchesFn != nil {
		return m.getSavedSearchesFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.SavedSearch{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockSavedSearchService) GetSavedSearch(userID, searchID string) (*models.SavedSearch, error) {
	if m.getSavedSearchFn != nil {
		return m.getSavedSearchFn(userID, searchID)
	}
	return &models.SavedSearch{Base: models.Base{ID: searchID}, UserID: userID}, nil
}

func (m *mockSavedSearchService) DeleteSavedSearch(userID, searchID string) error {
	if m.deleteSavedSearchFn != nil {
		return m.deleteSavedSearchFn(userID, searchID)
	}
	return nil
}

var _ services.SavedSearchServicer = (*mockSavedSearchService)(nil)

const testSearchID = "0190a1b2-c3d4-7e5f-8a9b-00000000bbbb"

func setupSavedSearchRouter(handler *SavedSearchHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectSession(testUserID, models.RoleClient))
	auth.POST("/saved-searches", handler.CreateSavedSearch)
	auth.GET("/saved-searches", handler.GetSavedSearches)
	auth.GET("/saved-searches/:id", handler.GetSavedSearch)
	auth.GET("/saved-searches/:id/results", handler.RunSavedSearch)
	auth.DELETE("/saved-searches/:id", handler.DeleteSavedSearch)
	return r
}

func TestSavedSearchHandler_CreateSavedSearch(t *testing.T) {
	t.Run("defaults the sort to newest first", func(t *testing.T) {
		var got services.DealQuery
		var gotName string
		svc := &mockSavedSearchService{
			createSavedSearchFn: func(userID, name string, query services.DealQuery) (*models.SavedSearch, error) {
				got, gotName = query, name
				return &models.SavedSearch{
					Base:      models.Base{ID: testSearchID},
					UserID:    userID,
					Name:      name,
					Filter:    query.Filter,
					SortKey:   query.SortKey,
					SortOrder: query.SortOrder,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupSavedSearchRouter(NewSavedSearchHandler(svc, &mockDealService{}, audit))

		rec := doRequest(r, "POST", "/saved-searches",
			`{"name":"Austin flips","search":"787","min_roi":15,"property_types":["single-family"]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotName != "Austin flips" {
			t.Errorf("expected name Austin flips, got %q", gotName)
		}
		if got.SortKey != dealcalc.SortDateAdded || got.SortOrder != dealcalc.SortDesc {
			t.Errorf("expected dateAdded desc, got %s %s", got.SortKey, got.SortOrder)
		}
		if got.Filter.SearchTerm != "787" || got.Filter.MinROI != 15 || len(got.Filter.PropertyTypes) != 1 {
			t.Errorf("unexpected filter %+v", got.Filter)
		}
		search := parseJSON(t, rec)["saved_search"].(map[string]interface{})
		if search["sort_key"] != string(dealcalc.SortDateAdded) {
			t.Errorf("unexpected sort key %v", search["sort_key"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_SAVED_SEARCH" {
			t.Errorf("expected CREATE_SAVED_SEARCH audit entry, got %v", audit.actions)
		}
	})

	t.Run("keeps an explicit sort", func(t *testing.T) {
		var got services.DealQuery
		svc := &mockSavedSearchService{
			createSavedSearchFn: func(userID, name string, query services.DealQuery) (*models.SavedSearch, error) {
				got = query
				return &models.SavedSearch{Base: models.Base{ID: testSearchID}}, nil
			},
		}
		r := setupSavedSearchRouter(NewSavedSearchHandler(svc, &mockDealService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/saved-searches", `{"name":"cheap","sort":"price","order":"asc"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.SortKey != dealcalc.SortPrice || got.SortOrder != dealcalc.SortAsc {
			t.Errorf("expected price asc, got %s %s", got.SortKey, got.SortOrder)
		}
	})

	t.Run("returns 400 without name", func(t *testing.T) {
		r := setupSavedSearchRouter(NewSavedSearchHandler(&mockSavedSearchService{}, &mockDealService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/saved-searches", `{"search":"oak"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid order", func(t *testing.T) {
		r := setupSavedSearchRouter(NewSavedSearchHandler(&mockSavedSearchService{}, &mockDealService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/saved-searches", `{"name":"x","order":"sideways"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSavedSearchHandler_GetSavedSearch(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		r := setupSavedSearchRouter(NewSavedSearchHandler(&mockSavedSearchService{}, &mockDealService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/saved-searches/"+testSearchID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		search := parseJSON(t, rec)["saved_search"].(map[string]interface{})
		if search["id"] != testSearchID {
			t.Errorf("expected %s, got %v", testSearchID, search["id"])
		}
	})

	t.Run("returns 404 for another user's search", func(t *testing.T) {
		svc := &mockSavedSearchService{
			getSavedSearchFn: func(string, string) (*models.SavedSearch, error) {
				return nil, apperrors.ErrSavedSearchNotFound
			},
		}
		r := setupSavedSearchRouter(NewSavedSearchHandler(svc, &mockDealService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/saved-searches/"+testSearchID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SAVED_SEARCH_NOT_FOUND")
	})
}

func TestSavedSearchHandler_GetSavedSearches(t *testing.T) {
	var gotUser string
	svc := &mockSavedSearchService{
		getSavedSearchesFn: func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavedSearch], error) {
			gotUser = userID
			resp := pagination.NewPageResponse([]models.SavedSearch{{Name: "a"}, {Name: "b"}}, 1, 20, 2)
			return &resp, nil
		},
	}
	r := setupSavedSearchRouter(NewSavedSearchHandler(svc, &mockDealService{}, &mockAuditService{}))

	rec := doRequest(r, "GET", "/saved-searches", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotUser != testUserID {
		t.Errorf("expected %s, got %s", testUserID, gotUser)
	}
	if len(parseJSON(t, rec)["data"].([]interface{})) != 2 {
		t.Error("expected 2 saved searches")
	}
}

func TestSavedSearchHandler_RunSavedSearch(t *testing.T) {
	t.Run("runs the stored query", func(t *testing.T) {
		stored := dealcalc.DefaultFilter()
		stored.SearchTerm = "oak"
		svc := &mockSavedSearchService{
			getSavedSearchFn: func(userID, searchID string) (*models.SavedSearch, error) {
				return &models.SavedSearch{
					Base:      models.Base{ID: searchID},
					UserID:    userID,
					Filter:    stored,
					SortKey:   dealcalc.SortROI,
					SortOrder: dealcalc.SortDesc,
				}, nil
			},
		}
		var got services.DealQuery
		dealSvc := &mockDealService{
			searchFn: func(_ context.Context, _ string, query services.DealQuery) ([]services.DealResult, error) {
				got = query
				return []services.DealResult{sampleDeal()}, nil
			},
		}
		r := setupSavedSearchRouter(NewSavedSearchHandler(svc, dealSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/saved-searches/"+testSearchID+"/results", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Filter.SearchTerm != "oak" || got.SortKey != dealcalc.SortROI || got.SortOrder != dealcalc.SortDesc {
			t.Errorf("unexpected query %+v", got)
		}
		if parseJSON(t, rec)["count"].(float64) != 1 {
			t.Error("expected 1 deal")
		}
	})

	t.Run("does not search when the saved search is missing", func(t *testing.T) {
		svc := &mockSavedSearchService{
			getSavedSearchFn: func(string, string) (*models.SavedSearch, error) {
				return nil, apperrors.ErrSavedSearchNotFound
			},
		}
		dealSvc := &mockDealService{
			searchFn: func(context.Context, string, services.DealQuery) ([]services.DealResult, error) {
				t.Error("search should not run")
				return nil, nil
			},
		}
		r := setupSavedSearchRouter(NewSavedSearchHandler(svc, dealSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/saved-searches/"+testSearchID+"/results", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSavedSearchHandler_DeleteSavedSearch(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupSavedSearchRouter(NewSavedSearchHandler(&mockSavedSearchService{}, &mockDealService{}, audit))

		rec := doRequest(r, "DELETE", "/saved-searches/"+testSearchID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(audit.actions) != 1 || audit.actions[0] != "DELETE_SAVED_SEARCH" {
			t.Errorf("expected DELETE_SAVED_SEARCH audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupSavedSearchRouter(NewSavedSearchHandler(&mockSavedSearchService{}, &mockDealService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/saved-searches/xyz", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
