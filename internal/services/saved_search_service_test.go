package services

import (
	"testing"

	"dealscout/internal/dealcalc"
	"dealscout/internal/pagination"
	"dealscout/internal/testutil"
)

func TestCreateSavedSearch(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSavedSearchService(db)
		user := testutil.CreateTestUser(t, db)

		filter := dealcalc.DefaultFilter()
		filter.SearchTerm = "oak"
		filter.PropertyTypes = []string{"condo"}
		filter.SavedOnly = true
		filter.SavedIDs = map[string]bool{"stale": true}

		search, err := svc.CreateSavedSearch(user.ID, "Austin condos", DealQuery{
			Filter:    filter,
			SortKey:   dealcalc.SortROI,
			SortOrder: dealcalc.SortDesc,
		})
		testutil.AssertNoError(t, err)

		stored, err := svc.GetSavedSearch(user.ID, search.ID)
		testutil.AssertNoError(t, err)

		if stored.Name != "Austin condos" {
			t.Errorf("expected name Austin condos, got %s", stored.Name)
		}
		if stored.Filter.SearchTerm != "oak" || len(stored.Filter.PropertyTypes) != 1 {
			t.Errorf("expected filter to round trip, got %+v", stored.Filter)
		}
		if !stored.Filter.SavedOnly {
			t.Error("expected saved-only flag to persist")
		}
		if stored.Filter.SavedIDs != nil {
			t.Error("expected saved IDs not to persist")
		}
		if stored.SortKey != dealcalc.SortROI || stored.SortOrder != dealcalc.SortDesc {
			t.Errorf("expected roi desc, got %s %s", stored.SortKey, stored.SortOrder)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSavedSearchService(db)

		_, err := svc.CreateSavedSearch("user", "", DealQuery{
			Filter: dealcalc.DefaultFilter(), SortKey: dealcalc.SortPrice, SortOrder: dealcalc.SortAsc,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_sort", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSavedSearchService(db)

		_, err := svc.CreateSavedSearch("user", "rent", DealQuery{
			Filter: dealcalc.DefaultFilter(), SortKey: "rent", SortOrder: dealcalc.SortAsc,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetSavedSearches(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSavedSearchService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestSavedSearch(t, db, user.ID)
	testutil.CreateTestSavedSearch(t, db, user.ID)
	testutil.CreateTestSavedSearch(t, db, other.ID)

	page, err := svc.GetSavedSearches(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 2 {
		t.Errorf("expected 2 saved searches, got %d", page.TotalItems)
	}
	for _, s := range page.Data {
		if s.UserID != user.ID {
			t.Errorf("expected only the user's searches, got one for %s", s.UserID)
		}
	}
}

func TestGetSavedSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSavedSearchService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	search := testutil.CreateTestSavedSearch(t, db, user.ID)

	t.Run("owner", func(t *testing.T) {
		got, err := svc.GetSavedSearch(user.ID, search.ID)
		testutil.AssertNoError(t, err)
		if got.Filter.MinBedrooms != 1 {
			t.Errorf("expected default filter, got %+v", got.Filter)
		}
	})

	t.Run("other_user", func(t *testing.T) {
		_, err := svc.GetSavedSearch(other.ID, search.ID)
		testutil.AssertAppError(t, err, "SAVED_SEARCH_NOT_FOUND")
	})
}

func TestDeleteSavedSearch(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSavedSearchService(db)
		user := testutil.CreateTestUser(t, db)
		search := testutil.CreateTestSavedSearch(t, db, user.ID)

		testutil.AssertNoError(t, svc.DeleteSavedSearch(user.ID, search.ID))

		_, err := svc.GetSavedSearch(user.ID, search.ID)
		testutil.AssertAppError(t, err, "SAVED_SEARCH_NOT_FOUND")
	})

	t.Run("other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSavedSearchService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		search := testutil.CreateTestSavedSearch(t, db, user.ID)

		err := svc.DeleteSavedSearch(other.ID, search.ID)
		testutil.AssertAppError(t, err, "SAVED_SEARCH_NOT_FOUND")
	})
}
