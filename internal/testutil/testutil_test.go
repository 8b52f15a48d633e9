package testutil_test

import (
	"testing"

	"dealscout/internal/dealcalc"
	"dealscout/internal/errors"
	"dealscout/internal/models"
	"dealscout/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "properties", "saved_properties", "saved_searches", "analysis_settings", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	testutil.CreateTestUser(t, first)

	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected an empty database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}
	if user.Role != models.RoleClient {
		t.Errorf("expected client role, got %s", user.Role)
	}

	wholesaler := testutil.CreateTestUserWithRole(t, db, models.RoleWholesaler)
	if wholesaler.Role != models.RoleWholesaler {
		t.Errorf("expected wholesaler role, got %s", wholesaler.Role)
	}

	property := testutil.CreateTestProperty(t, db, dealcalc.StatusPublished)
	if property.Status != dealcalc.StatusPublished {
		t.Errorf("expected published property, got %s", property.Status)
	}

	saved := testutil.CreateTestSavedProperty(t, db, user.ID, property.ID)
	if saved.PropertyID != property.ID {
		t.Errorf("expected saved property %s, got %s", property.ID, saved.PropertyID)
	}

	search := testutil.CreateTestSavedSearch(t, db, user.ID)
	var loaded models.SavedSearch
	if err := db.First(&loaded, "id = ?", search.ID).Error; err != nil {
		t.Fatalf("failed to reload saved search: %v", err)
	}
	if loaded.Filter.PriceRange != dealcalc.DefaultFilter().PriceRange {
		t.Errorf("filter did not round-trip: %+v", loaded.Filter)
	}
}

func TestAssertions(t *testing.T) {
	testutil.AssertNoError(t, nil)
	testutil.AssertAppError(t, errors.ErrPropertyNotFound, "PROPERTY_NOT_FOUND")
	testutil.AssertAppError(t, errors.Wrap(errors.ErrInternalServer, nil), "INTERNAL_ERROR")
}
