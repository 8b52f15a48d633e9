package services

import (
	"math"
	"testing"
	"time"

	"gorm.io/gorm"

	"dealscout/internal/dealcalc"
	"dealscout/internal/pagination"
	"dealscout/internal/testutil"
)

func newSavedPropertyService(db *gorm.DB) SavedPropertyServicer {
	return NewSavedPropertyService(db, NewPropertyService(db, nil), NewSettingsService(db))
}

func TestSaveProperty(t *testing.T) {
	t.Run("snapshot_under_user_factors", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSavedPropertyService(db)
		settings := NewSettingsService(db)
		user := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestProperty(t, db, dealcalc.StatusPublished)

		_, err := settings.SetPurchaseModel(user.ID, dealcalc.PurchaseCash)
		testutil.AssertNoError(t, err)

		saved, err := svc.SaveProperty(user.ID, p.ID)
		testutil.AssertNoError(t, err)

		// 180000 - (120000 + 0 financing + 5% of 20000)
		if saved.Profit != 59000 {
			t.Errorf("expected profit 59000, got %f", saved.Profit)
		}
		if math.Abs(saved.ROI-50) > 1e-9 {
			t.Errorf("expected ROI 50, got %f", saved.ROI)
		}
		if saved.Property.ID != p.ID {
			t.Error("expected the listing to be attached")
		}
	})

	t.Run("snapshot_is_frozen", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSavedPropertyService(db)
		settings := NewSettingsService(db)
		user := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestProperty(t, db, dealcalc.StatusPublished)

		saved, err := svc.SaveProperty(user.ID, p.ID)
		testutil.AssertNoError(t, err)

		pct := 50.0
		_, err = settings.UpdateFactors(user.ID, FactorsUpdate{MiscCostsPercentage: &pct})
		testutil.AssertNoError(t, err)

		page, err := svc.GetSavedProperties(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.Data[0].Profit != saved.Profit {
			t.Errorf("expected stored profit %f, got %f", saved.Profit, page.Data[0].Profit)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSavedPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestProperty(t, db, dealcalc.StatusPublished)

		_, err := svc.SaveProperty(user.ID, p.ID)
		testutil.AssertNoError(t, err)
		_, err = svc.SaveProperty(user.ID, p.ID)
		testutil.AssertAppError(t, err, "PROPERTY_ALREADY_SAVED")
	})

	t.Run("unpublished", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSavedPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestProperty(t, db, dealcalc.StatusPendingReview)

		_, err := svc.SaveProperty(user.ID, p.ID)
		testutil.AssertAppError(t, err, "PROPERTY_NOT_FOUND")
	})
}

func TestUnsaveProperty(t *testing.T) {
	t.Run("can_save_again", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSavedPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestProperty(t, db, dealcalc.StatusPublished)

		_, err := svc.SaveProperty(user.ID, p.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.UnsaveProperty(user.ID, p.ID))

		_, err = svc.SaveProperty(user.ID, p.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("not_saved", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSavedPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestProperty(t, db, dealcalc.StatusPublished)

		err := svc.UnsaveProperty(user.ID, p.ID)
		testutil.AssertAppError(t, err, "SAVED_PROPERTY_NOT_FOUND")
	})

	t.Run("other_users_save_untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSavedPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestProperty(t, db, dealcalc.StatusPublished)
		testutil.CreateTestSavedProperty(t, db, other.ID, p.ID)

		err := svc.UnsaveProperty(user.ID, p.ID)
		testutil.AssertAppError(t, err, "SAVED_PROPERTY_NOT_FOUND")

		ids, err := svc.SavedPropertyIDs(other.ID)
		testutil.AssertNoError(t, err)
		if !ids[p.ID] {
			t.Error("expected the other user's bookmark to remain")
		}
	})
}

func TestGetSavedProperties(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newSavedPropertyService(db)
	user := testutil.CreateTestUser(t, db)

	first := testutil.CreateTestProperty(t, db, dealcalc.StatusPublished)
	second := testutil.CreateTestProperty(t, db, dealcalc.StatusPublished)
	older := testutil.CreateTestSavedProperty(t, db, user.ID, first.ID)
	db.Model(older).UpdateColumn("created_at", time.Now().Add(-time.Hour))
	testutil.CreateTestSavedProperty(t, db, user.ID, second.ID)

	page, err := svc.GetSavedProperties(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 2 {
		t.Fatalf("expected 2 saved properties, got %d", page.TotalItems)
	}
	if page.Data[0].PropertyID != second.ID {
		t.Error("expected newest bookmark first")
	}
	if page.Data[0].Property.Address != second.Address {
		t.Error("expected the listing to be preloaded")
	}
}

func TestSavedPropertyIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newSavedPropertyService(db)
	user := testutil.CreateTestUser(t, db)

	ids, err := svc.SavedPropertyIDs(user.ID)
	testutil.AssertNoError(t, err)
	if len(ids) != 0 {
		t.Errorf("expected no saved IDs, got %d", len(ids))
	}

	p := testutil.CreateTestProperty(t, db, dealcalc.StatusPublished)
	testutil.CreateTestSavedProperty(t, db, user.ID, p.ID)

	ids, err = svc.SavedPropertyIDs(user.ID)
	testutil.AssertNoError(t, err)
	if len(ids) != 1 || !ids[p.ID] {
		t.Errorf("expected {%s}, got %v", p.ID, ids)
	}
}
