package services

import (
	"encoding/json"
	"testing"

	"dealscout/internal/models"
	"dealscout/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	t.Run("records_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		user := testutil.CreateTestUserWithRole(t, db, models.RoleAdmin)

		svc.Log(user.ID, "REVIEW_PROPERTY", "property", "prop-1", "10.0.0.1", map[string]interface{}{
			"status": "published",
		})

		var entry models.AuditLog
		if err := db.Where("user_id = ?", user.ID).First(&entry).Error; err != nil {
			t.Fatalf("expected audit entry: %v", err)
		}
		if entry.Action != "REVIEW_PROPERTY" || entry.ResourceID != "prop-1" {
			t.Errorf("unexpected entry %+v", entry)
		}
		var changes map[string]string
		if err := json.Unmarshal([]byte(entry.Changes), &changes); err != nil {
			t.Fatalf("expected JSON changes: %v", err)
		}
		if changes["status"] != "published" {
			t.Errorf("expected status change, got %v", changes)
		}
	})

	t.Run("nil_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)

		svc.Log("user", "DELETE_SAVED_SEARCH", "saved_search", "s-1", "", nil)

		var entry models.AuditLog
		if err := db.Where("resource_id = ?", "s-1").First(&entry).Error; err != nil {
			t.Fatalf("expected audit entry: %v", err)
		}
		if entry.Changes != "" {
			t.Errorf("expected empty changes, got %q", entry.Changes)
		}
	})

	t.Run("unmarshalable_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)

		svc.Log("user", "UPDATE_SETTINGS", "settings", "s-2", "", map[string]interface{}{
			"bad": make(chan int),
		})

		var entry models.AuditLog
		if err := db.Where("resource_id = ?", "s-2").First(&entry).Error; err != nil {
			t.Fatalf("expected audit entry: %v", err)
		}
		if entry.Changes != "{}" {
			t.Errorf("expected {} fallback, got %q", entry.Changes)
		}
	})
}
