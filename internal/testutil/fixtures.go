package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"dealscout/internal/dealcalc"
	"dealscout/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a client user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.RoleClient)
}

// CreateTestUserWithRole creates a user holding role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	email := fmt.Sprintf("%s%d@test.com", role, nextID())
	return createUser(t, db, email, role)
}

// CreateTestUserWithEmail creates a client user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	return createUser(t, db, email, models.RoleClient)
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProperty creates a listing in the given status. The defaults
// describe a $100k house with $20k of work and a $180k ARV.
func CreateTestProperty(t *testing.T, db *gorm.DB, status dealcalc.PropertyStatus) *models.Property {
	t.Helper()
	return CreateTestPropertyWith(t, db, status, func(*models.Property) {})
}

// CreateTestPropertyWith creates a listing after applying modify to the
// defaults.
func CreateTestPropertyWith(t *testing.T, db *gorm.DB, status dealcalc.PropertyStatus, modify func(*models.Property)) *models.Property {
	t.Helper()

	p := &models.Property{
		Address:        fmt.Sprintf("%d Test Street", nextID()),
		ZipCode:        "78701",
		Price:          100000,
		EstimatedARV:   180000,
		RenovationCost: 20000,
		RentPotential:  1500,
		Bedrooms:       3,
		Bathrooms:      2,
		SquareFeet:     1500,
		YearBuilt:      1990,
		PropertyType:   "single-family",
		DealType:       "fix-and-flip",
		Status:         status,
	}
	modify(p)
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test property: %v", err)
	}
	return p
}

// CreateTestSavedProperty bookmarks propertyID for userID with a fixed
// snapshot.
func CreateTestSavedProperty(t *testing.T, db *gorm.DB, userID, propertyID string) *models.SavedProperty {
	t.Helper()

	saved := &models.SavedProperty{
		UserID:     userID,
		PropertyID: propertyID,
		Profit:     59000,
		ROI:        50,
	}
	if err := db.Create(saved).Error; err != nil {
		t.Fatalf("failed to create test saved property: %v", err)
	}
	return saved
}

// CreateTestSavedSearch stores a default-filter search sorted by price.
func CreateTestSavedSearch(t *testing.T, db *gorm.DB, userID string) *models.SavedSearch {
	t.Helper()

	search := &models.SavedSearch{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Search %d", nextID()),
		Filter:    dealcalc.DefaultFilter(),
		SortKey:   dealcalc.SortPrice,
		SortOrder: dealcalc.SortAsc,
	}
	if err := db.Create(search).Error; err != nil {
		t.Fatalf("failed to create test saved search: %v", err)
	}
	return search
}

// AgeProperty backdates a listing's creation time.
func AgeProperty(t *testing.T, db *gorm.DB, p *models.Property, age time.Duration) {
	t.Helper()

	created := time.Now().Add(-age)
	if err := db.Model(p).UpdateColumn("created_at", created).Error; err != nil {
		t.Fatalf("failed to backdate property: %v", err)
	}
	p.CreatedAt = created
}
