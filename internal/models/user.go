package models

import "time"

// Role is the marketplace role a user signs up with.
type Role string

const (
	RoleClient     Role = "client"
	RoleAgent      Role = "agent"
	RoleInspector  Role = "inspector"
	RoleAdmin      Role = "admin"
	RoleVendor     Role = "vendor"
	RoleWholesaler Role = "wholesaler"
	RoleVA         Role = "va"
)

// Roles lists every role.
func Roles() []Role {
	return []Role{RoleClient, RoleAgent, RoleInspector, RoleAdmin, RoleVendor, RoleWholesaler, RoleVA}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}
	return false
}

// Staff reports whether r moderates listings. Staff roles are granted by an
// administrator, never chosen at sign-up.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleVA
}

// User represents the user model in the database
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        Role       `gorm:"type:varchar(20);not null;default:client" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
