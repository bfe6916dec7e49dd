package domain

import (
	"strings"
	"time"
)

// Role classifies an account. It is resolved once at registration and never
// changes afterwards.
type Role string

const (
	RoleClient Role = "client"
	RoleLawyer Role = "lawyer"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleLawyer, RoleAdmin:
		return true
	}
	return false
}

// ParseRole maps a case-insensitive string to a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Account is a login identity with exactly one role. Lawyers carry the bar
// registration identifier they signed up with.
type Account struct {
	ID           string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email"     gorm:"type:varchar(255);not null;uniqueIndex:ux_accounts_email"`
	FullName     string    `json:"full_name" gorm:"type:varchar(200);not null;default:''"`
	PasswordHash string    `json:"-"         gorm:"type:varchar(100);not null"`
	Role         Role      `json:"role"      gorm:"type:varchar(16);not null;index;check:role IN ('client','lawyer','admin')"`
	BarID        *string   `json:"bar_id,omitempty" gorm:"type:varchar(100)"`
	Active       bool      `json:"active"    gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for Account.
func (Account) TableName() string { return "accounts" }

func (a *Account) IsClient() bool { return a != nil && a.Role == RoleClient }
func (a *Account) IsLawyer() bool { return a != nil && a.Role == RoleLawyer }
func (a *Account) IsAdmin() bool  { return a != nil && a.Role == RoleAdmin }

// DisplayName prefers the full name and falls back to the email.
func (a *Account) DisplayName() string {
	if a == nil {
		return ""
	}
	if n := strings.TrimSpace(a.FullName); n != "" {
		return n
	}
	return a.Email
}
