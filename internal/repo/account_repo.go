// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for accounts.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

// ErrDuplicateEmail is returned when the email is already registered.
var ErrDuplicateEmail = errors.New("duplicate email")

// NormalizeEmail lower-cases and trims an email for storage and lookups.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// CreateAccount inserts an active account. The role is fixed here and never
// updated afterwards.
func CreateAccount(ctx context.Context, db *gorm.DB, email, fullName, passwordHash string, role domain.Role, barID *string) (*domain.Account, error) {
	now := time.Now().UTC()
	a := &domain.Account{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(email),
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: passwordHash,
		Role:         role,
		BarID:        barID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return a, nil
}

// GetAccount fetches an account by id.
func GetAccount(ctx context.Context, db *gorm.DB, id string) (*domain.Account, error) {
	var a domain.Account
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAccountByEmail fetches an account by (normalized) email.
func GetAccountByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Account, error) {
	var a domain.Account
	if err := db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAccountsByRole returns accounts of the role, newest first.
func ListAccountsByRole(ctx context.Context, db *gorm.DB, role domain.Role) ([]domain.Account, error) {
	var out []domain.Account
	err := db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at desc, id asc").
		Find(&out).Error
	return out, err
}

// SetAccountActive flips the active flag of a non-admin account. Admin rows
// are never matched, so blocking an admin reports ErrNotFound.
func SetAccountActive(ctx context.Context, db *gorm.DB, id string, active bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ? AND role <> ?", id, domain.RoleAdmin).
		Updates(map[string]any{"active": active, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountAccounts counts non-admin accounts.
func CountAccounts(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("role <> ?", domain.RoleAdmin).
		Count(&n).Error
	return n, err
}

// ListAvailableLawyers returns active lawyers the client has no Pending or
// Accepted representation with.
func ListAvailableLawyers(ctx context.Context, db *gorm.DB, clientID string) ([]domain.Account, error) {
	busy := db.Model(&domain.Representation{}).
		Select("lawyer_id").
		Where("client_id = ? AND status IN ?", clientID,
			[]domain.RepresentationStatus{domain.StatusPending, domain.StatusAccepted})

	var out []domain.Account
	err := db.WithContext(ctx).
		Where("role = ? AND active = ?", domain.RoleLawyer, true).
		Where("id NOT IN (?)", busy).
		Order("full_name asc, id asc").
		Find(&out).Error
	return out, err
}
