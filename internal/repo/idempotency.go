// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the Idempotency
// model used to implement safe-retry semantics for POST endpoints.
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

// ErrDuplicate indicates that a unique row already exists, e.g. an
// idempotency record for the same (user_id, scope_id, key).
var ErrDuplicate = errors.New("duplicate")

// GetIdempotency returns a non-expired record or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, scopeID, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(scopeID) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("user_id = ? AND scope_id = ? AND key = ? AND expires_at > ?", userID, scopeID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency inserts a record and returns ErrDuplicate on unique violation.
// An expired record for the same tuple is replaced.
func CreateIdempotency(ctx context.Context, db *gorm.DB, userID, scopeID, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:         uuid.NewString(),
		UserID:     userID,
		ScopeID:    scopeID,
		Key:        key,
		ResourceID: resourceID,
		Status:     status,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	db = db.WithContext(ctx)
	if err := db.Where("user_id = ? AND scope_id = ? AND key = ? AND expires_at <= ?", userID, scopeID, key, now).
		Delete(&domain.Idempotency{}).Error; err != nil {
		return nil, err
	}
	if err := db.Create(rec).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// PurgeExpiredIdempotency deletes records that expired before now.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}

// RebindIdempotency points a live record at resourceID. It is used when the
// resource a key produced has been deleted and the request was processed again.
func RebindIdempotency(ctx context.Context, db *gorm.DB, userID, scopeID, key, resourceID string) error {
	res := db.WithContext(ctx).Model(&domain.Idempotency{}).
		Where("user_id = ? AND scope_id = ? AND key = ?", userID, scopeID, key).
		Update("resource_id", resourceID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
