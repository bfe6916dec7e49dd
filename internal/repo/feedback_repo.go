// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Feedback model.
//
// Error semantics:
//   - Duplicate feedback (same message_id,user_id) is reported as
//     ErrDuplicate; the service layer translates it into a domain error.
//   - On other DB errors (connectivity, constraints, etc.), the raw gorm
//     error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

// CreateFeedback inserts a feedback row for the given message and user.
// Value must be -1 or 1; the schema enforces it as well.
func CreateFeedback(ctx context.Context, db *gorm.DB, messageID, userID string, value int) error {
	now := time.Now().UTC()
	fb := &domain.Feedback{
		ID:        uuid.NewString(),
		MessageID: messageID,
		UserID:    userID,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := db.WithContext(ctx).Omit("Message").Create(fb).Error
	if IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
