// Package services – FeedbackService
//
// This file implements the FeedbackService, which governs how users leave
// feedback (-1 or +1) on assistant replies. It enforces message existence,
// chat ownership, the assistant-only restriction and uniqueness.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/repo"
)

// FeedbackService implements the use-cases around message feedback.
type FeedbackService struct {
	DB *gorm.DB
}

// Leave records a feedback value for messageID on behalf of userID.
//
// Semantics and validation:
//   - value must be exactly -1 or 1; otherwise ErrInvalidFeedback.
//   - messageID must exist; otherwise ErrMessageNotFound.
//   - The message must belong to a chat owned by userID and be an assistant
//     reply; otherwise ErrForbiddenFeedback.
//   - A user may rate a message once; otherwise ErrDuplicateFeedback.
//
// The checks and the insert run in one transaction.
func (s *FeedbackService) Leave(ctx context.Context, userID, messageID string, value int) error {
	if value != -1 && value != 1 {
		return ErrInvalidFeedback
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&domain.AssistantMessage{}).Where("id = ?", messageID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrMessageNotFound
		}

		msg, err := repo.GetAssistantMessageForUser(ctx, tx, messageID, userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrForbiddenFeedback
			}
			return err
		}
		if msg.Role != roleAssistant {
			return ErrForbiddenFeedback
		}

		err = repo.CreateFeedback(ctx, tx, messageID, userID, value)
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrDuplicateFeedback
		}
		return err
	})
}
