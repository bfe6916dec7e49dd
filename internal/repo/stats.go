// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

// latest runs q (already scoped) and returns its row count and the newest
// value of column.
func latest(q *gorm.DB, column string) (count int64, maxAt *time.Time, err error) {
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest timestamp (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
		CreatedAt time.Time
	}
	if err = q.Select(column).Order(column + " DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	at := row.UpdatedAt
	if column == "created_at" {
		at = row.CreatedAt
	}
	return count, &at, nil
}

// AssistantChatsStats returns the number of a user's chats and their maximum
// updated_at (nil when there are none).
func AssistantChatsStats(ctx context.Context, db *gorm.DB, userID string) (int64, *time.Time, error) {
	return latest(db.WithContext(ctx).Model(&domain.AssistantChat{}).Where("user_id = ?", userID), "updated_at")
}

// AssistantMessagesStats returns the number of messages in a chat and their
// maximum updated_at.
func AssistantMessagesStats(ctx context.Context, db *gorm.DB, chatID string) (int64, *time.Time, error) {
	return latest(db.WithContext(ctx).Model(&domain.AssistantMessage{}).Where("chat_id = ?", chatID), "updated_at")
}

// CaseChatStats returns the number of messages in a representation's chat
// and the newest created_at. Case chat messages are append-only.
func CaseChatStats(ctx context.Context, db *gorm.DB, repID string) (int64, *time.Time, error) {
	return latest(db.WithContext(ctx).Model(&domain.CaseChatMessage{}).Where("representation_id = ?", repID), "created_at")
}
