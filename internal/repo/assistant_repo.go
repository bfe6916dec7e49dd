// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the AI legal
// assistant: chats and their messages.
//
// Error semantics:
//   - When a chat or message is not found, functions return
//     gorm.ErrRecordNotFound (exported as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

// CreateAssistantChat inserts a new chat owned by userID with the given title.
func CreateAssistantChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.AssistantChat, error) {
	now := time.Now().UTC()
	c := &domain.AssistantChat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListAssistantChats returns all chats belonging to userID, most recent first.
func ListAssistantChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.AssistantChat, error) {
	var out []domain.AssistantChat
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountAssistantChats returns the total number of chats owned by userID.
func CountAssistantChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.AssistantChat{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListAssistantChatsPage returns a page of chats for userID, most recent first.
func ListAssistantChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.AssistantChat, error) {
	var out []domain.AssistantChat
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetAssistantChat fetches a chat by id and owner.
func GetAssistantChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.AssistantChat, error) {
	var c domain.AssistantChat
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateAssistantChatTitle renames a chat, enforcing ownership.
func UpdateAssistantChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	res := db.WithContext(ctx).
		Model(&domain.AssistantChat{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchAssistantChat bumps updated_at so list ETags change after a new message.
func TouchAssistantChat(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Model(&domain.AssistantChat{}).
		Where("id = ?", id).
		Update("updated_at", time.Now().UTC()).Error
}

// CreateAssistantMessage inserts a message. IDs are UUIDv7 so that messages
// created within the same clock tick keep their insertion order.
func CreateAssistantMessage(ctx context.Context, db *gorm.DB, chatID, role, content, attachmentName string, degraded bool) (*domain.AssistantMessage, error) {
	now := time.Now().UTC()
	m := &domain.AssistantMessage{
		ID:             NewTimeOrderedID(),
		ChatID:         chatID,
		Role:           role,
		Content:        content,
		AttachmentName: attachmentName,
		Degraded:       degraded,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return m, db.WithContext(ctx).Omit("Chat").Create(m).Error
}

// ListAssistantMessages returns messages ordered (CreatedAt ASC, ID ASC).
func ListAssistantMessages(ctx context.Context, db *gorm.DB, chatID string, limit int) ([]domain.AssistantMessage, error) {
	var out []domain.AssistantMessage
	q := db.WithContext(ctx).Where("chat_id = ?", chatID).Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountAssistantMessages uses a raw COUNT so a missing table surfaces as an error.
func CountAssistantMessages(ctx context.Context, db *gorm.DB, chatID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM assistant_messages WHERE chat_id = ? AND deleted_at IS NULL", chatID).
		Scan(&total).Error
	return total, err
}

// ListAssistantMessagesPage returns a page ordered (CreatedAt ASC, ID ASC).
func ListAssistantMessagesPage(ctx context.Context, db *gorm.DB, chatID string, offset, limit int) ([]domain.AssistantMessage, error) {
	var out []domain.AssistantMessage
	err := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetAssistantMessageForUser fetches a message only if its chat belongs to
// userID.
func GetAssistantMessageForUser(ctx context.Context, db *gorm.DB, id, userID string) (*domain.AssistantMessage, error) {
	var m domain.AssistantMessage
	err := db.WithContext(ctx).
		Joins("JOIN assistant_chats ON assistant_chats.id = assistant_messages.chat_id").
		Where("assistant_messages.id = ? AND assistant_chats.user_id = ? AND assistant_chats.deleted_at IS NULL", id, userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
