// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the case chat
// attached to a representation.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

// NewTimeOrderedID returns a UUIDv7 string, so ids sort in creation order.
func NewTimeOrderedID() string { return uuid.Must(uuid.NewV7()).String() }

// CreateCaseChatMessage appends a message to a representation's chat. The
// caller fills RepresentationID, SenderID, Kind, Text, File and Payload.
func CreateCaseChatMessage(ctx context.Context, db *gorm.DB, m *domain.CaseChatMessage) error {
	m.ID = NewTimeOrderedID()
	if m.Kind == "" {
		m.Kind = domain.KindPlain
	}
	m.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Omit("Representation", "Sender").Create(m).Error
}

// ListCaseChatMessages returns the whole chat ordered (CreatedAt ASC, ID ASC).
func ListCaseChatMessages(ctx context.Context, db *gorm.DB, repID string) ([]domain.CaseChatMessage, error) {
	var out []domain.CaseChatMessage
	err := db.WithContext(ctx).
		Preload("Sender").
		Where("representation_id = ?", repID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListCaseChatMessagesPage returns a page ordered (CreatedAt ASC, ID ASC).
func ListCaseChatMessagesPage(ctx context.Context, db *gorm.DB, repID string, offset, limit int) ([]domain.CaseChatMessage, error) {
	var out []domain.CaseChatMessage
	err := db.WithContext(ctx).
		Preload("Sender").
		Where("representation_id = ?", repID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountCaseChatMessages counts the messages of a representation.
func CountCaseChatMessages(ctx context.Context, db *gorm.DB, repID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.CaseChatMessage{}).
		Where("representation_id = ?", repID).
		Count(&total).Error
	return total, err
}

// GetCaseChatMessage fetches one message of a representation.
func GetCaseChatMessage(ctx context.Context, db *gorm.DB, repID, id string) (*domain.CaseChatMessage, error) {
	var m domain.CaseChatMessage
	err := db.WithContext(ctx).
		Where("id = ? AND representation_id = ?", id, repID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// LatestCaseChatMessageOfKind returns the most recent message of kind, or
// ErrNotFound.
func LatestCaseChatMessageOfKind(ctx context.Context, db *gorm.DB, repID string, kind domain.MessageKind) (*domain.CaseChatMessage, error) {
	var m domain.CaseChatMessage
	err := db.WithContext(ctx).
		Where("representation_id = ? AND kind = ?", repID, kind).
		Order("created_at DESC, id DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
