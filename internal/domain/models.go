// Package domain defines the persistence models for the legal-services
// backend: accounts and roles, case submissions, client/lawyer
// representations with their case chat, the virtual court, and the AI
// legal-assistant chat. These types are mapped with GORM and shared by the
// repository and service layers.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Attachment references a stored file. It is embedded (with a column prefix)
// into every entity that may carry a document.
//
// Fields:
//   - Key: storage key returned by the document store (empty when absent).
//   - Name: original client-side file name, used for display and downloads.
//   - MIME: detected content type.
type Attachment struct {
	Key  string `json:"-"              gorm:"type:varchar(255);not null;default:''"`
	Name string `json:"name,omitempty" gorm:"type:varchar(255);not null;default:''"`
	MIME string `json:"mime,omitempty" gorm:"type:varchar(100);not null;default:''"`
}

// Present reports whether the attachment points at a stored file.
func (a Attachment) Present() bool { return a.Key != "" }

// AssistantChat is a conversation between a user and the AI legal assistant.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: owner account; indexed for efficient retrieval.
//   - Title: human-readable title (auto-generated from the first prompt).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type AssistantChat struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"   gorm:"type:char(36);not null;index:idx_user_assistant_chats"`
	Title     string         `json:"title"     gorm:"type:varchar(255);not null;default:'New chat'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

// TableName returns the database table name for AssistantChat.
func (AssistantChat) TableName() string { return "assistant_chats" }

// AssistantMessage is one utterance in an assistant chat, authored either by
// the "user" or the "assistant". Degraded marks assistant replies that are a
// placeholder because the model gateway was unavailable.
type AssistantMessage struct {
	ID             string         `json:"id"        gorm:"type:char(36);primaryKey"`
	ChatID         string         `json:"chat_id"   gorm:"type:char(36);not null;index:idx_assistant_msgs,priority:1"`
	Role           string         `json:"role"      gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content        string         `json:"content"   gorm:"type:text;not null"`
	AttachmentName string         `json:"attachment_name,omitempty" gorm:"type:varchar(255);not null;default:''"`
	Degraded       bool           `json:"degraded,omitempty"        gorm:"not null;default:false"`
	CreatedAt      time.Time      `json:"created_at" gorm:"index:idx_assistant_msgs,priority:2"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"         gorm:"index"`

	Chat AssistantChat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for AssistantMessage.
func (AssistantMessage) TableName() string { return "assistant_messages" }

// Feedback is a +1/-1 rating left by a user on an assistant reply. A user can
// rate a message once (unique index on message_id,user_id).
type Feedback struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	MessageID string         `json:"message_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_feedback_message_user"`
	UserID    string         `json:"user_id"    gorm:"type:char(36);not null;index;uniqueIndex:ux_feedback_message_user"`
	Value     int            `json:"value"      gorm:"not null;check:value IN (-1,1)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`

	Message AssistantMessage `json:"-" gorm:"foreignKey:MessageID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Feedback.
func (Feedback) TableName() string { return "message_feedback" }
