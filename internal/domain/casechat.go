package domain

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
)

// MessageKind tags a case-chat message. Packets keep a human-readable text
// rendering (with a marker line) and carry their structured data in Payload.
type MessageKind string

const (
	KindPlain         MessageKind = "plain"
	KindForwardedCase MessageKind = "forwarded_case"
	KindTranscript    MessageKind = "transcript"
)

// Marker strings embedded in the text rendering of packets. They are a
// user-visible contract: clients grep chat history for them.
const (
	ForwardedCaseMarker = "FORWARDED CASE FILE"
	TranscriptMarker    = "OFFICIAL COURT TRANSCRIPT"
)

// ErrNoPayload is returned by DecodePayload for messages without a payload.
var ErrNoPayload = errors.New("message has no payload")

// CaseChatMessage is one entry in a representation's chat. Sender must be the
// client or the lawyer of the representation. IDs are UUIDv7 so that
// (created_at, id) ordering also follows insertion order.
type CaseChatMessage struct {
	ID               string         `json:"id"                gorm:"type:char(36);primaryKey"`
	RepresentationID string         `json:"representation_id" gorm:"type:char(36);not null;index:idx_case_chat,priority:1"`
	SenderID         string         `json:"sender_id"         gorm:"type:char(36);not null;index"`
	Kind             MessageKind    `json:"kind"              gorm:"type:varchar(20);not null;default:'plain';index;check:kind IN ('plain','forwarded_case','transcript')"`
	Text             string         `json:"text"              gorm:"type:text;not null;default:''"`
	File             Attachment     `json:"file"              gorm:"embedded;embeddedPrefix:file_"`
	Payload          datatypes.JSON `json:"payload,omitempty"`
	CreatedAt        time.Time      `json:"created_at"        gorm:"index:idx_case_chat,priority:2"`

	Representation Representation `json:"-" gorm:"foreignKey:RepresentationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Sender         *Account       `json:"sender,omitempty" gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for CaseChatMessage.
func (CaseChatMessage) TableName() string { return "case_chat_messages" }

// ForwardedCasePayload is the structured side of a forwarded case packet.
type ForwardedCasePayload struct {
	CaseID     string `json:"case_id"`
	CaseNumber string `json:"case_number"`
}

// TranscriptPayload is the structured side of a court transcript packet.
type TranscriptPayload struct {
	SessionID  string `json:"session_id"`
	Turns      int    `json:"turns"`
	FinalScore int    `json:"final_score"`
}

// EncodePayload marshals v into a JSON column value.
func EncodePayload(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// DecodePayload unmarshals the message payload into v.
func (m *CaseChatMessage) DecodePayload(v any) error {
	if len(m.Payload) == 0 {
		return ErrNoPayload
	}
	return json.Unmarshal(m.Payload, v)
}
