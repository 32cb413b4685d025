package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message directions
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// MessageLog is one line of a sender's conversation history
type MessageLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Sender    string    `gorm:"type:text;not null;index:idx_ordering_messages_sender_created" json:"sender"`
	Direction string    `gorm:"type:text;not null" json:"direction"`
	Step      string    `gorm:"type:text" json:"step"`
	Text      string    `gorm:"type:text" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_ordering_messages_sender_created" json:"created_at"`
}

// TableName specifies the table name
func (MessageLog) TableName() string {
	return "ordering_messages"
}

// BeforeCreate sets UUID before creating
func (m *MessageLog) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
