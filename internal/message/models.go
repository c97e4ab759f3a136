package message

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"index"`

	SenderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ReceiverID uuid.UUID `gorm:"type:uuid;index;not null"`
	Text       string    `gorm:"type:text;not null"`
	Read       bool      `gorm:"column:is_read;not null;default:false"`
}

func (Message) TableName() string {
	return "messages"
}

// Partner returns the other side of the message from the user's point of view
func (m *Message) Partner(userID uuid.UUID) uuid.UUID {
	if m.SenderID == userID {
		return m.ReceiverID
	}

	return m.SenderID
}

// Conversation summarizes the exchange with one partner
type Conversation struct {
	PartnerID   uuid.UUID
	LastMessage Message
	UnreadCount int64
}
