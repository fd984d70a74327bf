package message

import (
	"time"

	"github.com/google/uuid"
)

// MaxTextLength is the longest message body accepted, in characters.
const MaxTextLength = 1000

// Message represents the messages table
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ThreadID  uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Text      string    `gorm:"size:1000;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
	IsRead    bool      `gorm:"not null"`
}

func (Message) TableName() string {
	return "messages"
}

// SentBy reports whether userID authored the message.
func (m Message) SentBy(userID uuid.UUID) bool {
	return m.SenderID == userID
}
