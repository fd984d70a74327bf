package httpdto

import (
	"time"

	"courier-chat/internal/domain/message"

	"github.com/google/uuid"
)

// SendMessageRequest is used for POST /chat/threads/:id/messages
type SendMessageRequest struct {
	Text string `json:"text"`
}

type MessageDTO struct {
	ID       string    `json:"id"`
	SenderID string    `json:"sender_id"`
	Sender   string    `json:"sender"`
	Text     string    `json:"text"`
	Created  time.Time `json:"created"`
	IsRead   bool      `json:"is_read"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// FromMessage renders a message; names maps sender ids to full names.
func FromMessage(m message.Message, names map[uuid.UUID]string) MessageDTO {
	return MessageDTO{
		ID:       m.ID.String(),
		SenderID: m.SenderID.String(),
		Sender:   names[m.SenderID],
		Text:     m.Text,
		Created:  m.CreatedAt,
		IsRead:   m.IsRead,
	}
}

func FromMessages(messages []message.Message, names map[uuid.UUID]string) []MessageDTO {
	out := make([]MessageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, FromMessage(m, names))
	}
	return out
}
