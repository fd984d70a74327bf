package httpdto

import (
	"time"

	"courier-chat/internal/domain/thread"
)

// CreateThreadRequest is used for POST /chat/threads
type CreateThreadRequest struct {
	Participant string `json:"participant" binding:"required"`
}

type CreateThreadResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

type ThreadDTO struct {
	ID           string    `json:"id"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
	Participants []string  `json:"participants"`
}

func FromThread(t thread.Thread) ThreadDTO {
	participants := make([]string, 0, len(t.Participants))
	for _, id := range t.ParticipantIDs() {
		participants = append(participants, id.String())
	}
	return ThreadDTO{
		ID:           t.ID.String(),
		Created:      t.CreatedAt,
		Updated:      t.UpdatedAt,
		Participants: participants,
	}
}

func FromThreads(threads []thread.Thread) []ThreadDTO {
	out := make([]ThreadDTO, 0, len(threads))
	for _, t := range threads {
		out = append(out, FromThread(t))
	}
	return out
}
