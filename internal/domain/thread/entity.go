package thread

import (
	"time"

	"github.com/google/uuid"
)

// Thread represents the threads table. A thread always has exactly two participants.
type Thread struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PairKey   string    `gorm:"size:80;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	// Relationships
	Participants []Participant `gorm:"foreignKey:ThreadID"`
}

// Participant represents the thread_participants table
type Participant struct {
	ThreadID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

func (Thread) TableName() string {
	return "threads"
}

func (Participant) TableName() string {
	return "thread_participants"
}

// PairKey returns the canonical key of the unordered pair {a, b}.
func PairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}

// ParticipantIDs returns the user ids linked to the thread.
func (t Thread) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.Participants))
	for _, p := range t.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// HasParticipant reports whether userID is one of the loaded participants.
func (t Thread) HasParticipant(userID uuid.UUID) bool {
	for _, p := range t.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
