package database

import (
	"fmt"
	"log"
	"time"

	"courier-chat/internal/domain/message"
	"courier-chat/internal/domain/thread"
	"courier-chat/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	Password string
	Users    []SeedUser
	Messages []string
}

type SeedUser struct {
	Username  string
	FirstName string
	LastName  string
}

// DefaultSeedConfig returns two demo users who share one thread.
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		Password: "Password123!",
		Users: []SeedUser{
			{Username: "alice", FirstName: "Alice", LastName: "Liddell"},
			{Username: "bob", FirstName: "Bob", LastName: "Builder"},
		},
		Messages: []string{"hi bob", "hey alice", "lunch tomorrow?"},
	}
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Users    []user.User
	Thread   thread.Thread
	Messages []message.Message
}

// Seed creates the demo users (reusing existing ones by username), their thread
// and a short alternating conversation. Running it twice adds no duplicate users
// or threads.
func Seed(db *gorm.DB, cfg *SeedConfig) (*SeedResult, error) {
	if db == nil {
		return nil, ErrNotConnected
	}
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}
	if len(cfg.Users) != 2 {
		return nil, fmt.Errorf("seed needs exactly two users, got %d", len(cfg.Users))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	result := &SeedResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, su := range cfg.Users {
			var u user.User
			err := tx.Where(user.User{Username: su.Username}).
				Attrs(user.User{
					ID:           uuid.New(),
					PasswordHash: string(hash),
					FirstName:    su.FirstName,
					LastName:     su.LastName,
					IsActive:     true,
				}).
				FirstOrCreate(&u).Error
			if err != nil {
				return fmt.Errorf("seed user %s: %w", su.Username, err)
			}
			result.Users = append(result.Users, u)
		}

		a, b := result.Users[0], result.Users[1]
		key := thread.PairKey(a.ID, b.ID)
		var existing []thread.Thread
		if err := tx.Where("pair_key = ?", key).Limit(1).Find(&existing).Error; err != nil {
			return fmt.Errorf("seed thread lookup: %w", err)
		}
		if len(existing) > 0 {
			result.Thread = existing[0]
			log.Println("Seed thread already exists, skipping messages")
			return nil
		}

		th := thread.Thread{ID: uuid.New(), PairKey: key}
		if err := tx.Create(&th).Error; err != nil {
			return fmt.Errorf("seed thread: %w", err)
		}
		result.Thread = th

		for _, id := range []uuid.UUID{b.ID, a.ID} {
			if err := tx.Create(&thread.Participant{ThreadID: th.ID, UserID: id}).Error; err != nil {
				return fmt.Errorf("seed participant: %w", err)
			}
		}

		start := time.Now().UTC().Add(-time.Duration(len(cfg.Messages)) * time.Minute)
		for i, text := range cfg.Messages {
			sender := result.Users[i%2]
			m := message.Message{
				ID:        uuid.New(),
				ThreadID:  th.ID,
				SenderID:  sender.ID,
				Text:      text,
				CreatedAt: start.Add(time.Duration(i) * time.Minute),
			}
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("seed message: %w", err)
			}
			result.Messages = append(result.Messages, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Seeded %d users, thread %s, %d messages", len(result.Users), result.Thread.ID, len(result.Messages))
	return result, nil
}

// Truncate removes every chat row, leaving users in place.
func Truncate(db *gorm.DB) error {
	if db == nil {
		return ErrNotConnected
	}
	if db.Dialector.Name() == "postgres" {
		return db.Exec("TRUNCATE TABLE messages, thread_participants, threads").Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"messages", "thread_participants", "threads"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("truncate %s: %w", table, err)
			}
		}
		return nil
	})
}
