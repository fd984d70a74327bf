// Package testutil opens isolated SQLite databases carrying the chat schema.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"courier-chat/internal/domain/message"
	"courier-chat/internal/domain/thread"
	"courier-chat/internal/domain/user"
	"courier-chat/pkg/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain-text password of every user made by CreateUser.
const Password = "password123"

// NewDB returns a migrated in-memory database private to the calling test.
// The pool holds a single connection, so concurrent callers are serialized.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts an active user with the shared test password.
func CreateUser(t testing.TB, db *gorm.DB, username string) user.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := user.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		FirstName:    username,
		LastName:     "Tester",
		IsActive:     true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreateThread inserts a thread between a and b without going through the service.
func CreateThread(t testing.TB, db *gorm.DB, a, b uuid.UUID) thread.Thread {
	t.Helper()

	th := thread.Thread{
		ID:      uuid.New(),
		PairKey: thread.PairKey(a, b),
		Participants: []thread.Participant{
			{UserID: b},
			{UserID: a},
		},
	}
	if err := db.Create(&th).Error; err != nil {
		t.Fatalf("create thread: %v", err)
	}
	return th
}

// CreateMessage inserts an unread message at the given time.
func CreateMessage(t testing.TB, db *gorm.DB, threadID, senderID uuid.UUID, text string, at time.Time) message.Message {
	t.Helper()

	m := message.Message{
		ID:        uuid.New(),
		ThreadID:  threadID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: at.UTC(),
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("create message: %v", err)
	}
	return m
}
