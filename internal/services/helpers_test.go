package services

import (
	"testing"

	"courier-chat/internal/proxy"
	"courier-chat/internal/repository"
	"courier-chat/internal/testutil"

	"gorm.io/gorm"
)

type chatFixture struct {
	db       *gorm.DB
	threads  *ThreadService
	messages *MessageService
	users    *UserService
}

func newChatFixture(t *testing.T) chatFixture {
	t.Helper()

	db := testutil.NewDB(t)
	threadRepo := repository.NewThreadRepository(db)
	access := proxy.NewAccessControl(threadRepo)
	users := NewUserService(repository.NewUserRepository(db), nil, nil)

	return chatFixture{
		db:       db,
		threads:  NewThreadService(db, threadRepo, users, access),
		messages: NewMessageService(repository.NewMessageRepository(db), access),
		users:    users,
	}
}

func countRows(t *testing.T, db *gorm.DB, table, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
