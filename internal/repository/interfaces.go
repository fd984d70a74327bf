package repository

import (
	"context"

	"github.com/google/uuid"

	"courier-chat/internal/domain/message"
	"courier-chat/internal/domain/thread"
	"courier-chat/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type ThreadRepository interface {
	Create(ctx context.Context, t *thread.Thread) error
	AddParticipant(ctx context.Context, p *thread.Participant) error
	GetByID(ctx context.Context, id uuid.UUID) (thread.Thread, error)
	GetDirectThread(ctx context.Context, userID1, userID2 uuid.UUID) (thread.Thread, error)
	GetByPairKey(ctx context.Context, key string) (thread.Thread, error)
	IsParticipant(ctx context.Context, threadID, userID uuid.UUID) (bool, error)
	GetUserThreads(ctx context.Context, userID uuid.UUID, page Page) ([]thread.Thread, int64, error)
	RemoveParticipants(ctx context.Context, threadID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	GetThreadMessages(ctx context.Context, threadID uuid.UUID, page Page) ([]message.Message, int64, error)
	CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteByThread(ctx context.Context, threadID uuid.UUID) (int64, error)
}
