package proxy

import (
	"context"

	"courier-chat/internal/domain/message"
	"courier-chat/internal/domain/thread"
	"courier-chat/internal/repository"
	courier_errors "courier-chat/pkg/errors"

	"github.com/google/uuid"
)

// AccessControl answers "may this user touch this thread or message".
// Outsiders get ErrNotFound so a thread's existence is never revealed.
type AccessControl struct {
	threadRepo repository.ThreadRepository
}

func NewAccessControl(threadRepo repository.ThreadRepository) *AccessControl {
	return &AccessControl{threadRepo: threadRepo}
}

func (a *AccessControl) CanViewThread(ctx context.Context, userID, threadID uuid.UUID) error {
	return a.ensureParticipant(ctx, threadID, userID)
}

func (a *AccessControl) CanPostMessage(ctx context.Context, userID, threadID uuid.UUID) error {
	return a.ensureParticipant(ctx, threadID, userID)
}

// CanMarkRead checks membership of the message's thread, then that the
// requester is not the author.
func (a *AccessControl) CanMarkRead(ctx context.Context, userID uuid.UUID, m message.Message) error {
	if err := a.ensureParticipant(ctx, m.ThreadID, userID); err != nil {
		return err
	}
	return CanMarkRead(m, userID)
}

func (a *AccessControl) ensureParticipant(ctx context.Context, threadID, userID uuid.UUID) error {
	if a.threadRepo == nil {
		return courier_errors.ErrNotFound
	}
	ok, err := a.threadRepo.IsParticipant(ctx, threadID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return courier_errors.ErrNotFound
	}
	return nil
}

func IsParticipantOfThread(t thread.Thread, userID uuid.UUID) bool {
	return t.HasParticipant(userID)
}

func IsMessageOfThread(m message.Message, t thread.Thread) bool {
	return m.ThreadID == t.ID
}

// CanMarkRead rejects the author of the message.
func CanMarkRead(m message.Message, userID uuid.UUID) error {
	if m.SentBy(userID) {
		return courier_errors.Denied("you cannot mark as read your own message")
	}
	return nil
}
