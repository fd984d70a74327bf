package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"courier-chat/internal/domain/message"
	"courier-chat/internal/proxy"
	"courier-chat/internal/repository"
	courier_errors "courier-chat/pkg/errors"

	"github.com/google/uuid"
)

type MessageService struct {
	repo   repository.MessageRepository
	access *proxy.AccessControl
}

func NewMessageService(repo repository.MessageRepository, access *proxy.AccessControl) *MessageService {
	return &MessageService{repo: repo, access: access}
}

// Create posts text into a thread the sender participates in.
func (s *MessageService) Create(ctx context.Context, threadID, senderID uuid.UUID, text string) (message.Message, error) {
	if err := s.access.CanPostMessage(ctx, senderID, threadID); err != nil {
		return message.Message{}, err
	}

	text = strings.TrimSpace(text)
	if err := validateText(text); err != nil {
		return message.Message{}, err
	}

	m := &message.Message{
		ID:        uuid.New(),
		ThreadID:  threadID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
		IsRead:    false,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return message.Message{}, err
	}
	return *m, nil
}

// Get returns a message visible to the requester.
func (s *MessageService) Get(ctx context.Context, messageID, requesterID uuid.UUID) (message.Message, error) {
	m, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		return message.Message{}, err
	}
	if err := s.access.CanViewThread(ctx, requesterID, m.ThreadID); err != nil {
		return message.Message{}, err
	}
	return m, nil
}

// MarkRead sets is_read on a message addressed to the requester. The write
// happens on every call, including repeats.
func (s *MessageService) MarkRead(ctx context.Context, messageID, requesterID uuid.UUID) error {
	m, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if err := s.access.CanMarkRead(ctx, requesterID, m); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, m.ID)
}

func (s *MessageService) IsSender(m message.Message, userID uuid.UUID) bool {
	return m.SentBy(userID)
}

// CountUnread counts unread messages sent to userID across all their threads.
func (s *MessageService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnreadForUser(ctx, userID)
}

// List pages through a thread's messages, newest first.
func (s *MessageService) List(ctx context.Context, threadID, requesterID uuid.UUID, page repository.Page) ([]message.Message, int64, error) {
	if err := s.access.CanViewThread(ctx, requesterID, threadID); err != nil {
		return nil, 0, err
	}
	return s.repo.GetThreadMessages(ctx, threadID, page)
}

func validateText(text string) error {
	if text == "" {
		return courier_errors.Invalid("text", "this field may not be blank")
	}
	if utf8.RuneCountInString(text) > message.MaxTextLength {
		return courier_errors.Invalid("text", "ensure this field has no more than 1000 characters")
	}
	return nil
}
