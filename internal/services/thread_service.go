package services

import (
	"context"
	"errors"

	"courier-chat/internal/domain/thread"
	"courier-chat/internal/proxy"
	"courier-chat/internal/repository"
	courier_errors "courier-chat/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ThreadService struct {
	db     *gorm.DB
	repo   repository.ThreadRepository
	users  *UserService
	access *proxy.AccessControl
}

func NewThreadService(db *gorm.DB, repo repository.ThreadRepository, users *UserService, access *proxy.AccessControl) *ThreadService {
	return &ThreadService{db: db, repo: repo, users: users, access: access}
}

// CreateOrGet returns the thread shared by requester and participant,
// creating it when none exists. created reports whether a new thread was made.
func (s *ThreadService) CreateOrGet(ctx context.Context, requesterID, participantID uuid.UUID) (thread.Thread, bool, error) {
	if participantID == uuid.Nil {
		return thread.Thread{}, false, courier_errors.Invalid("participant", "this field is required")
	}
	if participantID == requesterID {
		return thread.Thread{}, false, courier_errors.Invalid("participant", "cannot start a thread with yourself")
	}
	ok, err := s.users.Exists(ctx, participantID)
	if err != nil {
		return thread.Thread{}, false, err
	}
	if !ok {
		return thread.Thread{}, false, courier_errors.Invalid("participant", "user does not exist")
	}

	var result thread.Thread
	created := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewThreadRepository(tx)

		existing, err := repo.GetDirectThread(ctx, requesterID, participantID)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, courier_errors.ErrNotFound) {
			return err
		}

		t := &thread.Thread{ID: uuid.New(), PairKey: thread.PairKey(requesterID, participantID)}
		if err := repo.Create(ctx, t); err != nil {
			return err
		}
		for _, userID := range []uuid.UUID{participantID, requesterID} {
			p := &thread.Participant{ThreadID: t.ID, UserID: userID}
			if err := repo.AddParticipant(ctx, p); err != nil {
				return err
			}
			t.Participants = append(t.Participants, *p)
		}
		result, created = *t, true
		return nil
	})
	if errors.Is(err, courier_errors.ErrAlreadyExists) {
		// A concurrent request created the pair first.
		existing, getErr := s.repo.GetByPairKey(ctx, thread.PairKey(requesterID, participantID))
		if getErr != nil {
			return thread.Thread{}, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return thread.Thread{}, false, err
	}
	return result, created, nil
}

// Get returns the thread if the requester participates in it.
func (s *ThreadService) Get(ctx context.Context, threadID, requesterID uuid.UUID) (thread.Thread, error) {
	t, err := s.repo.GetByID(ctx, threadID)
	if err != nil {
		return thread.Thread{}, err
	}
	if !proxy.IsParticipantOfThread(t, requesterID) {
		return thread.Thread{}, courier_errors.ErrNotFound
	}
	return t, nil
}

// Delete removes the thread with its messages and participant links in one
// transaction.
func (s *ThreadService) Delete(ctx context.Context, threadID, requesterID uuid.UUID) error {
	if err := s.access.CanViewThread(ctx, requesterID, threadID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		threads := repository.NewThreadRepository(tx)
		if _, err := repository.NewMessageRepository(tx).DeleteByThread(ctx, threadID); err != nil {
			return err
		}
		if _, err := threads.RemoveParticipants(ctx, threadID); err != nil {
			return err
		}
		return threads.Delete(ctx, threadID)
	})
}

func (s *ThreadService) IsParticipant(ctx context.Context, threadID, userID uuid.UUID) (bool, error) {
	return s.repo.IsParticipant(ctx, threadID, userID)
}

// ListForUser pages through userID's threads, oldest first. Users may only
// list their own threads.
func (s *ThreadService) ListForUser(ctx context.Context, requesterID, userID uuid.UUID, page repository.Page) ([]thread.Thread, int64, error) {
	if requesterID != userID {
		return nil, 0, courier_errors.Denied("you can only list your own threads")
	}
	return s.repo.GetUserThreads(ctx, userID, page)
}
