package proxy

import (
	"context"
	"errors"
	"testing"

	"courier-chat/internal/domain/message"
	"courier-chat/internal/domain/thread"
	"courier-chat/internal/repository"
	"courier-chat/internal/testutil"
	courier_errors "courier-chat/pkg/errors"

	"github.com/google/uuid"
)

func TestPredicates(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	th := thread.Thread{ID: uuid.New(), Participants: []thread.Participant{{UserID: a}, {UserID: b}}}
	m := message.Message{ID: uuid.New(), ThreadID: th.ID, SenderID: a}

	if !IsParticipantOfThread(th, a) || IsParticipantOfThread(th, uuid.New()) {
		t.Fatalf("participant predicate is wrong")
	}
	if !IsMessageOfThread(m, th) || IsMessageOfThread(m, thread.Thread{ID: uuid.New()}) {
		t.Fatalf("message predicate is wrong")
	}
	if err := CanMarkRead(m, a); !errors.Is(err, courier_errors.ErrForbidden) {
		t.Fatalf("expected sender to be forbidden, got %v", err)
	}
	if err := CanMarkRead(m, b); err != nil {
		t.Fatalf("expected recipient to be allowed, got %v", err)
	}
}

func TestAccessControlHidesThreadsFromOutsiders(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	access := NewAccessControl(repository.NewThreadRepository(db))

	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")
	c := testutil.CreateUser(t, db, "c")
	th := testutil.CreateThread(t, db, a.ID, b.ID)

	if err := access.CanViewThread(ctx, a.ID, th.ID); err != nil {
		t.Fatalf("participant denied: %v", err)
	}
	if err := access.CanViewThread(ctx, c.ID, th.ID); !errors.Is(err, courier_errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for outsider, got %v", err)
	}
	if err := access.CanPostMessage(ctx, c.ID, uuid.New()); !errors.Is(err, courier_errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing thread, got %v", err)
	}

	m := message.Message{ID: uuid.New(), ThreadID: th.ID, SenderID: b.ID}
	if err := access.CanMarkRead(ctx, c.ID, m); !errors.Is(err, courier_errors.ErrNotFound) {
		t.Fatalf("expected outsider mark-read to be ErrNotFound, got %v", err)
	}
	if err := access.CanMarkRead(ctx, b.ID, m); !errors.Is(err, courier_errors.ErrForbidden) {
		t.Fatalf("expected sender mark-read to be ErrForbidden, got %v", err)
	}
	if err := access.CanMarkRead(ctx, a.ID, m); err != nil {
		t.Fatalf("expected recipient mark-read to pass, got %v", err)
	}
}
