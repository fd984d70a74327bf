package services

import (
	"context"
	"errors"
	"testing"

	"courier-chat/internal/redis"
	"courier-chat/internal/repository"
	"courier-chat/internal/testutil"

	"github.com/google/uuid"
)

type fakeProfileCache struct {
	entries map[uuid.UUID]*redis.UserCache
	readErr error
	written []*redis.UserCache
}

func (f *fakeProfileCache) GetMultipleUsers(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*redis.UserCache, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := map[uuid.UUID]*redis.UserCache{}
	for _, id := range ids {
		if u, ok := f.entries[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeProfileCache) SetMultipleUsers(_ context.Context, users []*redis.UserCache) error {
	f.written = append(f.written, users...)
	return nil
}

func TestDisplayNamesReadThrough(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	cache := &fakeProfileCache{entries: map[uuid.UUID]*redis.UserCache{
		a.ID: {ID: a.ID, Username: "alice", FirstName: "Cached", LastName: "Alice"},
	}}
	svc := NewUserService(repository.NewUserRepository(db), cache, nil)

	names, err := svc.DisplayNames(ctx, []uuid.UUID{a.ID, b.ID, a.ID, uuid.New()})
	if err != nil {
		t.Fatalf("display names: %v", err)
	}
	if names[a.ID] != "Cached Alice" {
		t.Errorf("expected cached name for alice, got %q", names[a.ID])
	}
	if names[b.ID] != "bob Tester" {
		t.Errorf("expected database name for bob, got %q", names[b.ID])
	}
	if len(names) != 2 {
		t.Errorf("expected unknown ids to be skipped, got %v", names)
	}
	if len(cache.written) != 1 || cache.written[0].ID != b.ID {
		t.Errorf("expected only bob to be written back, got %+v", cache.written)
	}
}

func TestDisplayNamesCacheFailureFallsBack(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.CreateUser(t, db, "alice")

	cache := &fakeProfileCache{readErr: errors.New("redis down")}
	svc := NewUserService(repository.NewUserRepository(db), cache, nil)

	names, err := svc.DisplayNames(context.Background(), []uuid.UUID{a.ID})
	if err != nil {
		t.Fatalf("display names: %v", err)
	}
	if names[a.ID] != "alice Tester" {
		t.Fatalf("expected database fallback, got %q", names[a.ID])
	}
}
