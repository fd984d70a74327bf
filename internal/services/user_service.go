package services

import (
	"context"

	"courier-chat/internal/domain/user"
	"courier-chat/internal/redis"
	"courier-chat/internal/repository"
	"courier-chat/pkg/logger"

	"github.com/google/uuid"
)

// ProfileCache is the read-through cache in front of the users table.
type ProfileCache interface {
	GetMultipleUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*redis.UserCache, error)
	SetMultipleUsers(ctx context.Context, users []*redis.UserCache) error
}

type UserService struct {
	repo   repository.UserRepository
	cache  ProfileCache
	logger *logger.Logger
}

// NewUserService builds the service. cache may be nil.
func NewUserService(repo repository.UserRepository, cache ProfileCache, l *logger.Logger) *UserService {
	return &UserService{repo: repo, cache: cache, logger: l}
}

func (s *UserService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// DisplayNames resolves full names for the given users. Cache failures fall
// back to the database; unknown ids are left out of the result.
func (s *UserService) DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	ids = uniqueIDs(ids)
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	missing := ids
	if s.cache != nil {
		cached, err := s.cache.GetMultipleUsers(ctx, ids)
		if err != nil {
			s.warnf("profile cache read failed: %v", err)
		} else {
			missing = missing[:0:0]
			for _, id := range ids {
				if c, ok := cached[id]; ok {
					names[id] = cacheToUser(c).FullName()
					continue
				}
				missing = append(missing, id)
			}
		}
	}
	if len(missing) == 0 {
		return names, nil
	}

	users, err := s.repo.GetUsersByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	fill := make([]*redis.UserCache, 0, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName()
		fill = append(fill, &redis.UserCache{
			ID:        u.ID,
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		})
	}
	if s.cache != nil && len(fill) > 0 {
		if err := s.cache.SetMultipleUsers(ctx, fill); err != nil {
			s.warnf("profile cache write failed: %v", err)
		}
	}
	return names, nil
}

func (s *UserService) warnf(template string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warnf(template, args...)
	}
}

func cacheToUser(c *redis.UserCache) user.User {
	return user.User{ID: c.ID, Username: c.Username, FirstName: c.FirstName, LastName: c.LastName}
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
