package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - user:{user_id} - profile used to render message senders

type CacheConfig struct {
	UserTTL time.Duration
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		UserTTL: 5 * time.Minute,
	}
}

// CacheStore handles caching in Redis
type CacheStore struct {
	client *goredis.Client
	config CacheConfig
}

func NewCacheStore(client *goredis.Client, config CacheConfig) *CacheStore {
	return &CacheStore{
		client: client,
		config: config,
	}
}

// UserCache is the cached subset of a user row.
type UserCache struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

func userKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// GetMultipleUsers fetches several profiles in one round trip. Misses are
// simply absent from the result.
func (c *CacheStore) GetMultipleUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*UserCache, error) {
	result := make(map[uuid.UUID]*UserCache, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	pipe := c.client.Pipeline()
	cmds := make(map[uuid.UUID]*goredis.StringCmd, len(userIDs))
	for _, id := range userIDs {
		cmds[id] = pipe.Get(ctx, userKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return nil, err
	}

	for id, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}
		var u UserCache
		if err := json.Unmarshal([]byte(data), &u); err != nil {
			continue
		}
		result[id] = &u
	}
	return result, nil
}

func (c *CacheStore) SetMultipleUsers(ctx context.Context, users []*UserCache) error {
	if len(users) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, u := range users {
		data, err := json.Marshal(u)
		if err != nil {
			return err
		}
		pipe.Set(ctx, userKey(u.ID), data, c.config.UserTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}
