// Package leaderboard serves the ranked user view through a Redis cache.
// Refresh runs invalidate the cached view; reads repopulate it from the
// user store.
package leaderboard

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"rating-tracker/internal/common/database"
	"rating-tracker/internal/common/errors"
	"rating-tracker/internal/models"
)

const cacheKey = "leaderboard:v1"

// ErrCacheMiss is returned by Get when no cached view exists.
var ErrCacheMiss = stderrors.New("leaderboard: cache miss")

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *database.RedisClient, ttl time.Duration) *Cache {
	return NewCacheFromClient(client.GetClient(), ttl)
}

// NewCacheFromClient wires a raw go-redis client (used by tests with
// miniredis and redismock).
func NewCacheFromClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context) ([]models.User, error) {
	raw, err := c.client.Get(ctx, cacheKey).Result()
	if stderrors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.NewCacheFailedError("get leaderboard", err)
	}

	var users []models.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		// Corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, ErrCacheMiss
	}
	return users, nil
}

func (c *Cache) Set(ctx context.Context, users []models.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return errors.NewCacheFailedError("marshal leaderboard", err)
	}
	if err := c.client.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
		return errors.NewCacheFailedError("set leaderboard", err)
	}
	return nil
}

// Invalidate drops the cached view. Called once after every refresh run.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		return errors.NewCacheFailedError("invalidate leaderboard", err)
	}
	return nil
}
