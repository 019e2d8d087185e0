package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rating-tracker/internal/models"
)

func newMiniredisCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheFromClient(client, 10*time.Minute), mr
}

func sampleUsers() []models.User {
	return []models.User{
		{ID: "u1", Name: "Top", Snapshot: models.RatingSnapshot{TotalScore: 9000}},
		{ID: "u2", Name: "Second", Snapshot: models.RatingSnapshot{TotalScore: 4000}},
	}
}

func TestCache_SetGetRoundtrip(t *testing.T) {
	cache, _ := newMiniredisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleUsers()))

	users, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, 9000, users[0].Snapshot.TotalScore)
}

func TestCache_GetMissWhenEmpty(t *testing.T) {
	cache, _ := newMiniredisCache(t)

	users, err := cache.Get(context.Background())

	assert.Nil(t, users)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_InvalidateDropsView(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleUsers()))
	require.True(t, mr.Exists(cacheKey))

	require.NoError(t, cache.Invalidate(ctx))

	assert.False(t, mr.Exists(cacheKey))
	_, err := cache.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_CorruptEntryBehavesLikeMiss(t *testing.T) {
	cache, mr := newMiniredisCache(t)

	require.NoError(t, mr.Set(cacheKey, "not json"))

	_, err := cache.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_InvalidateIssuesDel(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewCacheFromClient(client, time.Minute)

	mock.ExpectDel(cacheKey).SetVal(1)

	require.NoError(t, cache.Invalidate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
