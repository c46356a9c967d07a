package infra

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "validFiles")
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRedisPathCacheKeepsOrderAndDuplicates(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestRedis(t)

	require.NoError(t, client.Ping(ctx))
	for _, p := range []string{"/uploads/a.png", "/uploads/b.png", "/uploads/a.png"} {
		require.NoError(t, client.AppendPath(ctx, p))
	}

	paths, err := client.ListPaths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.png", "/uploads/a.png"}, paths)

	stored, err := mr.List("validFiles")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestRedisRemovePathRemovesAllOccurrences(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestRedis(t)

	for _, p := range []string{"/uploads/a.png", "/uploads/b.png", "/uploads/a.png"} {
		require.NoError(t, client.AppendPath(ctx, p))
	}

	removed, err := client.RemovePath(ctx, "/uploads/a.png")
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	removed, err = client.RemovePath(ctx, "/uploads/a.png")
	require.NoError(t, err)
	assert.Zero(t, removed)

	paths, err := client.ListPaths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/b.png"}, paths)
}

func TestRedisListPathsEmpty(t *testing.T) {
	client, _ := newTestRedis(t)

	paths, err := client.ListPaths(context.Background())
	require.NoError(t, err)
	assert.Empty(t, paths)
}
