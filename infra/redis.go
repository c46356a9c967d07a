package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/tnqbao/gau-gallery-service/config"
)

// RedisClient keeps the ordered list of uploaded file paths under PathsKey.
// Entries are appended as-is, so the list may contain duplicates.
type RedisClient struct {
	Client   *redis.Client
	PathsKey string
}

func InitRedisClient(cfg *config.EnvConfig) *RedisClient {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})
	return NewRedisClient(client, cfg.Redis.PathsKey)
}

func NewRedisClient(client *redis.Client, pathsKey string) *RedisClient {
	return &RedisClient{Client: client, PathsKey: pathsKey}
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *RedisClient) ListPaths(ctx context.Context) ([]string, error) {
	return r.Client.LRange(ctx, r.PathsKey, 0, -1).Result()
}

func (r *RedisClient) AppendPath(ctx context.Context, path string) error {
	return r.Client.RPush(ctx, r.PathsKey, path).Err()
}

// RemovePath drops every occurrence of path and reports how many were removed.
func (r *RedisClient) RemovePath(ctx context.Context, path string) (int64, error) {
	return r.Client.LRem(ctx, r.PathsKey, 0, path).Result()
}

func (r *RedisClient) Close() error {
	return r.Client.Close()
}
