package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Redis stores values as plain Redis strings under a common prefix so that
// every process pointed at the same server shares them.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis returns a Redis medium. An empty prefix stores keys verbatim.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "redis get %q", key)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key, raw string) error {
	if err := r.client.Set(ctx, r.key(key), raw, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %q", key)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return errors.Wrapf(err, "redis del %q", key)
	}
	return nil
}
