package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/state"
)

// KV stores state documents as plain redis strings without expiry.
type KV struct {
	client *goredis.Client
}

func NewClient(cfg internal.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewKV(client *goredis.Client) *KV {
	return &KV{client: client}
}

func (r *KV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, state.ErrKeyNotFound
	}
	return b, err
}

func (r *KV) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *KV) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *KV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
