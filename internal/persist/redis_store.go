package persist

import (
	"context"
	"errors"

	"github.com/lastcentaur/server/internal/config"
	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "centaur:snapshot:"

// RedisStore is the Redis-backed Store, for deployments that want snapshot
// durability without a relational database.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})}
}

func (s *RedisStore) Put(ctx context.Context, instanceID string, snapshot []byte) error {
	if err := s.client.Set(ctx, snapshotKeyPrefix+instanceID, snapshot, 0).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, instanceID string) ([]byte, error) {
	data, err := s.client.Get(ctx, snapshotKeyPrefix+instanceID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return data, nil
}

func (s *RedisStore) Delete(ctx context.Context, instanceID string) error {
	if err := s.client.Del(ctx, snapshotKeyPrefix+instanceID).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
