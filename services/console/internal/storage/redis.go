package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries as plain redis strings under a namespace prefix.
type RedisStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisStore returns redis-backed store. ttl <= 0 keeps entries until deleted.
func NewRedisStore(client *redis.Client, namespace string, ttl time.Duration) *RedisStore {
	if namespace == "" {
		namespace = "stationdesk"
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, namespace: namespace, ttl: ttl}
}

func (s *RedisStore) key(name string) string {
	return fmt.Sprintf("%s:storage:%s", s.namespace, name)
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	result, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return result, true, nil
}

func (s *RedisStore) Put(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range entries {
			pipe.Set(ctx, s.key(e.Key), e.Value, s.ttl)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.key(k))
	}
	return s.client.Del(ctx, full...).Err()
}

// Close releases the redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
