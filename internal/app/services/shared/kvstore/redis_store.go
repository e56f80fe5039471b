package kvstore

import (
	"context"
	"time"
	"virem-service/internal/app/contracts"
)

type redisStore struct {
	redisRepo contracts.RedisRepository
	prefix    string
}

// NewRedisStore keeps entries in Redis under prefix. Used when the gateway runs as several replicas.
func NewRedisStore(redisRepo contracts.RedisRepository, prefix string) contracts.KeyValueStore {
	return &redisStore{redisRepo: redisRepo, prefix: prefix}
}

func (s *redisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.redisRepo.SetRaw(ctx, s.prefix+key, value, ttl)
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.redisRepo.GetRaw(ctx, s.prefix+key)
	if err != nil {
		return "", false, err
	}
	return value, value != "", nil
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = s.prefix + key
	}
	return s.redisRepo.Delete(ctx, prefixed...)
}
