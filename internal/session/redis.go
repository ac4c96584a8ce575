package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/decoynet/decoy/internal/domain"
)

const redisKeyPrefix = "decoy:session:"

// RedisStore keeps sessions as JSON snapshots in redis. Serialization of
// turns for one session still relies on the in-process lock registry, so
// one instance must own any given session key at a time; the store itself
// only moves snapshots.
type RedisStore struct {
	client    *redis.Client
	factory   Factory
	retention time.Duration
}

// NewRedisStore creates a redis-backed store. Keys carry the retention
// window as TTL so terminal sessions age out without a purge pass.
func NewRedisStore(client *redis.Client, factory Factory, retention time.Duration) *RedisStore {
	return &RedisStore{client: client, factory: factory, retention: retention}
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (r *RedisStore) GetOrCreate(ctx context.Context, id string) (*domain.Session, bool, error) {
	s, err := r.Get(ctx, id)
	if err == nil {
		return s, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	s = r.factory(id)
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, false, fmt.Errorf("marshal session %s: %w", id, err)
	}
	// SetNX so two instances racing on first contact agree on one session.
	created, err := r.client.SetNX(ctx, redisKey(id), payload, r.retention).Result()
	if err != nil {
		return nil, false, fmt.Errorf("create session %s: %w", id, err)
	}
	if !created {
		s, err := r.Get(ctx, id)
		return s, false, err
	}
	return s, true, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	var s domain.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *domain.Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, redisKey(s.ID), payload, r.retention).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisStore) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(redisKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return ids, nil
}

// PurgeTerminal is satisfied by key TTLs in the redis backend.
func (r *RedisStore) PurgeTerminal(ctx context.Context, retention time.Duration, now time.Time) (int, error) {
	return 0, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
