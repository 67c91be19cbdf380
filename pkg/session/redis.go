package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// redisStore implements Store on Redis for deployments that want sessions
// to survive a process restart. Idle expiry rides on native key TTLs.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (s *redisStore) key(id string) string { return sessionKeyPrefix + id }

// Create implements Store.
func (s *redisStore) Create(ctx context.Context, sess *Session) error {
	val, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, s.key(sess.ID), val, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrExists
	}
	return nil
}

// Get implements Store.
func (s *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Put implements Store. The TTL is refreshed on every write so a live
// conversation never expires under its caller.
func (s *redisStore) Put(ctx context.Context, sess *Session) error {
	val, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	ok, err := s.client.SetXX(ctx, s.key(sess.ID), val, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete implements Store.
func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// DeleteIdle implements Store. Redis evicts idle sessions through key TTL,
// so a sweep has nothing left to do.
func (s *redisStore) DeleteIdle(ctx context.Context, maxAge time.Duration) (int, error) {
	return 0, nil
}

// Close implements Store.
func (s *redisStore) Close() error {
	return s.client.Close()
}
