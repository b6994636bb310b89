package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps pending payment sessions in Redis under
// "<prefix>:<customer_id>" with a TTL, so abandoned sessions expire on
// their own instead of lingering until overwritten.
type RedisSessionStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisSessionStore returns a store writing under the given key
// prefix with the given expiry. A non-positive ttl falls back to one
// hour.
func NewRedisSessionStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisSessionStore {
	if rdb == nil {
		panic("nil redis client passed to NewRedisSessionStore")
	}
	if prefix == "" {
		prefix = "paysession"
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisSessionStore{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (s *RedisSessionStore) key(customerID uint64) string {
	return fmt.Sprintf("%s:%d", s.prefix, customerID)
}

// Get loads the customer's pending session. Missing or expired keys map
// to ErrNoSession.
func (s *RedisSessionStore) Get(ctx context.Context, customerID uint64) (*PendingSession, error) {
	raw, err := s.rdb.Get(ctx, s.key(customerID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	var sess PendingSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Put stores the session, replacing any previous one for the customer
// and resetting the expiry.
func (s *RedisSessionStore) Put(ctx context.Context, sess *PendingSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(sess.CustomerID), raw, s.ttl).Err()
}

// Delete removes the customer's pending session. Deleting a missing key
// is not an error.
func (s *RedisSessionStore) Delete(ctx context.Context, customerID uint64) error {
	return s.rdb.Del(ctx, s.key(customerID)).Err()
}
