package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateTTL = 10 * time.Minute

// StateStore records one-time OAuth state nonces backed by Redis.
// Key format: oauth_state:<nonce>
type StateStore struct {
	client *redis.Client
}

// NewStateStore creates a StateStore wrapping the given Redis client.
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

// Put records a freshly issued nonce. It expires after stateTTL, matching
// the lifetime of the signed state token it backs.
func (s *StateStore) Put(ctx context.Context, nonce string) error {
	return s.client.Set(ctx, s.key(nonce), "1", stateTTL).Err()
}

// Consume atomically removes the nonce and reports whether it was present.
// A second Consume of the same nonce returns false, making replayed
// callbacks detectable.
func (s *StateStore) Consume(ctx context.Context, nonce string) (bool, error) {
	_, err := s.client.GetDel(ctx, s.key(nonce)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume state: %w", err)
	}
	return true, nil
}

func (s *StateStore) key(nonce string) string {
	return "oauth_state:" + nonce
}
