package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionIndexKeyPrefix = "checkout:session:"

// SessionIndexCache maps checkout session ids to subscription numbers so
// confirm-by-session calls can skip the database lookup. Entries expire
// with the checkout session itself.
type SessionIndexCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionIndexCache creates a new SessionIndexCache instance.
func NewSessionIndexCache(client *redis.Client, ttl time.Duration) *SessionIndexCache {
	return &SessionIndexCache{client: client, ttl: ttl}
}

// SetSessionIndex stores the session-to-subscription mapping.
func (c *SessionIndexCache) SetSessionIndex(ctx context.Context, sessionID, subscriptionSID string) error {
	key := sessionIndexKeyPrefix + sessionID
	if err := c.client.Set(ctx, key, subscriptionSID, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to index checkout session: %w", err)
	}
	return nil
}

// GetSessionIndex returns the subscription number for a session, or empty
// string if not indexed.
func (c *SessionIndexCache) GetSessionIndex(ctx context.Context, sessionID string) (string, error) {
	key := sessionIndexKeyPrefix + sessionID
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up checkout session: %w", err)
	}
	return val, nil
}
