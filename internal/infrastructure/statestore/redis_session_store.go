package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/ports"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "oauth_session:"

// DefaultSessionTTL bounds how long a pending OAuth session stays valid.
const DefaultSessionTTL = 10 * time.Minute

// RedisSessionStore persists pending OAuth sessions in Redis with a TTL, so
// callbacks presenting an unknown or expired state find nothing.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client) ports.SessionStore {
	return &RedisSessionStore{client: client}
}

// SaveSession stores the session keyed by its state token.
func (s *RedisSessionStore) SaveSession(ctx context.Context, session *domain.Session) error {
	ttl := DefaultSessionTTL
	if !session.ExpiresAt.IsZero() {
		if remaining := time.Until(session.ExpiresAt); remaining > 0 {
			ttl = remaining
		}
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+session.State, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ConsumeSession retrieves and deletes the session for a state token.
func (s *RedisSessionStore) ConsumeSession(ctx context.Context, state string) (*domain.Session, error) {
	payload, err := s.client.GetDel(ctx, sessionKeyPrefix+state).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}
