package ussd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore is the production session store. The idle TTL rides on the
// Redis key itself, so expiry needs no application-side sweeping and the store
// stays shared across gateway instances.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore creates a Redis-backed session store
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: "ussd:session:",
	}
}

func (r *RedisSessionStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisSessionStore) Load(ctx context.Context, sessionID string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil // not found or expired
	}
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("session store: failed to unmarshal %s: %w", sessionID, err)
	}
	return &session, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, session *Session, ttl time.Duration) error {
	if session.SessionID == "" {
		return fmt.Errorf("session store: missing session id")
	}
	if ttl <= 0 {
		return r.client.Del(ctx, r.key(session.SessionID)).Err()
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session store: failed to marshal %s: %w", session.SessionID, err)
	}

	return r.client.Set(ctx, r.key(session.SessionID), data, ttl).Err()
}

func (r *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}
