// Package redis provides the Redis-backed session store for production use.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// SessionStore persists browser session state in Redis.
// TTL tracks the state's ExpiresAt so abandoned sessions age out on their own.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "session:",
	}
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

func (s *SessionStore) Save(ctx context.Context, state domainauth.SessionState) error {
	if state.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	state.Version++
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := s.prefix + state.ID
	ttl := time.Until(state.ExpiresAt)
	if ttl <= 0 {
		// Session is already expired, don't save it
		return errors.New("session is expired")
	}

	return s.client.Set(ctx, key, data, ttl).Err()
}

// saveIfScript writes the new record only when the stored record's version
// still matches the caller's. Runs atomically inside Redis.
var saveIfScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if not cur then
  return -1
end
local ver = cjson.decode(cur)['version'] or 0
if ver ~= tonumber(ARGV[1]) then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// SaveIf writes the state only when the stored record's version still matches
// state.Version. A concurrent write in between returns ports.ErrSessionConflict.
func (s *SessionStore) SaveIf(ctx context.Context, state domainauth.SessionState) error {
	if state.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	ttl := time.Until(state.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	expected := state.Version
	state.Version++
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := s.prefix + state.ID
	res, err := saveIfScript.Run(ctx, s.client, []string{key},
		expected, data, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis save-if: %w", err)
	}
	switch res {
	case 1:
		return nil
	case 0:
		return ports.ErrSessionConflict
	default:
		return ErrNotFound
	}
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.SessionState, error) {
	if id == "" {
		return domainauth.SessionState{}, ErrNotFound
	}

	key := s.prefix + id
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.SessionState{}, ErrNotFound
		}
		return domainauth.SessionState{}, fmt.Errorf("redis get: %w", err)
	}

	var state domainauth.SessionState
	if unmarshalErr := json.Unmarshal([]byte(data), &state); unmarshalErr != nil {
		return domainauth.SessionState{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Double-check expiration (Redis TTL should handle this, but be defensive)
	if time.Now().After(state.ExpiresAt) {
		// Clean up expired session; if cleanup fails bubble the error up.
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.SessionState{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.SessionState{}, ErrNotFound
	}

	return state, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}

	key := s.prefix + id
	return s.client.Del(ctx, key).Err()
}

// ErrNotFound is returned when a session is not found.
var ErrNotFound = ports.ErrSessionNotFound
