package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
	"github.com/ecotrack/ecotrack-ui/internal/testutil"
)

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client)
	ctx := context.Background()

	state := testutil.NewSessionState("session-123").
		Authenticated(testutil.NewIdentity().WithEmail("alice@example.com").Build()).
		Build()

	err := store.Save(ctx, state)
	require.NoError(t, err)

	got, err := store.Get(ctx, "session-123")
	require.NoError(t, err)

	assert.Equal(t, state.ID, got.ID)
	assert.True(t, got.Authenticated)
	assert.True(t, got.CheckedAuth.IsSet())
	require.NotNil(t, got.Identity)
	assert.Equal(t, "alice@example.com", got.Identity.Email)
	assert.Equal(t, state.UpstreamCookie, got.UpstreamCookie)
	assert.WithinDuration(t, state.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client)
	ctx := context.Background()

	state := testutil.NewSessionState("session-del").Unauthenticated().Build()
	require.NoError(t, store.Save(ctx, state))

	require.NoError(t, store.Delete(ctx, "session-del"))

	_, err := store.Get(ctx, "session-del")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op
	assert.NoError(t, store.Delete(ctx, "session-del"))
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client)
	ctx := context.Background()

	state := testutil.NewSessionState("session-short").
		Unauthenticated().
		ExpiringAt(time.Now().Add(100 * time.Millisecond)).
		Build()
	require.NoError(t, store.Save(ctx, state))

	// Visible immediately
	_, err := store.Get(ctx, "session-short")
	require.NoError(t, err)

	time.Sleep(150 * time.Millisecond)

	_, err = store.Get(ctx, "session-short")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStoreWithPrefix(client, "ecotrack:sess:")
	ctx := context.Background()

	state := testutil.NewSessionState("session-prefixed").Unauthenticated().Build()
	require.NoError(t, store.Save(ctx, state))

	// Key lives under the custom prefix
	exists, err := client.Exists(ctx, "ecotrack:sess:session-prefixed").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	got, err := store.Get(ctx, "session-prefixed")
	require.NoError(t, err)
	assert.Equal(t, "session-prefixed", got.ID)
}

func TestSessionStore_SaveEmptyID(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client)

	err := store.Save(context.Background(), domainauth.SessionState{ExpiresAt: time.Now().Add(time.Hour)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")
}

func TestSessionStore_SaveExpired(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client)

	state := testutil.NewSessionState("session-expired").
		ExpiringAt(time.Now().Add(-time.Minute)).
		Build()
	err := store.Save(context.Background(), state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session is expired")
}

func TestSessionStore_GetEmptyID(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_SaveIf(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testutil.NewSessionState("session-cas").Build()))

	first, err := store.Get(ctx, "session-cas")
	require.NoError(t, err)
	require.NoError(t, store.SaveIf(ctx, first))

	// The same stale read a second time must lose to the first write.
	err = store.SaveIf(ctx, first)
	assert.ErrorIs(t, err, ports.ErrSessionConflict)

	err = store.SaveIf(ctx, testutil.NewSessionState("session-never-saved").Build())
	assert.ErrorIs(t, err, ErrNotFound)
}
