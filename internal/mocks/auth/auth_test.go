package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

func TestStubAuthAPI_WhoAmI_Defaults(t *testing.T) {
	api := NewStubAuthAPI()
	ctx := context.Background()

	// The right cookie yields the default identity
	id, err := api.WhoAmI(ctx, api.Cookie)
	require.NoError(t, err)
	assert.Equal(t, "stub.user@example.com", id.Email)
	assert.Equal(t, domainauth.RoleUser, id.Role)

	// No cookie reads as signed out
	_, err = api.WhoAmI(ctx, "")
	assert.True(t, apperrors.IsUnauthenticated(err))

	// A stale cookie reads as signed out too
	_, err = api.WhoAmI(ctx, "Authorization=stale")
	assert.True(t, apperrors.IsUnauthenticated(err))

	assert.Equal(t, 3, api.WhoAmICalls())
}

func TestStubAuthAPI_WhoAmI_CustomFunc(t *testing.T) {
	api := NewStubAuthAPI()
	api.WhoAmIFunc = func(_ context.Context, _ string) (domainauth.Identity, error) {
		return domainauth.Identity{}, apperrors.Upstream("boom")
	}

	_, err := api.WhoAmI(context.Background(), api.Cookie)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestStubAuthAPI_Login(t *testing.T) {
	api := NewStubAuthAPI()
	ctx := context.Background()

	cookie, err := api.Login(ctx, ports.Credentials{
		Email:    "stub.user@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, api.Cookie, cookie)

	_, err = api.Login(ctx, ports.Credentials{
		Email:    "stub.user@example.com",
		Password: "wrong",
	})
	assert.True(t, apperrors.IsUnauthenticated(err))
	assert.Equal(t, 2, api.LoginCalls())
}

func TestStubAuthAPI_Register(t *testing.T) {
	api := NewStubAuthAPI()

	user, err := api.Register(context.Background(), ports.Registration{
		Name:  "New User",
		Email: "new@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", user.Role)
	assert.NotZero(t, user.ID)

	admin, err := api.Register(context.Background(), ports.Registration{
		Name:  "New Admin",
		Email: "admin@example.com",
		Role:  "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Role)
	assert.NotEqual(t, user.ID, admin.ID)
}

func TestMemorySessionStore_SaveGetDelete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	state := domainauth.SessionState{
		ID:        "sess-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	state.ApplyUnauthenticated()
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, got.CheckedAuth.IsSet())
	assert.False(t, got.Authenticated)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestMemorySessionStore_Validation(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	err := store.Save(ctx, domainauth.SessionState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	assert.NoError(t, store.Delete(ctx, ""))
}
