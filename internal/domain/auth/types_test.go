package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
	}{
		{"admin", RoleAdmin},
		{"ADMIN", RoleAdmin},
		{"Admin", RoleAdmin},
		{"user", RoleUser},
		{"USER", RoleUser},
		{"", RoleUser},
		{"superuser", RoleUser},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRole(tt.input), "input %q", tt.input)
	}
}

func TestLatch_SetOnce(t *testing.T) {
	var l Latch
	assert.False(t, l.IsSet())

	l.Set()
	assert.True(t, l.IsSet())

	// Setting again keeps it set
	l.Set()
	assert.True(t, l.IsSet())
}

func TestLatch_JSONRoundTrip(t *testing.T) {
	var l Latch
	l.Set()

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Equal(t, "true", string(data))

	var out Latch
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.IsSet())
}

func TestSessionState_ApplyIdentity(t *testing.T) {
	s := SessionState{ID: "sess1", UpstreamCookie: "tok"}
	s.ApplyIdentity(Identity{ID: 1, Name: "A", Email: "a@x.com", Role: RoleAdmin})

	assert.True(t, s.Authenticated)
	assert.True(t, s.CheckedAuth.IsSet())
	require.NotNil(t, s.Identity)
	assert.Equal(t, int64(1), s.Identity.ID)
	assert.Empty(t, s.Error)
	assert.Equal(t, "tok", s.UpstreamCookie)
	assert.True(t, s.IsAdmin())
}

func TestSessionState_ApplyUnauthenticated(t *testing.T) {
	s := SessionState{ID: "sess1"}
	s.ApplyUnauthenticated()

	assert.False(t, s.Authenticated)
	assert.Nil(t, s.Identity)
	assert.True(t, s.CheckedAuth.IsSet())
	// Expected state, not an error
	assert.Empty(t, s.Error)
}

func TestSessionState_ApplyFailure_ClearsUpstreamCookie(t *testing.T) {
	s := SessionState{ID: "sess1", UpstreamCookie: "stale"}
	s.ApplyFailure("backend unreachable")

	assert.False(t, s.Authenticated)
	assert.Nil(t, s.Identity)
	assert.True(t, s.CheckedAuth.IsSet())
	assert.Equal(t, "backend unreachable", s.Error)
	assert.Empty(t, s.UpstreamCookie)
}

func TestSessionState_ClearIdentity_KeepsLatch(t *testing.T) {
	s := SessionState{ID: "sess1"}
	s.ApplyIdentity(Identity{ID: 2, Role: RoleUser})

	s.ClearIdentity()

	assert.False(t, s.Authenticated)
	assert.Nil(t, s.Identity)
	assert.True(t, s.CheckedAuth.IsSet(), "logout must not reopen the bootstrap latch")
	assert.Empty(t, s.UpstreamCookie)
}

func TestSessionState_InvariantUncheckedImpliesUnauthenticated(t *testing.T) {
	var s SessionState
	assert.False(t, s.CheckedAuth.IsSet())
	assert.False(t, s.Authenticated)
	assert.Nil(t, s.Identity)
	assert.Equal(t, RoleUser, s.Role())
	assert.False(t, s.IsAdmin())
}

func TestSessionState_JSONRoundTrip(t *testing.T) {
	s := SessionState{ID: "sess1", UpstreamCookie: "tok"}
	s.ApplyIdentity(Identity{ID: 7, Name: "B", Email: "b@x.com", Role: RoleUser})

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var out SessionState
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.CheckedAuth.IsSet())
	assert.True(t, out.Authenticated)
	require.NotNil(t, out.Identity)
	assert.Equal(t, "b@x.com", out.Identity.Email)
}
