package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"encoding/json"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole normalizes a role string from the upstream API.
// Upstream payloads have carried both "ADMIN" and "admin" over time; the
// lowercase form is canonical here. Unknown values map to RoleUser.
func ParseRole(s string) Role {
	switch s {
	case "admin", "ADMIN", "Admin":
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Identity represents the authenticated principal as reported by the
// upstream /auth/me endpoint.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin returns true if the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Latch is a set-once boolean. Set transitions false→true; there is no
// way back except ReopenForRecheck, which callers must treat as an explicit,
// intentional reset rather than part of normal state flow.
type Latch struct {
	set bool
}

// Set latches the value. Further calls are no-ops.
func (l *Latch) Set() { l.set = true }

// IsSet reports whether the latch has fired.
func (l Latch) IsSet() bool { return l.set }

// ReopenForRecheck clears the latch. Only the session service's explicit
// re-check path may call this.
func (l *Latch) ReopenForRecheck() { l.set = false }

// MarshalJSON encodes the latch as a plain boolean for session persistence.
func (l Latch) MarshalJSON() ([]byte, error) { return json.Marshal(l.set) }

// UnmarshalJSON decodes the latch from a plain boolean.
func (l *Latch) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &l.set) }

// SessionState is the per-browser-session record this service persists. It
// mirrors the upstream session cookie plus the identity that cookie maps to;
// the upstream API remains the source of truth.
//
// Mutation goes through the Apply* methods so the invariants hold:
//   - !CheckedAuth implies !Authenticated and Identity == nil
//   - Authenticated implies Identity != nil
type SessionState struct {
	ID             string    `json:"id"`
	Identity       *Identity `json:"identity,omitempty"`
	Authenticated  bool      `json:"authenticated"`
	CheckedAuth    Latch     `json:"checked_auth"`
	Error          string    `json:"error,omitempty"`
	UpstreamCookie string    `json:"upstream_cookie,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`

	// Version counts writes to this record. Stores bump it on every save,
	// and conditional saves use it to detect a concurrent write.
	Version int64 `json:"version"`
}

// ApplyIdentity records a successful probe or login outcome.
func (s *SessionState) ApplyIdentity(id Identity) {
	s.Identity = &id
	s.Authenticated = true
	s.Error = ""
	s.CheckedAuth.Set()
}

// ApplyUnauthenticated records an explicit "no session" probe outcome.
// This is an expected state, not an error.
func (s *SessionState) ApplyUnauthenticated() {
	s.Identity = nil
	s.Authenticated = false
	s.Error = ""
	s.CheckedAuth.Set()
}

// ApplyFailure records a transient/unexpected probe or login failure. The
// cached upstream cookie is dropped so a poisoned cookie cannot wedge the
// session in a retry loop.
func (s *SessionState) ApplyFailure(msg string) {
	s.Identity = nil
	s.Authenticated = false
	s.Error = msg
	s.UpstreamCookie = ""
	s.CheckedAuth.Set()
}

// ClearIdentity resets the session to signed-out. The latch stays set so the
// next navigation does not re-probe and flicker.
func (s *SessionState) ClearIdentity() {
	s.Identity = nil
	s.Authenticated = false
	s.Error = ""
	s.UpstreamCookie = ""
	s.CheckedAuth.Set()
}

// DismissError clears the last user-facing failure message.
func (s *SessionState) DismissError() { s.Error = "" }

// Role returns the session's role, or RoleUser when unauthenticated.
func (s *SessionState) Role() Role {
	if s.Identity != nil {
		return s.Identity.Role
	}
	return RoleUser
}

// IsAdmin reports whether the session belongs to an authenticated admin.
func (s *SessionState) IsAdmin() bool {
	return s.Authenticated && s.Identity != nil && s.Identity.IsAdmin()
}
