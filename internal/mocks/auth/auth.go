// Package auth contains simple hand-written test doubles for the auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"sync"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthAPI      = (*StubAuthAPI)(nil)
	_ ports.ProfileAPI   = (*StubAuthAPI)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
)

// StubAuthAPI simulates the upstream auth endpoints with deterministic
// behavior. Individual calls can be overridden via the *Func fields.
type StubAuthAPI struct {
	WhoAmIFunc         func(ctx context.Context, upstreamCookie string) (domainauth.Identity, error)
	LoginFunc          func(ctx context.Context, creds ports.Credentials) (string, error)
	RegisterFunc       func(ctx context.Context, reg ports.Registration) (model.User, error)
	UpdateProfileFunc  func(ctx context.Context, upstreamCookie string, in model.ProfileUpdateInput) (model.User, error)
	ChangePasswordFunc func(ctx context.Context, upstreamCookie, current, next string) error

	// Deterministic values for predictable testing
	Identity domainauth.Identity
	Cookie   string
	Password string

	mu           sync.Mutex
	whoAmICalls  int
	loginCalls   int
	registrCalls int
}

// NewStubAuthAPI creates a StubAuthAPI with a signed-in default user.
func NewStubAuthAPI() *StubAuthAPI {
	return &StubAuthAPI{
		Identity: domainauth.Identity{
			ID:    1,
			Name:  "Stub User",
			Email: "stub.user@example.com",
			Role:  domainauth.RoleUser,
		},
		Cookie:   "Authorization=stub-token",
		Password: "password123",
	}
}

func (s *StubAuthAPI) WhoAmI(ctx context.Context, upstreamCookie string) (domainauth.Identity, error) {
	s.mu.Lock()
	s.whoAmICalls++
	s.mu.Unlock()

	if s.WhoAmIFunc != nil {
		return s.WhoAmIFunc(ctx, upstreamCookie)
	}

	// No cookie or the wrong cookie reads as signed out, like the real
	// upstream's 401.
	if upstreamCookie == "" || upstreamCookie != s.Cookie {
		return domainauth.Identity{}, apperrors.Unauthenticated("no session")
	}
	return s.Identity, nil
}

func (s *StubAuthAPI) Login(ctx context.Context, creds ports.Credentials) (string, error) {
	s.mu.Lock()
	s.loginCalls++
	s.mu.Unlock()

	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, creds)
	}

	if creds.Email != s.Identity.Email || creds.Password != s.Password {
		return "", apperrors.Unauthenticated("Invalid email or password")
	}
	return s.Cookie, nil
}

func (s *StubAuthAPI) Register(ctx context.Context, reg ports.Registration) (model.User, error) {
	s.mu.Lock()
	s.registrCalls++
	n := int64(100 + s.registrCalls)
	s.mu.Unlock()

	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, reg)
	}

	role := reg.Role
	if role == "" {
		role = "user"
	}
	return model.User{ID: n, Name: reg.Name, Email: reg.Email, Role: role}, nil
}

func (s *StubAuthAPI) UpdateProfile(ctx context.Context, upstreamCookie string, in model.ProfileUpdateInput) (model.User, error) {
	if s.UpdateProfileFunc != nil {
		return s.UpdateProfileFunc(ctx, upstreamCookie, in)
	}

	if upstreamCookie == "" || upstreamCookie != s.Cookie {
		return model.User{}, apperrors.Unauthenticated("no session")
	}

	s.mu.Lock()
	s.Identity.Name = in.Name
	s.Identity.Email = in.Email
	id := s.Identity
	s.mu.Unlock()

	return model.User{ID: id.ID, Name: id.Name, Email: id.Email, Role: string(id.Role)}, nil
}

func (s *StubAuthAPI) ChangePassword(ctx context.Context, upstreamCookie, current, next string) error {
	if s.ChangePasswordFunc != nil {
		return s.ChangePasswordFunc(ctx, upstreamCookie, current, next)
	}

	if upstreamCookie == "" || upstreamCookie != s.Cookie {
		return apperrors.Unauthenticated("no session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if current != s.Password {
		return apperrors.Validation("Current password is incorrect.")
	}
	s.Password = next
	return nil
}

// WhoAmICalls reports how many times WhoAmI was invoked.
func (s *StubAuthAPI) WhoAmICalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.whoAmICalls
}

// LoginCalls reports how many times Login was invoked.
func (s *StubAuthAPI) LoginCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginCalls
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.SessionState
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.SessionState),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, state domainauth.SessionState) error {
	if state.ID == "" {
		return errEmptyID{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	state.Version++
	m.sessions[state.ID] = state
	return nil
}

func (m *MemorySessionStore) SaveIf(_ context.Context, state domainauth.SessionState) error {
	if state.ID == "" {
		return errEmptyID{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.sessions[state.ID]
	if !ok {
		return ports.ErrSessionNotFound
	}
	if stored.Version != state.Version {
		return ports.ErrSessionConflict
	}
	state.Version++
	m.sessions[state.ID] = state
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.SessionState, error) {
	if id == "" {
		return domainauth.SessionState{}, ports.ErrSessionNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.sessions[id]
	if !ok {
		return domainauth.SessionState{}, ports.ErrSessionNotFound
	}
	return state, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

type errEmptyID struct{}

func (errEmptyID) Error() string { return "session ID cannot be empty" }
