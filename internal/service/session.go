package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// DefaultSessionTTL bounds how long a browser session record lives without a
// fresh login.
const DefaultSessionTTL = 12 * time.Hour

// SessionConfig carries tuning knobs for SessionService.
type SessionConfig struct {
	TTL    time.Duration
	Logger *slog.Logger
}

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Sessions ports.SessionStore
	Auth     ports.AuthAPI
	Config   SessionConfig
}

// SessionService owns the browser session lifecycle: creating session records,
// running the who-am-I bootstrap probe at most once per session, and applying
// login, registration, and logout transitions.
type SessionService struct {
	sessions ports.SessionStore
	auth     ports.AuthAPI
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time

	// probes collapses concurrent bootstrap probes for the same session
	// into a single upstream call.
	probes singleflight.Group
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.Sessions == nil {
		panic("session service: Sessions is required")
	}
	if opts.Auth == nil {
		panic("session service: Auth is required")
	}

	ttl := opts.Config.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionService{
		sessions: opts.Sessions,
		auth:     opts.Auth,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// NewSession creates and persists a fresh, unchecked session record.
func (s *SessionService) NewSession(ctx context.Context) (domainauth.SessionState, error) {
	state := domainauth.SessionState{
		ID:        uuid.New().String(),
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, state); err != nil {
		return domainauth.SessionState{}, fmt.Errorf("save session: %w", err)
	}
	return state, nil
}

// Resolve returns the session record for the given ID, creating a new one
// when the ID is empty or the record is gone. The second return value reports
// whether a new session was created.
func (s *SessionService) Resolve(ctx context.Context, id string) (domainauth.SessionState, bool, error) {
	if id != "" {
		state, err := s.sessions.Get(ctx, id)
		if err == nil {
			return state, false, nil
		}
		if !isNotFound(err) {
			return domainauth.SessionState{}, false, fmt.Errorf("get session: %w", err)
		}
	}

	state, err := s.NewSession(ctx)
	if err != nil {
		return domainauth.SessionState{}, false, err
	}
	return state, true, nil
}

// EnsureBootstrapped runs the who-am-I probe for the session if it has never
// been checked. Concurrent callers for the same session share a single
// upstream request. Once the session's check latch is set the call is a cheap
// read and the probe never runs again for that session.
//
// The probe has three outcomes:
//   - the upstream confirms an identity: the session becomes authenticated
//   - the upstream answers 401: the session is confirmed signed out, silently
//   - anything else fails the probe: the stored upstream cookie is dropped and
//     a dismissible error message is recorded
func (s *SessionService) EnsureBootstrapped(ctx context.Context, id string) (domainauth.SessionState, error) {
	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domainauth.SessionState{}, fmt.Errorf("get session: %w", err)
	}
	if state.CheckedAuth.IsSet() {
		return state, nil
	}

	result, err, _ := s.probes.Do(id, func() (any, error) {
		return s.probe(ctx, id)
	})
	if err != nil {
		return domainauth.SessionState{}, err
	}
	return result.(domainauth.SessionState), nil
}

// probe performs the actual who-am-I request and applies its outcome.
// It re-reads the session inside the flight, and writes the outcome with a
// conditional save, so a login that completed at any point while the probe
// was in flight wins over the probe result.
func (s *SessionService) probe(ctx context.Context, id string) (domainauth.SessionState, error) {
	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domainauth.SessionState{}, fmt.Errorf("get session: %w", err)
	}
	if state.CheckedAuth.IsSet() {
		return state, nil
	}

	identity, whoErr := s.auth.WhoAmI(ctx, state.UpstreamCookie)

	// A login may have landed while the probe was in flight. Its result is
	// fresher than ours, so the probe outcome is discarded.
	latest, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domainauth.SessionState{}, fmt.Errorf("get session: %w", err)
	}
	if latest.CheckedAuth.IsSet() {
		return latest, nil
	}
	state = latest

	switch {
	case whoErr == nil:
		state.ApplyIdentity(identity)
	case apperrors.IsUnauthenticated(whoErr):
		// Expected for signed-out visitors. Absorbed without an error.
		state.ApplyUnauthenticated()
	default:
		s.logger.WarnContext(ctx, "session bootstrap probe failed",
			slog.String("session_id", id),
			slog.String("error", whoErr.Error()))
		state.ApplyFailure(apperrors.UserMessage(whoErr))
	}

	saveErr := s.sessions.SaveIf(ctx, state)
	if errors.Is(saveErr, ports.ErrSessionConflict) {
		// A login landed between the re-read and the save. Its record is
		// fresher than the probe outcome, so the probe result is dropped.
		current, err := s.sessions.Get(ctx, id)
		if err != nil {
			return domainauth.SessionState{}, fmt.Errorf("get session: %w", err)
		}
		return current, nil
	}
	if saveErr != nil {
		return domainauth.SessionState{}, fmt.Errorf("save session: %w", saveErr)
	}
	return state, nil
}

// Login signs the session in with the given credentials. Whether or not the
// attempt succeeds, the session ends up checked: a failed login still answers
// the question of who the visitor is (nobody, yet).
func (s *SessionService) Login(ctx context.Context, id string, creds ports.Credentials) (domainauth.SessionState, error) {
	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domainauth.SessionState{}, fmt.Errorf("get session: %w", err)
	}

	cookie, loginErr := s.auth.Login(ctx, creds)
	if loginErr != nil {
		state.ApplyUnauthenticated()
		state.Error = apperrors.UserMessage(loginErr)
		if saveErr := s.sessions.Save(ctx, state); saveErr != nil {
			return domainauth.SessionState{}, fmt.Errorf("save session: %w", saveErr)
		}
		return state, loginErr
	}

	state.UpstreamCookie = cookie

	// Login never trusts its own response for identity. The who-am-I
	// endpoint is the single source of truth.
	identity, whoErr := s.auth.WhoAmI(ctx, cookie)
	switch {
	case whoErr == nil:
		state.ApplyIdentity(identity)
	case apperrors.IsUnauthenticated(whoErr):
		state.ApplyUnauthenticated()
	default:
		s.logger.WarnContext(ctx, "post-login identity fetch failed",
			slog.String("session_id", id),
			slog.String("error", whoErr.Error()))
		state.ApplyFailure(apperrors.UserMessage(whoErr))
	}

	if saveErr := s.sessions.Save(ctx, state); saveErr != nil {
		return domainauth.SessionState{}, fmt.Errorf("save session: %w", saveErr)
	}
	if whoErr != nil && !apperrors.IsUnauthenticated(whoErr) {
		return state, whoErr
	}
	return state, nil
}

// Register creates an account upstream. Registration never signs the session
// in; the caller is sent to the login page afterwards.
func (s *SessionService) Register(ctx context.Context, reg ports.Registration) (model.User, error) {
	return s.auth.Register(ctx, reg)
}

// Logout drops the session's identity and upstream cookie. The check latch
// stays set: the session's auth status is known (signed out), so no new
// bootstrap probe is warranted.
func (s *SessionService) Logout(ctx context.Context, id string) (domainauth.SessionState, error) {
	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domainauth.SessionState{}, fmt.Errorf("get session: %w", err)
	}

	state.ClearIdentity()
	if saveErr := s.sessions.Save(ctx, state); saveErr != nil {
		return domainauth.SessionState{}, fmt.Errorf("save session: %w", saveErr)
	}
	return state, nil
}

// Invalidate handles an upstream 401 observed after bootstrap, which means
// the upstream cookie went stale mid-session. The identity is dropped and the
// check latch reopened so the next request re-probes.
func (s *SessionService) Invalidate(ctx context.Context, id string) (domainauth.SessionState, error) {
	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domainauth.SessionState{}, fmt.Errorf("get session: %w", err)
	}

	state.ClearIdentity()
	state.UpstreamCookie = ""
	state.CheckedAuth.ReopenForRecheck()
	if saveErr := s.sessions.Save(ctx, state); saveErr != nil {
		return domainauth.SessionState{}, fmt.Errorf("save session: %w", saveErr)
	}
	return state, nil
}

// DismissError clears the session's stored error message.
func (s *SessionService) DismissError(ctx context.Context, id string) (domainauth.SessionState, error) {
	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domainauth.SessionState{}, fmt.Errorf("get session: %w", err)
	}

	state.DismissError()
	if saveErr := s.sessions.Save(ctx, state); saveErr != nil {
		return domainauth.SessionState{}, fmt.Errorf("save session: %w", saveErr)
	}
	return state, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ports.ErrSessionNotFound)
}
