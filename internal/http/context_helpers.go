package httpx

import (
	"context"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
)

type sessionKey struct{}

// SetSessionInContext stores the resolved session state in the request
// context. The session middleware is the only writer.
func SetSessionInContext(ctx context.Context, state *domainauth.SessionState) context.Context {
	return context.WithValue(ctx, sessionKey{}, state)
}

// GetSessionFromContext retrieves the session state placed in the context by
// the session middleware. Returns nil when no session was resolved.
func GetSessionFromContext(ctx context.Context) *domainauth.SessionState {
	state, ok := ctx.Value(sessionKey{}).(*domainauth.SessionState)
	if !ok {
		return nil
	}
	return state
}

// IsAuthenticatedRequest reports whether the request carries an
// authenticated session.
func IsAuthenticatedRequest(ctx context.Context) bool {
	state := GetSessionFromContext(ctx)
	return state != nil && state.Authenticated
}
