package service

import (
	"context"
	"fmt"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	Profile  ports.ProfileAPI
	Sessions ports.SessionStore
}

// ProfileService wraps the self-service account surface: a signed-in user
// editing their own name, email, or password.
type ProfileService struct {
	profile  ports.ProfileAPI
	sessions ports.SessionStore
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(opts ProfileServiceOptions) *ProfileService {
	if opts.Profile == nil {
		panic("profile service: Profile is required")
	}
	if opts.Sessions == nil {
		panic("profile service: Sessions is required")
	}
	return &ProfileService{profile: opts.Profile, sessions: opts.Sessions}
}

// UpdateProfile pushes the change upstream and refreshes the session's cached
// identity, so the new name and email show up without waiting for a re-probe.
func (s *ProfileService) UpdateProfile(
	ctx context.Context,
	sessionID string,
	in model.ProfileUpdateInput,
) (domainauth.SessionState, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domainauth.SessionState{}, fmt.Errorf("get session: %w", err)
	}

	user, err := s.profile.UpdateProfile(ctx, state.UpstreamCookie, in)
	if err != nil {
		return state, err
	}

	// The upstream may omit the role on this endpoint; the session's known
	// role stands in that case.
	role := state.Role()
	if user.Role != "" {
		role = domainauth.ParseRole(user.Role)
	}
	state.ApplyIdentity(domainauth.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  role,
	})

	if saveErr := s.sessions.Save(ctx, state); saveErr != nil {
		return domainauth.SessionState{}, fmt.Errorf("save session: %w", saveErr)
	}
	return state, nil
}

// ChangePassword replaces the user's password upstream. The cached upstream
// cookie stays valid, so the session state does not change.
func (s *ProfileService) ChangePassword(ctx context.Context, sessionID, current, next string) error {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	return s.profile.ChangePassword(ctx, state.UpstreamCookie, current, next)
}
