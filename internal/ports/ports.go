// Package ports defines interfaces (hexagonal ports) for session persistence
// and the upstream REST API. Implementations live in internal/adapters;
// orchestration in internal/service.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
)

// ErrSessionNotFound is returned by SessionStore implementations when no
// session exists for the given ID.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionConflict is returned by SaveIf when the stored record changed
// since the caller read it.
var ErrSessionConflict = errors.New("session modified concurrently")

// SessionStore persists and retrieves per-browser session state. Save is a
// plain last-writer-wins write; SaveIf only writes when the stored record's
// version still matches state.Version, so a caller that read the record,
// computed a result, and wants to write it back can detect a write that
// landed in between.
type SessionStore interface {
	Save(ctx context.Context, state domainauth.SessionState) error
	SaveIf(ctx context.Context, state domainauth.SessionState) error
	Get(ctx context.Context, id string) (domainauth.SessionState, error)
	Delete(ctx context.Context, id string) error
}

// Credentials carries a login request.
type Credentials struct {
	Email    string
	Password string
}

// Registration carries an account-creation request. Role is "user" for
// self-registration and "admin" when an admin creates another admin.
type Registration struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthAPI is the upstream authentication surface.
//
// WhoAmI returns errors.ErrCodeUnauthenticated when the upstream reports "no
// session" (HTTP 401) and errors.ErrCodeUpstream for any other failure, so the
// session service can map the three probe outcomes without inspecting status
// codes.
type AuthAPI interface {
	// WhoAmI probes the upstream session identified by the cached cookie.
	WhoAmI(ctx context.Context, upstreamCookie string) (domainauth.Identity, error)

	// Login exchanges credentials for an upstream session cookie value.
	Login(ctx context.Context, creds Credentials) (string, error)

	// Register creates an account. It does not authenticate.
	Register(ctx context.Context, reg Registration) (model.User, error)
}

// ProfileAPI is the upstream self-service account surface. Both calls act on
// the user the cookie identifies; there is no ID in the path.
type ProfileAPI interface {
	// UpdateProfile changes the signed-in user's name and email.
	UpdateProfile(ctx context.Context, upstreamCookie string, in model.ProfileUpdateInput) (model.User, error)

	// ChangePassword verifies the current password upstream and replaces it.
	ChangePassword(ctx context.Context, upstreamCookie, current, next string) error
}

// ComplaintAPI is the upstream complaint surface scoped to the calling user.
type ComplaintAPI interface {
	ListMine(ctx context.Context, upstreamCookie string) ([]model.Complaint, error)
	Get(ctx context.Context, upstreamCookie string, id int64) (model.Complaint, error)
	Create(ctx context.Context, upstreamCookie string, in model.ComplaintInput, image *Upload) (model.Complaint, error)
	Update(ctx context.Context, upstreamCookie string, id int64, in model.ComplaintInput, image *Upload) (model.Complaint, error)
	Delete(ctx context.Context, upstreamCookie string, id int64) error
}

// Upload is an optional image attachment streamed through to the upstream.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CategoryAPI lists complaint categories.
type CategoryAPI interface {
	List(ctx context.Context, upstreamCookie string) ([]model.Category, error)
}

// AdminAPI is the upstream admin surface. All calls require an admin session.
type AdminAPI interface {
	ListAllComplaints(ctx context.Context, upstreamCookie string) ([]model.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, upstreamCookie string, id int64, status model.ComplaintStatus) (model.Complaint, error)
	ListUsers(ctx context.Context, upstreamCookie string) ([]model.User, error)
	UpdateUser(ctx context.Context, upstreamCookie string, id int64, in model.UserUpdateInput) (model.User, error)
	DeleteUser(ctx context.Context, upstreamCookie string, id int64) error
}
