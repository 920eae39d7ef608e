package testutil

import (
	"fmt"
	"time"

	"github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
)

// IdentityBuilder provides a fluent interface for building Identity values for testing.
type IdentityBuilder struct {
	id auth.Identity
}

// NewIdentity creates a new IdentityBuilder with sensible defaults.
func NewIdentity() *IdentityBuilder {
	return &IdentityBuilder{
		id: auth.Identity{
			ID:    1,
			Name:  "Test User",
			Email: "user@example.com",
			Role:  auth.RoleUser,
		},
	}
}

// WithID sets the identity ID.
func (b *IdentityBuilder) WithID(id int64) *IdentityBuilder {
	b.id.ID = id
	return b
}

// WithName sets the display name.
func (b *IdentityBuilder) WithName(name string) *IdentityBuilder {
	b.id.Name = name
	return b
}

// WithEmail sets the email address.
func (b *IdentityBuilder) WithEmail(email string) *IdentityBuilder {
	b.id.Email = email
	return b
}

// WithRole sets the role.
func (b *IdentityBuilder) WithRole(role auth.Role) *IdentityBuilder {
	b.id.Role = role
	return b
}

// AsAdmin marks the identity as an admin.
func (b *IdentityBuilder) AsAdmin() *IdentityBuilder {
	b.id.Role = auth.RoleAdmin
	return b
}

// Build returns the constructed Identity.
func (b *IdentityBuilder) Build() auth.Identity {
	return b.id
}

// SessionStateBuilder provides a fluent interface for building SessionState values for testing.
type SessionStateBuilder struct {
	state auth.SessionState
}

// NewSessionState creates a new SessionStateBuilder with sensible defaults.
// The state starts unchecked and unauthenticated, as a fresh browser session would.
func NewSessionState(id string) *SessionStateBuilder {
	return &SessionStateBuilder{
		state: auth.SessionState{
			ID:        id,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

// Authenticated applies the given identity to the state.
func (b *SessionStateBuilder) Authenticated(id auth.Identity) *SessionStateBuilder {
	b.state.UpstreamCookie = "Authorization=test-token"
	b.state.ApplyIdentity(id)
	return b
}

// Unauthenticated marks the state as checked and signed out.
func (b *SessionStateBuilder) Unauthenticated() *SessionStateBuilder {
	b.state.ApplyUnauthenticated()
	return b
}

// WithUpstreamCookie sets the upstream cookie verbatim.
func (b *SessionStateBuilder) WithUpstreamCookie(cookie string) *SessionStateBuilder {
	b.state.UpstreamCookie = cookie
	return b
}

// ExpiringAt sets the expiry time.
func (b *SessionStateBuilder) ExpiringAt(at time.Time) *SessionStateBuilder {
	b.state.ExpiresAt = at
	return b
}

// Build returns the constructed SessionState.
func (b *SessionStateBuilder) Build() auth.SessionState {
	return b.state
}

// ComplaintBuilder provides a fluent interface for building Complaint values for testing.
type ComplaintBuilder struct {
	c model.Complaint
}

// NewComplaint creates a new ComplaintBuilder with sensible defaults.
func NewComplaint() *ComplaintBuilder {
	return &ComplaintBuilder{
		c: model.Complaint{
			ID:          1,
			Title:       "Overflowing bins on Elm Street",
			Description: "The public bins have not been emptied for a week.",
			Status:      model.StatusPending,
			Category:    model.Category{ID: 1, Name: "Waste"},
			CreatedBy:   model.UserRef{ID: 1, Name: "Test User"},
			CreatedAt:   TestTime(),
		},
	}
}

// WithID sets the complaint ID.
func (b *ComplaintBuilder) WithID(id int64) *ComplaintBuilder {
	b.c.ID = id
	return b
}

// WithTitle sets the title.
func (b *ComplaintBuilder) WithTitle(title string) *ComplaintBuilder {
	b.c.Title = title
	return b
}

// WithStatus sets the status.
func (b *ComplaintBuilder) WithStatus(status model.ComplaintStatus) *ComplaintBuilder {
	b.c.Status = status
	return b
}

// WithCategory sets the category.
func (b *ComplaintBuilder) WithCategory(id int64, name string) *ComplaintBuilder {
	b.c.Category = model.Category{ID: id, Name: name}
	return b
}

// WithCreator sets the creating user.
func (b *ComplaintBuilder) WithCreator(id int64, name string) *ComplaintBuilder {
	b.c.CreatedBy = model.UserRef{ID: id, Name: name}
	return b
}

// WithImage sets the stored image path.
func (b *ComplaintBuilder) WithImage(path string) *ComplaintBuilder {
	b.c.ImagePath = path
	return b
}

// Build returns the constructed Complaint.
func (b *ComplaintBuilder) Build() model.Complaint {
	return b.c
}

// Complaints builds n complaints with distinct IDs and titles, all sharing the
// remaining defaults.
func Complaints(n int) []model.Complaint {
	out := make([]model.Complaint, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, NewComplaint().
			WithID(int64(i)).
			WithTitle(fmt.Sprintf("Complaint %d", i)).
			Build())
	}
	return out
}
