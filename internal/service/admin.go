package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// AdminServiceOptions groups dependencies for AdminService.
type AdminServiceOptions struct {
	Admin ports.AdminAPI
	Auth  ports.AuthAPI
}

// AdminService wraps the admin-only upstream surface: complaint triage and
// user management. Role enforcement happens in the guard layer before any of
// these run; the upstream enforces it again.
type AdminService struct {
	admin ports.AdminAPI
	auth  ports.AuthAPI
}

// NewAdminService constructs a new AdminService.
func NewAdminService(opts AdminServiceOptions) *AdminService {
	if opts.Admin == nil {
		panic("admin service: Admin is required")
	}
	return &AdminService{admin: opts.Admin, auth: opts.Auth}
}

// TriageBoard is the data behind the admin dashboard: every complaint in the
// system with per-status counts, plus the user roster.
type TriageBoard struct {
	Complaints []model.Complaint
	Stats      model.ComplaintStats
	Users      []model.User
}

// TriageBoard fetches all complaints and all users in parallel.
func (s *AdminService) TriageBoard(ctx context.Context, upstreamCookie string) (*TriageBoard, error) {
	var (
		complaints []model.Complaint
		users      []model.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		complaints, err = s.admin.ListAllComplaints(gctx, upstreamCookie)
		if err != nil {
			return fmt.Errorf("list all complaints: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		users, err = s.admin.ListUsers(gctx, upstreamCookie)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &TriageBoard{
		Complaints: complaints,
		Stats:      model.CountByStatus(complaints),
		Users:      users,
	}, nil
}

// ListAllComplaints returns every complaint for triage.
func (s *AdminService) ListAllComplaints(ctx context.Context, upstreamCookie string) ([]model.Complaint, error) {
	return s.admin.ListAllComplaints(ctx, upstreamCookie)
}

// UpdateComplaintStatus moves a complaint through the triage workflow.
// The status string is validated before it crosses the wire.
func (s *AdminService) UpdateComplaintStatus(ctx context.Context, upstreamCookie string, id int64, status string) (model.Complaint, error) {
	parsed, err := model.ParseStatus(status)
	if err != nil {
		return model.Complaint{}, apperrors.ValidationField("status", "Unknown complaint status.")
	}
	return s.admin.UpdateComplaintStatus(ctx, upstreamCookie, id, parsed)
}

// ListUsers returns the user roster.
func (s *AdminService) ListUsers(ctx context.Context, upstreamCookie string) ([]model.User, error) {
	return s.admin.ListUsers(ctx, upstreamCookie)
}

// CreateAdmin registers a new administrator account. It rides the public
// registration endpoint with an explicit admin role; the guard layer has
// already established the caller is an admin.
func (s *AdminService) CreateAdmin(ctx context.Context, reg ports.Registration) (model.User, error) {
	if s.auth == nil {
		return model.User{}, apperrors.Misconfigured("admin account creation is not wired")
	}
	reg.Role = "admin"
	return s.auth.Register(ctx, reg)
}

// UpdateUser edits a user's name, email, or role.
func (s *AdminService) UpdateUser(ctx context.Context, upstreamCookie string, id int64, input model.UserUpdateInput) (model.User, error) {
	if fieldErrs := input.Validate(); len(fieldErrs) > 0 {
		return model.User{}, validationError(fieldErrs)
	}
	return s.admin.UpdateUser(ctx, upstreamCookie, id, input)
}

// DeleteUser removes a user account. Deleting your own account is refused so
// an admin cannot lock themselves out mid-session.
func (s *AdminService) DeleteUser(ctx context.Context, upstreamCookie string, id, callerID int64) error {
	if id == callerID {
		return apperrors.Validation("You cannot delete your own account.")
	}
	return s.admin.DeleteUser(ctx, upstreamCookie, id)
}
