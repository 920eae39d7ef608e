package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// ComplaintServiceOptions groups dependencies for ComplaintService.
type ComplaintServiceOptions struct {
	Complaints ports.ComplaintAPI
	Categories ports.CategoryAPI
}

// ComplaintService wraps the caller-owned complaint surface of the upstream
// API, validating input before it crosses the wire.
type ComplaintService struct {
	complaints ports.ComplaintAPI
	categories ports.CategoryAPI
}

// NewComplaintService constructs a new ComplaintService.
func NewComplaintService(opts ComplaintServiceOptions) *ComplaintService {
	if opts.Complaints == nil {
		panic("complaint service: Complaints is required")
	}
	if opts.Categories == nil {
		panic("complaint service: Categories is required")
	}
	return &ComplaintService{complaints: opts.Complaints, categories: opts.Categories}
}

// Overview is the data behind a user's dashboard: their complaints plus
// per-status counts.
type Overview struct {
	Complaints []model.Complaint
	Stats      model.ComplaintStats
	Categories []model.Category
}

// Overview fetches the caller's complaints and the category list in parallel.
func (s *ComplaintService) Overview(ctx context.Context, upstreamCookie string) (*Overview, error) {
	var (
		complaints []model.Complaint
		categories []model.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		complaints, err = s.complaints.ListMine(gctx, upstreamCookie)
		if err != nil {
			return fmt.Errorf("list complaints: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.List(gctx, upstreamCookie)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Overview{
		Complaints: complaints,
		Stats:      model.CountByStatus(complaints),
		Categories: categories,
	}, nil
}

// ListMine returns the caller's complaints.
func (s *ComplaintService) ListMine(ctx context.Context, upstreamCookie string) ([]model.Complaint, error) {
	return s.complaints.ListMine(ctx, upstreamCookie)
}

// Get returns a single complaint by ID.
func (s *ComplaintService) Get(ctx context.Context, upstreamCookie string, id int64) (model.Complaint, error) {
	return s.complaints.Get(ctx, upstreamCookie, id)
}

// Categories returns the selectable complaint categories.
func (s *ComplaintService) Categories(ctx context.Context, upstreamCookie string) ([]model.Category, error) {
	return s.categories.List(ctx, upstreamCookie)
}

// Create validates the input locally, then files the complaint upstream with
// the optional image passed through untouched.
func (s *ComplaintService) Create(ctx context.Context, upstreamCookie string, input model.ComplaintInput, image *ports.Upload) (model.Complaint, error) {
	if fieldErrs := input.Validate(); len(fieldErrs) > 0 {
		return model.Complaint{}, validationError(fieldErrs)
	}
	return s.complaints.Create(ctx, upstreamCookie, input, image)
}

// Update validates the input locally, then updates the complaint upstream.
// Ownership is enforced upstream; a foreign complaint comes back forbidden.
func (s *ComplaintService) Update(ctx context.Context, upstreamCookie string, id int64, input model.ComplaintInput, image *ports.Upload) (model.Complaint, error) {
	if fieldErrs := input.Validate(); len(fieldErrs) > 0 {
		return model.Complaint{}, validationError(fieldErrs)
	}
	return s.complaints.Update(ctx, upstreamCookie, id, input, image)
}

// Delete removes the caller's complaint.
func (s *ComplaintService) Delete(ctx context.Context, upstreamCookie string, id int64) error {
	return s.complaints.Delete(ctx, upstreamCookie, id)
}

// validationError folds field errors into a single AppError carrying the
// first offending field, for form re-rendering.
func validationError(fieldErrs map[string]string) error {
	for field, msg := range fieldErrs {
		return apperrors.ValidationField(field, msg)
	}
	return apperrors.Validation("invalid input")
}
