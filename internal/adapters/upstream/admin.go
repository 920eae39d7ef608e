package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
)

// ListAllComplaints fetches every complaint in the system (admin only).
func (c *Client) ListAllComplaints(ctx context.Context, upstreamCookie string) ([]model.Complaint, error) {
	var complaints []model.Complaint
	err := c.doJSON(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/admin/complaints",
		Cookie: upstreamCookie,
	}, &complaints)
	if err != nil {
		return nil, fmt.Errorf("list all complaints: %w", err)
	}
	return complaints, nil
}

// UpdateComplaintStatus moves a complaint through triage (admin only).
func (c *Client) UpdateComplaintStatus(
	ctx context.Context,
	upstreamCookie string,
	id int64,
	status model.ComplaintStatus,
) (model.Complaint, error) {
	path := "/admin/complaints/" + strconv.FormatInt(id, 10) + "/status"
	body := map[string]string{"status": status.String()}

	var complaint model.Complaint
	if err := c.sendJSON(ctx, http.MethodPut, path, upstreamCookie, body, &complaint); err != nil {
		return model.Complaint{}, fmt.Errorf("update complaint %d status: %w", id, err)
	}
	return complaint, nil
}

// ListUsers fetches every account (admin only).
func (c *Client) ListUsers(ctx context.Context, upstreamCookie string) ([]model.User, error) {
	var users []model.User
	err := c.doJSON(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/admin/users",
		Cookie: upstreamCookie,
	}, &users)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser edits an account's name, email or role (admin only).
func (c *Client) UpdateUser(
	ctx context.Context,
	upstreamCookie string,
	id int64,
	in model.UserUpdateInput,
) (model.User, error) {
	path := "/admin/users/" + strconv.FormatInt(id, 10)
	body := map[string]string{
		"name":  in.Name,
		"email": in.Email,
		"role":  in.Role,
	}

	var user model.User
	if err := c.sendJSON(ctx, http.MethodPut, path, upstreamCookie, body, &user); err != nil {
		return model.User{}, fmt.Errorf("update user %d: %w", id, err)
	}
	return user, nil
}

// DeleteUser removes an account (admin only).
func (c *Client) DeleteUser(ctx context.Context, upstreamCookie string, id int64) error {
	err := c.doJSON(ctx, requestParams{
		Method: http.MethodDelete,
		Path:   "/admin/users/" + strconv.FormatInt(id, 10),
		Cookie: upstreamCookie,
	}, nil)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
