package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
)

// UpdateProfile edits the signed-in user's own name and email.
func (c *Client) UpdateProfile(
	ctx context.Context,
	upstreamCookie string,
	in model.ProfileUpdateInput,
) (model.User, error) {
	body := map[string]string{
		"name":  in.Name,
		"email": in.Email,
	}

	var user model.User
	if err := c.sendJSON(ctx, http.MethodPut, "/user/profile", upstreamCookie, body, &user); err != nil {
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the signed-in user's password. The upstream
// verifies the current password; a mismatch comes back as a validation error.
func (c *Client) ChangePassword(ctx context.Context, upstreamCookie, current, next string) error {
	body := map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	}

	if err := c.sendJSON(ctx, http.MethodPut, "/user/password", upstreamCookie, body, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
