package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// identityPayload mirrors the /auth/me response shape.
type identityPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// WhoAmI probes GET /auth/me with the cached session cookie.
func (c *Client) WhoAmI(ctx context.Context, upstreamCookie string) (domainauth.Identity, error) {
	var payload identityPayload
	err := c.doJSON(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Cookie: upstreamCookie,
	}, &payload)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("who am i: %w", err)
	}

	return domainauth.Identity{
		ID:    payload.ID,
		Name:  payload.Name,
		Email: payload.Email,
		Role:  domainauth.ParseRole(payload.Role),
	}, nil
}

// Login posts credentials and captures the session cookie the upstream sets.
// The cookie value is opaque to this service; it is cached verbatim and
// forwarded on subsequent calls.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal login body: %w", err)
	}

	req, err := c.newRequest(ctx, requestParams{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Body:    bytes.NewReader(payload),
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeUpstream, "Complaint service is unreachable.")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("login: %w", c.errorFromResponse(resp))
	}

	for _, ck := range resp.Cookies() {
		if ck.Name == c.cookieName && ck.Value != "" {
			return ck.Value, nil
		}
	}
	return "", apperrors.Upstream("Login succeeded but no session cookie was issued.")
}

// Register posts a new account. Role travels with the request so the same
// endpoint serves self-registration ("user") and admin-created admins.
func (c *Client) Register(ctx context.Context, reg ports.Registration) (model.User, error) {
	body := map[string]string{
		"name":     reg.Name,
		"email":    reg.Email,
		"password": reg.Password,
		"role":     reg.Role,
	}

	var user model.User
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/register", "", body, &user); err != nil {
		return model.User{}, fmt.Errorf("register: %w", err)
	}
	return user, nil
}
