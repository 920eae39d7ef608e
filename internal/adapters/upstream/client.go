package upstream

// Package upstream implements the REST client for the complaint-tracking
// backend. The backend is the system of record; this client forwards the
// cached session cookie on every call and maps HTTP failures onto the
// application error taxonomy.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
)

const defaultTimeout = 10 * time.Second

// Options groups dependencies for Client.
type Options struct {
	// BaseURL is the upstream API root, e.g. "http://localhost:3000".
	BaseURL string
	// CookieName is the upstream session cookie name. Defaults to "Authorization".
	CookieName string
	// Timeout bounds each request. Defaults to 10s.
	Timeout time.Duration
	// HTTPClient overrides the transport (tests). Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the upstream complaint API. It implements ports.AuthAPI,
// ports.ComplaintAPI, ports.CategoryAPI and ports.AdminAPI.
type Client struct {
	baseURL    string
	cookieName string
	http       *http.Client
	logger     *slog.Logger
}

// NewClient constructs an upstream API client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	cookieName := opts.CookieName
	if cookieName == "" {
		cookieName = "Authorization"
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		cookieName: cookieName,
		http:       httpClient,
		logger:     logger,
	}
}

// CookieName returns the upstream session cookie name this client forwards.
func (c *Client) CookieName() string { return c.cookieName }

// requestParams groups values for a single upstream call.
type requestParams struct {
	Method  string
	Path    string
	Cookie  string
	Body    io.Reader
	Headers map[string]string
}

func (c *Client) newRequest(ctx context.Context, p requestParams) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, p.Method, c.baseURL+p.Path, p.Body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", p.Method, p.Path, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range p.Headers {
		req.Header.Set(k, v)
	}
	if p.Cookie != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: p.Cookie})
	}
	return req, nil
}

// doJSON executes the request and decodes a 2xx JSON response into dst.
// Pass a nil dst to discard the body.
func (c *Client) doJSON(ctx context.Context, p requestParams, dst any) error {
	req, err := c.newRequest(ctx, p)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "upstream request failed",
			slog.String("method", p.Method),
			slog.String("path", p.Path),
			slog.Any("error", err),
		)
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "Complaint service is unreachable.")
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "upstream request",
		slog.String("method", p.Method),
		slog.String("path", p.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp)
	}

	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "Complaint service returned an unreadable response.")
	}
	return nil
}

// serverMessage is the error envelope the upstream uses for failures.
type serverMessage struct {
	Message string `json:"message"`
}

// errorFromResponse maps a non-2xx response onto the error taxonomy. The 401
// mapping is what lets the session service distinguish "no session" (an
// expected state) from a real failure.
func (c *Client) errorFromResponse(resp *http.Response) error {
	const maxErrBody = 64 << 10
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))

	msg := ""
	var sm serverMessage
	if err := json.Unmarshal(body, &sm); err == nil {
		msg = sm.Message
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if msg == "" {
			msg = "Not authenticated."
		}
		return apperrors.Unauthenticated(msg)
	case resp.StatusCode == http.StatusForbidden:
		if msg == "" {
			msg = "You do not have permission to do that."
		}
		return apperrors.Forbidden(msg)
	case resp.StatusCode == http.StatusNotFound:
		if msg == "" {
			msg = "Not found."
		}
		return apperrors.NotFound(msg)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		if msg == "" {
			msg = fmt.Sprintf("Request rejected (HTTP %d).", resp.StatusCode)
		}
		return apperrors.Validation(msg)
	default:
		if msg == "" {
			msg = fmt.Sprintf("Complaint service error (HTTP %d).", resp.StatusCode)
		}
		return apperrors.Upstream(msg)
	}
}

// sendJSON marshals body and issues a JSON POST/PUT.
func (c *Client) sendJSON(ctx context.Context, method, path, cookie string, body, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s body: %w", path, err)
	}
	return c.doJSON(ctx, requestParams{
		Method:  method,
		Path:    path,
		Cookie:  cookie,
		Body:    bytes.NewReader(payload),
		Headers: map[string]string{"Content-Type": "application/json"},
	}, dst)
}
