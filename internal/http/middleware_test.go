package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	authmocks "github.com/ecotrack/ecotrack-ui/internal/mocks/auth"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
	"github.com/ecotrack/ecotrack-ui/internal/service"
)

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/complaints", "/complaints"},
		{"/complaints?page=2", "/complaints?page=2"},
		{"", ""},
		{"//evil.example.com", ""},
		{"https://evil.example.com", ""},
		{`/\evil`, ""},
		{"relative/path", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeRedirectPath(tt.in), "input %q", tt.in)
	}
}

func TestIsBrowserRequest(t *testing.T) {
	html := httptest.NewRequest(http.MethodGet, "/complaints", nil)
	html.Header.Set("Accept", "text/html")
	assert.True(t, isBrowserRequest(html))

	api := httptest.NewRequest(http.MethodGet, "/complaints", nil)
	api.Header.Set("Accept", "application/json")
	assert.False(t, isBrowserRequest(api))

	status := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	status.Header.Set("Accept", "text/html")
	assert.False(t, isBrowserRequest(status))

	static := httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil)
	static.Header.Set("Accept", "*/*")
	assert.False(t, isBrowserRequest(static))
}

func TestSessionCookie_Attributes(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.browserGet(t, "/login")
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultSessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
	assert.Equal(t, "/", session.Path)
	assert.False(t, session.Secure, "plain HTTP test requests stay non-secure")
}

func TestSessionCookie_SecureBehindTLSProxy(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := serve(env, req)

	secure := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultSessionCookieName {
			secure = c.Secure
		}
	}
	assert.True(t, secure)
}

// failingSessionStore simulates a session store outage.
type failingSessionStore struct{}

func (failingSessionStore) Save(context.Context, domainauth.SessionState) error {
	return errors.New("store down")
}

func (failingSessionStore) SaveIf(context.Context, domainauth.SessionState) error {
	return errors.New("store down")
}

func (failingSessionStore) Get(context.Context, string) (domainauth.SessionState, error) {
	return domainauth.SessionState{}, errors.New("store down")
}

func (failingSessionStore) Delete(context.Context, string) error {
	return errors.New("store down")
}

// When the store is down the auth status is unknown: guarded pages render
// the retrying pending page. They never redirect, so a signed-in user is not
// bounced to login by an outage.
func TestStoreOutage_RendersPendingPageInsteadOfRedirect(t *testing.T) {
	var store ports.SessionStore = failingSessionStore{}
	sessions := service.NewSessionService(service.SessionServiceOptions{
		Sessions: store,
		Auth:     authmocks.NewStubAuthAPI(),
	})
	router := NewRouter(RouterServices{
		Sessions: sessions,
		Renderer: RequireTemplateRenderer(t),
	})

	req := httptest.NewRequest(http.MethodGet, "/complaints", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "retries automatically")
	assert.Empty(t, rec.Header().Get("Location"))
}

// A guard mounted without the session middleware is a wiring bug. It must
// fail as a hard 500, not park the request on the pending page or redirect.
func TestGuardWithoutSessionMiddleware_Returns500(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	guards := map[string]http.Handler{
		"anon-only":     RequireAnonOnly(handler),
		"authenticated": RequireAuthBrowser(handler),
		"role":          RequireRoleBrowser(domainauth.RoleAdmin)(handler),
	}

	for name, guard := range guards {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/complaints", nil)
			req.Header.Set("Accept", "text/html")
			rec := httptest.NewRecorder()
			guard.ServeHTTP(rec, req)

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Empty(t, rec.Header().Get("Location"))
			assert.NotContains(t, rec.Body.String(), "retries automatically")
		})
	}
}
