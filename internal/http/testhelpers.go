package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	authmocks "github.com/ecotrack/ecotrack-ui/internal/mocks/auth"
	"github.com/ecotrack/ecotrack-ui/internal/service"
)

// templateDirCandidates are tried in order so tests work from the package
// directory and from the repo root.
var templateDirCandidates = []string{
	"../../web/templates",
	"web/templates",
}

func findTemplateDir(t *testing.T) string {
	t.Helper()
	for _, dir := range templateDirCandidates {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	t.Skipf("template directory not found (tried %v)", templateDirCandidates)
	return ""
}

// RequireTemplateRenderer loads the real template set from disk.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(findTemplateDir(t)),
	})
	require.NoError(t, err)
	return tr
}

// testEnv wires a full router against the hand-written auth stub and the
// in-memory session store.
type testEnv struct {
	Router   http.Handler
	Auth     *authmocks.StubAuthAPI
	Store    *authmocks.MemorySessionStore
	Sessions *service.SessionService
	Services RouterServices
}

// newTestEnv builds a router whose complaint and admin surfaces are backed
// by the given implementations. Pass nil for surfaces a test never touches.
func newTestEnv(t *testing.T, complaints ComplaintsUIService, admin AdminUIService) *testEnv {
	t.Helper()
	return newTestEnvWith(t, authmocks.NewStubAuthAPI(), complaints, admin)
}

// newTestEnvWith is newTestEnv with a caller-owned auth stub, for tests that
// need the stub wired into other services too.
func newTestEnvWith(t *testing.T, stub *authmocks.StubAuthAPI, complaints ComplaintsUIService, admin AdminUIService) *testEnv {
	t.Helper()

	store := authmocks.NewMemorySessionStore()
	sessions := service.NewSessionService(service.SessionServiceOptions{
		Sessions: store,
		Auth:     stub,
	})

	profile := service.NewProfileService(service.ProfileServiceOptions{
		Profile:  stub,
		Sessions: store,
	})

	svcs := RouterServices{
		Sessions:   sessions,
		Complaints: complaints,
		Admin:      admin,
		Profile:    profile,
		Renderer:   RequireTemplateRenderer(t),
	}
	return &testEnv{
		Router:   NewRouter(svcs),
		Auth:     stub,
		Store:    store,
		Sessions: sessions,
		Services: svcs,
	}
}

// browserGet performs a GET with a browser Accept header.
func (env *testEnv) browserGet(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// signIn drives the real login flow and returns the cookies a signed-in
// browser would carry.
func (env *testEnv) signIn(t *testing.T) []*http.Cookie {
	t.Helper()

	// First page load issues the session and CSRF cookies.
	rec := env.browserGet(t, "/login")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	form := "email=" + env.Auth.Identity.Email + "&password=" + env.Auth.Password +
		"&csrf_token=" + cookieValue(cookies, DefaultCSRFCookieName)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form))
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	loginRec := httptest.NewRecorder()
	env.Router.ServeHTTP(loginRec, req)
	require.Equal(t, http.StatusSeeOther, loginRec.Code, "login should succeed: %s", loginRec.Body.String())

	return cookies
}

// postForm performs a form POST carrying the CSRF token from the cookie jar.
func (env *testEnv) postForm(t *testing.T, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	form.Set("csrf_token", cookieValue(cookies, DefaultCSRFCookieName))
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// newJSONRequest builds a request with a JSON Accept header, the shape an
// API client would send.
func newJSONRequest(t *testing.T, method, path string, cookies []*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Accept", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func serve(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// asAdmin promotes the stub identity to admin before sign-in.
func (env *testEnv) asAdmin() {
	env.Auth.Identity.Role = domainauth.RoleAdmin
}

// bodyString drains a response body for assertions.
func bodyString(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	b, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(b)
}

// ContainsAll asserts every needle appears in the haystack.
func ContainsAll(t *testing.T, haystack string, needles ...string) {
	t.Helper()
	for _, needle := range needles {
		require.Contains(t, haystack, needle)
	}
}
