package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/service"
)

// respWriter wraps http.ResponseWriter to capture the status code.
type respWriter struct {
	http.ResponseWriter
	status int
}

func (rw *respWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logging logs each request with method, path, status, and duration.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		})
	}
}

// Recover converts panics into 500 responses and logs the stack.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"panic", rec,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type browserRequestKey struct{}

// BrowserDetection tags each request with whether it looks like a browser
// page navigation, so error paths can choose between a redirect and JSON.
func BrowserDetection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IsBrowserRequest reports the detection result for the request.
func IsBrowserRequest(r *http.Request) bool {
	if v, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return v
	}
	return isBrowserRequest(r)
}

func isBrowserRequest(r *http.Request) bool {
	path := r.URL.Path
	if strings.HasPrefix(path, "/auth/status") || strings.HasPrefix(path, "/static/") {
		return false
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}

// CookieConfig controls how the browser session cookie is issued.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

func (c CookieConfig) name() string {
	if c.Name == "" {
		return DefaultSessionCookieName
	}
	return c.Name
}

// WithSession resolves the browser session for every request: it reads the
// session cookie, creates a session when none exists, runs the auth bootstrap,
// and stores the resulting state in the request context.
//
// The bootstrap runs at most once per session; once the session's check has
// latched this is a single store read.
func WithSession(sessions *service.SessionService, cookies CookieConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if sessions == nil {
		panic("httpx: WithSession requires a session service")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cookieID string
			if cookie, err := r.Cookie(cookies.name()); err == nil {
				cookieID = cookie.Value
			}

			state, created, err := sessions.Resolve(r.Context(), cookieID)
			if err != nil {
				// Session store failure. An unchecked placeholder keeps
				// guards on the pending page rather than misredirecting,
				// while a route with no session middleware at all still
				// surfaces as a nil state.
				logger.Error("session resolve failed", "error", err, "path", r.URL.Path)
				placeholder := domainauth.SessionState{}
				ctx := SetSessionInContext(r.Context(), &placeholder)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			if created {
				setSessionCookie(w, r, cookies, state)
			}

			if bootstrapped, bootErr := sessions.EnsureBootstrapped(r.Context(), state.ID); bootErr != nil {
				// Keep serving with the unchecked state; upstream outages
				// already latch inside the service, so this is a store error.
				logger.Error("session bootstrap failed", "error", bootErr, "session_id", state.ID)
			} else {
				state = bootstrapped
			}

			ctx := SetSessionInContext(r.Context(), &state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// setSessionCookie issues the browser session cookie. HttpOnly always;
// Secure when configured or when the request already travels over TLS.
func setSessionCookie(w http.ResponseWriter, r *http.Request, cookies CookieConfig, state domainauth.SessionState) {
	secure := cookies.Secure || r.TLS != nil ||
		strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")

	http.SetCookie(w, &http.Cookie{
		Name:     cookies.name(),
		Value:    state.ID,
		Path:     "/",
		Domain:   cookies.Domain,
		Expires:  state.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAnonOnly guards visitor-only pages (login, register). Signed-in
// users are sent to the dashboard.
func RequireAnonOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveGuardDecision(w, r, DecideAnonOnly(GetSessionFromContext(r.Context())), next)
	})
}

// RequireAuthBrowser guards pages that need any signed-in user. Browser
// requests are redirected to login with the original path preserved;
// API-style requests get a JSON 401.
func RequireAuthBrowser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveGuardDecision(w, r, DecideAuthenticated(GetSessionFromContext(r.Context())), next)
	})
}

// RequireRoleBrowser guards pages restricted to a role.
func RequireRoleBrowser(role domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			serveGuardDecision(w, r, DecideRole(GetSessionFromContext(r.Context()), role), next)
		})
	}
}

func serveGuardDecision(w http.ResponseWriter, r *http.Request, decision GuardDecision, next http.Handler) {
	switch decision {
	case DecisionRender:
		next.ServeHTTP(w, r)
	case DecisionPending:
		servePendingPage(w)
	case DecisionRedirectLogin:
		redirectToLogin(w, r)
	case DecisionRedirectHome:
		http.Redirect(w, r, "/", http.StatusFound)
	case DecisionForbidden:
		if IsBrowserRequest(r) {
			http.Redirect(w, r, "/unauthorized", http.StatusFound)
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "forbidden"})
	case DecisionMisconfigured:
		slog.Error("route guard misconfigured", "path", r.URL.Path)
		http.Error(w, "route misconfigured", http.StatusInternalServerError)
	}
}

// pendingPageHTML is served while the session's auth status is unknown,
// which only happens when the session store is unreachable. It retries
// rather than redirecting, so a transient outage never bounces a signed-in
// user to login.
const pendingPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="2">
<title>Loading - EcoTrack</title>
</head>
<body>
<p>Checking your session. This page retries automatically.</p>
</body>
</html>
`

func servePendingPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(pendingPageHTML))
}

// redirectToLogin sends a browser to the login page, preserving the
// requested path in redirect_uri. API-style requests get JSON instead.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "unauthenticated"})
		return
	}

	target := "/login"
	if dest := safeRedirectFromURL(r.URL); dest != "" && dest != "/" {
		target += "?redirect_uri=" + url.QueryEscape(dest)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// safeRedirectFromURL reduces a request URL to a same-origin path suitable
// for a redirect_uri parameter.
func safeRedirectFromURL(u *url.URL) string {
	path := u.Path
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return safeRedirectPath(path)
}

// safeRedirectPath rejects anything that is not a plain same-origin path,
// preventing open redirects via redirect_uri.
func safeRedirectPath(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return ""
	}
	if strings.Contains(path, "\\") || strings.Contains(path, "://") {
		return ""
	}
	return path
}
