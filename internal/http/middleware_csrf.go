package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
)

const (
	// DefaultCSRFCookieName is the double-submit cookie name.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName carries the token on AJAX requests; form posts
	// use the csrf_token form field instead.
	DefaultCSRFHeaderName = "X-Csrf-Token"

	csrfTokenBytes = 32
	csrfFormField  = "csrf_token"
)

type csrfTokenKey struct{}

// CSRFTokenFromContext returns the request's CSRF token for embedding in
// forms, or empty when the middleware did not run.
func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenKey{}).(string)
	return token
}

// CSRFProtection implements double-submit cookie CSRF protection. Safe
// methods receive a token cookie; state-changing methods must echo the
// cookie value in a form field or header.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := csrfCookieToken(r)
		if token == "" {
			var err error
			token, err = generateCSRFToken()
			if err != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			setCSRFCookie(w, r, token)
		}

		ctx := context.WithValue(r.Context(), csrfTokenKey{}, token)
		r = r.WithContext(ctx)

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(submittedCSRFToken(r))) != 1 {
			if IsBrowserRequest(r) {
				http.Error(w, "invalid or missing CSRF token", http.StatusForbidden)
				return
			}
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "csrf"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func csrfCookieToken(r *http.Request) string {
	cookie, err := r.Cookie(DefaultCSRFCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func submittedCSRFToken(r *http.Request) string {
	if header := r.Header.Get(DefaultCSRFHeaderName); header != "" {
		return header
	}
	return r.PostFormValue(csrfFormField)
}

func generateCSRFToken() (string, error) {
	raw := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func setCSRFCookie(w http.ResponseWriter, r *http.Request, token string) {
	secure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     DefaultCSRFCookieName,
		Value:    token,
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
