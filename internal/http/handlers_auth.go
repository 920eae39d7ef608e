package httpx

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// AuthHandlers serves login, registration, logout, and the session status
// endpoint.
type AuthHandlers struct {
	Sessions SessionUIService
	T        *TemplateRenderer
	Cookies  CookieConfig
	Logger   *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func loginMeta() PageMeta {
	return PageMeta{Title: "Sign In - EcoTrack", PageTitle: "Sign In", CurrentPage: PageLogin}
}

func registerMeta() PageMeta {
	return PageMeta{Title: "Create Account - EcoTrack", PageTitle: "Create Account", CurrentPage: PageRegister}
}

// LoginPage renders the login form. The page stays reachable when the
// upstream API is down: a failed auth check surfaces as a dismissible banner
// from the session state, not as an error page.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, loginMeta()).
		With("RedirectURI", safeRedirectPath(r.URL.Query().Get("redirect_uri"))).
		With("Registered", r.URL.Query().Get("registered") == "1").
		Build()
	h.render(w, r, data)
}

// LoginSubmit handles the login form post. On failure the form re-renders
// with the email preserved; the password is never echoed back.
func (h *AuthHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	creds := ports.Credentials{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	redirectURI := safeRedirectPath(r.PostFormValue("redirect_uri"))

	state := GetSessionFromContext(r.Context())
	if state == nil {
		// Session store is down; login cannot persist.
		h.renderLoginError(w, r, creds.Email, redirectURI,
			"Something went wrong. Please try again.")
		return
	}

	if _, err := h.Sessions.Login(r.Context(), state.ID, creds); err != nil {
		h.renderLoginError(w, r, creds.Email, redirectURI, apperrors.UserMessage(err))
		return
	}

	target := redirectURI
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *AuthHandlers) renderLoginError(w http.ResponseWriter, r *http.Request, email, redirectURI, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	data := NewTemplateData(r, loginMeta()).
		WithError(message).
		With("Email", email).
		With("RedirectURI", redirectURI).
		Build()
	h.render(w, r, data)
}

// RegisterPage renders the account creation form.
func (h *AuthHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, NewTemplateData(r, registerMeta()).Build())
}

// RegisterSubmit creates an account and sends the visitor to login.
// Registration never signs the user in.
func (h *AuthHandlers) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	input := model.RegistrationInput{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     "user",
	}

	if errs := input.Validate(); errs != nil {
		h.renderRegisterForm(w, r, input, errs, "")
		return
	}

	reg := ports.Registration{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	}
	if _, err := h.Sessions.Register(r.Context(), reg); err != nil {
		h.logger().Warn("registration failed", "error", err)
		h.renderRegisterForm(w, r, input, nil, apperrors.UserMessage(err))
		return
	}

	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

func (h *AuthHandlers) renderRegisterForm(
	w http.ResponseWriter,
	r *http.Request,
	input model.RegistrationInput,
	fieldErrs map[string]string,
	message string,
) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	builder := NewTemplateData(r, registerMeta()).
		WithFieldErrors(fieldErrs).
		With("Name", input.Name).
		With("Email", input.Email)
	if message != "" {
		builder.WithError(message)
	}
	h.render(w, r, builder.Build())
}

// Logout signs the session out and lands on the signed-out page. The
// session cookie stays; the server-side state is what changes.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if state := GetSessionFromContext(r.Context()); state != nil {
		if _, err := h.Sessions.Logout(r.Context(), state.ID); err != nil {
			h.logger().Error("logout failed", "error", err, "session_id", state.ID)
		}
	}
	http.Redirect(w, r, "/auth/signed-out", http.StatusSeeOther)
}

// Status reports the session's auth state as JSON, mirroring what the page
// guards see. Useful for client scripts and health tooling.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	state := GetSessionFromContext(r.Context())
	if state == nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"checked":       false,
			"authenticated": false,
		})
		return
	}

	body := map[string]any{
		"checked":       state.CheckedAuth.IsSet(),
		"authenticated": state.Authenticated,
	}
	if state.Identity != nil {
		body["user"] = map[string]any{
			"id":    state.Identity.ID,
			"name":  state.Identity.Name,
			"email": state.Identity.Email,
			"role":  string(state.Identity.Role),
		}
	}
	if state.Error != "" {
		body["error"] = state.Error
	}
	WriteJSON(w, http.StatusOK, body)
}

// DismissError clears the session's failure banner and returns to the
// page the user was on.
func (h *AuthHandlers) DismissError(w http.ResponseWriter, r *http.Request) {
	if state := GetSessionFromContext(r.Context()); state != nil {
		if _, err := h.Sessions.DismissError(r.Context(), state.ID); err != nil {
			h.logger().Error("dismiss error failed", "error", err, "session_id", state.ID)
		}
	}

	back := "/"
	if ref, err := url.Parse(r.Referer()); err == nil {
		if p := safeRedirectPath(ref.RequestURI()); p != "" {
			back = p
		}
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *AuthHandlers) render(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.logger().Error("template rendering failed", "error", err, "path", r.URL.Path)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
