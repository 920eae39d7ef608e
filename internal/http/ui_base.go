package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"strconv"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
	"github.com/ecotrack/ecotrack-ui/internal/service"
)

// ComplaintsUIService is the slice of the complaint service the UI consumes.
type ComplaintsUIService interface {
	Overview(ctx context.Context, upstreamCookie string) (*service.Overview, error)
	ListMine(ctx context.Context, upstreamCookie string) ([]model.Complaint, error)
	Get(ctx context.Context, upstreamCookie string, id int64) (model.Complaint, error)
	Categories(ctx context.Context, upstreamCookie string) ([]model.Category, error)
	Create(ctx context.Context, upstreamCookie string, input model.ComplaintInput, image *ports.Upload) (model.Complaint, error)
	Update(ctx context.Context, upstreamCookie string, id int64, input model.ComplaintInput, image *ports.Upload) (model.Complaint, error)
	Delete(ctx context.Context, upstreamCookie string, id int64) error
}

// AdminUIService is the slice of the admin service the UI consumes.
type AdminUIService interface {
	TriageBoard(ctx context.Context, upstreamCookie string) (*service.TriageBoard, error)
	UpdateComplaintStatus(ctx context.Context, upstreamCookie string, id int64, status string) (model.Complaint, error)
	ListUsers(ctx context.Context, upstreamCookie string) ([]model.User, error)
	CreateAdmin(ctx context.Context, reg ports.Registration) (model.User, error)
	UpdateUser(ctx context.Context, upstreamCookie string, id int64, input model.UserUpdateInput) (model.User, error)
	DeleteUser(ctx context.Context, upstreamCookie string, id, callerID int64) error
}

// ProfileUIService is the slice of the profile service the UI consumes.
type ProfileUIService interface {
	UpdateProfile(ctx context.Context, sessionID string, in model.ProfileUpdateInput) (domainauth.SessionState, error)
	ChangePassword(ctx context.Context, sessionID, current, next string) error
}

// SessionUIService is the slice of the session service the UI consumes.
type SessionUIService interface {
	Login(ctx context.Context, id string, creds ports.Credentials) (domainauth.SessionState, error)
	Register(ctx context.Context, reg ports.Registration) (model.User, error)
	Logout(ctx context.Context, id string) (domainauth.SessionState, error)
	Invalidate(ctx context.Context, id string) (domainauth.SessionState, error)
	DismissError(ctx context.Context, id string) (domainauth.SessionState, error)
}

// Compile-time checks that the concrete services satisfy the UI interfaces.
var (
	_ ComplaintsUIService = (*service.ComplaintService)(nil)
	_ AdminUIService      = (*service.AdminService)(nil)
	_ SessionUIService    = (*service.SessionService)(nil)
	_ ProfileUIService    = (*service.ProfileService)(nil)
)

// UIHandlers serves the server-rendered pages.
type UIHandlers struct {
	T          *TemplateRenderer
	Complaints ComplaintsUIService
	Admin      AdminUIService
	Sessions   SessionUIService
	Profile    ProfileUIService
	Cookies    CookieConfig
	IsDev      bool
	Logger     *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders the
// full page. Upstream auth failures during the fetch invalidate the session
// instead of rendering, since the cached cookie is no longer valid.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			// A missing or foreign resource is a response of its own, not
			// a banner on an otherwise-empty page.
			if apperrors.IsUnauthenticated(err) || apperrors.IsForbidden(err) || apperrors.IsNotFound(err) {
				h.serviceErrorResponse(w, r, err)
				return
			}
			h.logger().Error("page data fetch failed",
				"page", spec.Meta.CurrentPage, "error", err)
			markPageError(data, apperrors.UserMessage(err))
		}
	}
	h.renderPage(w, r, data)
}

func markPageError(data map[string]any, message string) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; !ok {
		data["ErrorMessage"] = message
	}
}

// handleStaleSession runs when the upstream API rejects the cached cookie.
// The session is invalidated so the next request re-checks, and the user
// lands on login with the original destination preserved.
func (h *UIHandlers) handleStaleSession(w http.ResponseWriter, r *http.Request) {
	if state := GetSessionFromContext(r.Context()); state != nil {
		if _, err := h.Sessions.Invalidate(r.Context(), state.ID); err != nil {
			h.logger().Error("session invalidate failed", "error", err, "session_id", state.ID)
		}
	}
	redirectToLogin(w, r)
}

// serviceErrorResponse maps a non-validation service error to a response.
func (h *UIHandlers) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.IsUnauthenticated(err):
		h.handleStaleSession(w, r)
	case apperrors.IsForbidden(err):
		http.Redirect(w, r, "/unauthorized", http.StatusFound)
	case apperrors.IsNotFound(err):
		h.NotFound(w, r)
	default:
		h.logger().Error("request failed", "path", r.URL.Path, "error", err)
		h.renderErrorPage(w, r, http.StatusInternalServerError, apperrors.UserMessage(err))
	}
}

func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err)
	}
}

// renderErrorPage renders the minimal error layout with a status code.
func (h *UIHandlers) renderErrorPage(w http.ResponseWriter, r *http.Request, code int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	data := map[string]any{
		"Code":            code,
		"Message":         message,
		"IsAuthenticated": IsAuthenticatedRequest(r.Context()),
	}
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("error page render failed", "error", err)
	}
}

// logAndRenderTemplateError logs template failures; dev mode shows the
// underlying error in the response.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().Error("template rendering failed",
		"error", err,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<pre>template error: " + html.EscapeString(err.Error()) + "</pre>"))
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// sessionState returns the request's session state. Guarded routes always
// have one; a missing state here is a wiring bug.
func (h *UIHandlers) sessionState(r *http.Request) *domainauth.SessionState {
	return GetSessionFromContext(r.Context())
}

// upstreamCookie returns the cached upstream cookie for the request session.
func (h *UIHandlers) upstreamCookie(r *http.Request) string {
	if state := h.sessionState(r); state != nil {
		return state.UpstreamCookie
	}
	return ""
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
