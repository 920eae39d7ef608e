package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/service"
)

// RouterServices bundles the dependencies the router needs.
type RouterServices struct {
	Sessions   *service.SessionService
	Complaints ComplaintsUIService
	Admin      AdminUIService
	Profile    ProfileUIService
	Renderer   *TemplateRenderer
	StaticFS   fs.FS
	Cookies    CookieConfig
	IsDev      bool
	Logger     *slog.Logger
}

// NewRouter builds the full page router. Static assets and the health check
// sit outside the session middleware so probes and asset fetches never spend
// a session store round trip.
func NewRouter(svcs RouterServices) http.Handler {
	logger := svcs.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ui := &UIHandlers{
		T:          svcs.Renderer,
		Complaints: svcs.Complaints,
		Admin:      svcs.Admin,
		Sessions:   svcs.Sessions,
		Profile:    svcs.Profile,
		Cookies:    svcs.Cookies,
		IsDev:      svcs.IsDev,
		Logger:     logger,
	}
	auth := &AuthHandlers{
		Sessions: svcs.Sessions,
		T:        svcs.Renderer,
		Cookies:  svcs.Cookies,
		Logger:   logger,
	}

	mux := http.NewServeMux()
	registerAuthRoutes(mux, auth, ui)
	registerComplaintRoutes(mux, ui)
	registerAdminRoutes(mux, ui)

	app := notFoundHandler(mux, ui)
	app = CSRFProtection(app)
	app = WithSession(svcs.Sessions, svcs.Cookies, logger)(app)

	outer := http.NewServeMux()
	if svcs.StaticFS != nil {
		outer.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(svcs.StaticFS)))
	}
	outer.Handle("GET /healthz", http.HandlerFunc(Healthz))
	outer.Handle("HEAD /healthz", http.HandlerFunc(Healthz))
	outer.Handle("/", app)

	return BrowserDetection(outer)
}

func registerAuthRoutes(mux *http.ServeMux, auth *AuthHandlers, ui *UIHandlers) {
	anon := RequireAnonOnly

	mux.Handle("GET /login", anon(http.HandlerFunc(auth.LoginPage)))
	mux.Handle("POST /login", anon(http.HandlerFunc(auth.LoginSubmit)))
	mux.Handle("GET /register", anon(http.HandlerFunc(auth.RegisterPage)))
	mux.Handle("POST /register", anon(http.HandlerFunc(auth.RegisterSubmit)))

	mux.Handle("POST /auth/logout", http.HandlerFunc(auth.Logout))
	mux.Handle("GET /auth/signed-out", http.HandlerFunc(ui.SignedOut))
	mux.Handle("GET /auth/status", http.HandlerFunc(auth.Status))
	mux.Handle("POST /auth/dismiss-error", http.HandlerFunc(auth.DismissError))
	mux.Handle("GET /unauthorized", http.HandlerFunc(ui.Unauthorized))
}

func registerComplaintRoutes(mux *http.ServeMux, ui *UIHandlers) {
	wrap := RequireAuthBrowser

	mux.Handle("GET /{$}", wrap(http.HandlerFunc(ui.Dashboard)))
	mux.Handle("GET /dashboard", wrap(http.HandlerFunc(ui.Dashboard)))
	mux.Handle("GET /profile", wrap(http.HandlerFunc(ui.ProfilePage)))
	mux.Handle("POST /profile", wrap(http.HandlerFunc(ui.ProfileUpdate)))
	mux.Handle("POST /profile/password", wrap(http.HandlerFunc(ui.ProfilePassword)))
	mux.Handle("GET /complaints", wrap(http.HandlerFunc(ui.ComplaintsList)))
	mux.Handle("GET /complaints/new", wrap(http.HandlerFunc(ui.ComplaintNew)))
	mux.Handle("POST /complaints", wrap(http.HandlerFunc(ui.ComplaintCreate)))
	mux.Handle("GET /complaints/{id}", wrap(http.HandlerFunc(ui.ComplaintView)))
	mux.Handle("GET /complaints/{id}/edit", wrap(http.HandlerFunc(ui.ComplaintEdit)))
	mux.Handle("POST /complaints/{id}", wrap(http.HandlerFunc(ui.ComplaintUpdate)))
	mux.Handle("POST /complaints/{id}/delete", wrap(http.HandlerFunc(ui.ComplaintDelete)))
}

func registerAdminRoutes(mux *http.ServeMux, ui *UIHandlers) {
	wrap := RequireRoleBrowser(domainauth.RoleAdmin)

	mux.Handle("GET /admin/complaints", wrap(http.HandlerFunc(ui.AdminComplaints)))
	mux.Handle("POST /admin/complaints/{id}/status", wrap(http.HandlerFunc(ui.AdminComplaintStatus)))
	mux.Handle("GET /admin/users", wrap(http.HandlerFunc(ui.AdminUsers)))
	mux.Handle("GET /admin/users/new", wrap(http.HandlerFunc(ui.AdminUserNew)))
	mux.Handle("POST /admin/users", wrap(http.HandlerFunc(ui.AdminUserCreate)))
	mux.Handle("GET /admin/users/{id}/edit", wrap(http.HandlerFunc(ui.AdminUserEdit)))
	mux.Handle("POST /admin/users/{id}", wrap(http.HandlerFunc(ui.AdminUserUpdate)))
	mux.Handle("POST /admin/users/{id}/delete", wrap(http.HandlerFunc(ui.AdminUserDelete)))
}

// notFoundHandler intercepts the mux's plain 404 and renders the branded
// not-found page instead.
func notFoundHandler(mux *http.ServeMux, ui *UIHandlers) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &captureWriter{ResponseWriter: w}
		mux.ServeHTTP(cw, r)
		if cw.capturedNotFound {
			ui.NotFound(w, r)
			return
		}
		cw.flush()
	})
}

// captureWriter buffers the response until the status is known, so a 404
// body from the mux can be discarded and replaced.
type captureWriter struct {
	http.ResponseWriter
	status           int
	body             []byte
	wroteHeader      bool
	capturedNotFound bool
}

func (cw *captureWriter) WriteHeader(code int) {
	if cw.wroteHeader {
		return
	}
	cw.wroteHeader = true
	cw.status = code
	cw.capturedNotFound = code == http.StatusNotFound
}

func (cw *captureWriter) Write(p []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	if cw.capturedNotFound {
		return len(p), nil
	}
	cw.body = append(cw.body, p...)
	return len(p), nil
}

func (cw *captureWriter) flush() {
	if !cw.wroteHeader {
		cw.status = http.StatusOK
	}
	cw.ResponseWriter.WriteHeader(cw.status)
	if len(cw.body) > 0 {
		_, _ = cw.ResponseWriter.Write(cw.body)
	}
}
