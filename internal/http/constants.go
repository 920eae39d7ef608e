package httpx

// Page identifiers used for nav highlighting and content template lookup.
const (
	PageDashboard       = "dashboard"
	PageComplaints      = "complaints"
	PageComplaintForm   = "complaint-form"
	PageComplaintView   = "complaint-view"
	PageAdminComplaints = "admin-complaints"
	PageAdminUsers      = "admin-users"
	PageAdminUserForm   = "admin-user-form"
	PageLogin           = "login"
	PageRegister        = "register"
	PageProfile         = "profile"
)

// contentTemplates maps page identifiers to their content template names.
var contentTemplates = map[string]string{
	PageDashboard:       "dashboard-content",
	PageComplaints:      "complaints-content",
	PageComplaintForm:   "complaint-form-content",
	PageComplaintView:   "complaint-view-content",
	PageAdminComplaints: "admin-complaints-content",
	PageAdminUsers:      "admin-users-content",
	PageAdminUserForm:   "admin-user-form-content",
	PageLogin:           "login-content",
	PageRegister:        "register-content",
	PageProfile:         "profile-content",
}

// ContentTemplateFor returns the content template name for a page identifier,
// defaulting to the dashboard content when unknown.
func ContentTemplateFor(page string) string {
	if name, ok := contentTemplates[page]; ok {
		return name
	}
	return contentTemplates[PageDashboard]
}

// FormMode distinguishes create from edit when rendering shared form
// templates.
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// DefaultSessionCookieName is the browser session cookie this service issues.
// The value is an opaque UUID; all state lives server-side.
const DefaultSessionCookieName = "esess_id"
