package httpx

import (
	"net/http"
)

// PageMeta describes a page for the layout template.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// TemplateDataBuilder assembles the data map handed to templates, seeded
// with the session and CSRF context every page needs.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData seeds a builder with layout data derived from the request.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithError marks the page as failed and sets the banner message.
func (b *TemplateDataBuilder) WithError(message string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = message
	return b
}

// WithFieldErrors attaches field-level validation errors keyed by form field.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With sets an arbitrary key.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the accumulated data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// basePageData constructs the common page data map with session context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
		"IsAdmin":         false,
	}

	if token := CSRFTokenFromContext(r.Context()); token != "" {
		data["CSRFToken"] = token
	}

	if state := GetSessionFromContext(r.Context()); state != nil {
		data["IsAuthenticated"] = state.Authenticated
		data["IsAdmin"] = state.IsAdmin()
		if state.Identity != nil {
			data["User"] = state.Identity
		}
		if state.Error != "" {
			data["SessionError"] = state.Error
		}
	}

	return data
}
