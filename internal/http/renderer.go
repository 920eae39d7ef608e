package httpx

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
)

// TemplateRendererConfig configures template loading.
type TemplateRendererConfig struct {
	// TemplateFS is the template tree, rooted at the directory that holds
	// layout.tmpl.
	TemplateFS fs.FS

	// DevMode reloads templates from DevTemplateDir on every render so
	// edits show up without a restart.
	DevMode        bool
	DevTemplateDir string

	Logger *slog.Logger
}

// TemplateRenderer renders pages from the embedded template set.
type TemplateRenderer struct {
	t      *template.Template
	cfg    TemplateRendererConfig
	logger *slog.Logger
}

// NewTemplateRenderer parses the template set. Parse errors fail startup.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	t, err := parseTemplates(cfg.TemplateFS)
	if err != nil {
		return nil, err
	}

	return &TemplateRenderer{t: t, cfg: cfg, logger: logger}, nil
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	t, err := template.New("root").Funcs(templateFuncs()).
		ParseFS(fsys, "*.tmpl", "pages/*.tmpl", "partials/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// templates returns the active template set, reparsing from disk in dev mode.
func (tr *TemplateRenderer) templates() *template.Template {
	if !tr.cfg.DevMode || tr.cfg.DevTemplateDir == "" {
		return tr.t
	}
	t, err := parseTemplates(os.DirFS(tr.cfg.DevTemplateDir))
	if err != nil {
		tr.logger.Warn("dev template reload failed, using embedded set", "error", err)
		return tr.t
	}
	return t
}

// RenderFull renders a complete page through the layout template. The page's
// content template is selected by CurrentPage and rendered first, so a
// content failure never emits a half page.
func (tr *TemplateRenderer) RenderFull(w http.ResponseWriter, r *http.Request, data any) error {
	m, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("render full page: data must be a map, got %T", data)
	}
	page, _ := m["CurrentPage"].(string)

	var content bytes.Buffer
	if err := tr.templates().ExecuteTemplate(&content, ContentTemplateFor(page), m); err != nil {
		return fmt.Errorf("execute content template for %q: %w", page, err)
	}
	m["Content"] = template.HTML(content.String())

	return tr.renderTemplate(w, "layout", m)
}

// RenderError renders an error page through the minimal error layout.
func (tr *TemplateRenderer) RenderError(w http.ResponseWriter, r *http.Request, data any) error {
	return tr.renderTemplate(w, "error-layout", data)
}

// renderTemplate executes into a buffer first so a template failure cannot
// leave a half-written response.
func (tr *TemplateRenderer) renderTemplate(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := tr.templates().ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute template %q: %w", name, err)
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006 15:04")
		},
		"statusLabel": func(s model.ComplaintStatus) string {
			return s.Display()
		},
		"statusClass": func(s model.ComplaintStatus) string {
			return "status-" + strings.ToLower(strings.ReplaceAll(string(s), "_", "-"))
		},
		"allStatuses": model.AllStatuses,
	}
}
