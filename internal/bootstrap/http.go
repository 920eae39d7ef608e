package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	ecotrack "github.com/ecotrack/ecotrack-ui"
	"github.com/ecotrack/ecotrack-ui/config"
	httpx "github.com/ecotrack/ecotrack-ui/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer builds the router and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, fmt.Errorf("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	templateFS, err := fs.Sub(ecotrack.TemplateFS, "web/templates")
	if err != nil {
		return nil, fmt.Errorf("template fs: %w", err)
	}
	staticFS, err := fs.Sub(ecotrack.StaticFS, "web/static")
	if err != nil {
		return nil, fmt.Errorf("static fs: %w", err)
	}

	renderer, err := httpx.NewTemplateRenderer(httpx.TemplateRendererConfig{
		TemplateFS:     templateFS,
		DevMode:        appCfg.IsDev,
		DevTemplateDir: "web/templates",
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	services := httpx.RouterServices{
		Sessions:   cfg.Services.Sessions,
		Complaints: cfg.Services.Complaints,
		Admin:      cfg.Services.Admin,
		Profile:    cfg.Services.Profile,
		Renderer:   renderer,
		StaticFS:   staticFS,
		Cookies: httpx.CookieConfig{
			Name:   appCfg.Session.CookieName,
			Domain: appCfg.Session.CookieDomain,
			Secure: appCfg.Session.CookieSecure,
		},
		IsDev:  appCfg.IsDev,
		Logger: logger,
	}

	// Order: Recover -> Logging -> Compression -> Router
	var handler http.Handler = httpx.NewRouter(services)
	handler = httpx.Compression(handler)
	handler = httpx.Logging(logger)(handler)
	handler = httpx.Recover(logger)(handler)

	server := &http.Server{
		Addr:         appCfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  appCfg.HTTP.ReadTimeout,
		WriteTimeout: appCfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server, nil
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, cfg config.HTTPConfig, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}
