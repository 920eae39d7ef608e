package bootstrap

import (
	"log/slog"

	"github.com/ecotrack/ecotrack-ui/config"
	"github.com/ecotrack/ecotrack-ui/internal/adapters/upstream"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
	"github.com/ecotrack/ecotrack-ui/internal/service"
)

// ServiceDeps contains the dependencies needed to construct services.
type ServiceDeps struct {
	Config   *config.AppConfig
	Sessions ports.SessionStore
	Logger   *slog.Logger
}

// ServiceContainer holds the application services.
type ServiceContainer struct {
	Upstream   *upstream.Client
	Sessions   *service.SessionService
	Complaints *service.ComplaintService
	Admin      *service.AdminService
	Profile    *service.ProfileService
}

// NewServices constructs the upstream client and all application services.
func NewServices(deps *ServiceDeps) ServiceContainer {
	cfg := deps.Config

	client := upstream.NewClient(upstream.Options{
		BaseURL:    cfg.Upstream.BaseURL,
		CookieName: cfg.Upstream.CookieName,
		Timeout:    cfg.Upstream.Timeout,
	})

	sessions := service.NewSessionService(service.SessionServiceOptions{
		Sessions: deps.Sessions,
		Auth:     client,
		Config: service.SessionConfig{
			TTL:    cfg.Session.TTL,
			Logger: deps.Logger,
		},
	})

	complaints := service.NewComplaintService(service.ComplaintServiceOptions{
		Complaints: client,
		Categories: client,
	})

	admin := service.NewAdminService(service.AdminServiceOptions{
		Admin: client,
		Auth:  client,
	})

	profile := service.NewProfileService(service.ProfileServiceOptions{
		Profile:  client,
		Sessions: deps.Sessions,
	})

	return ServiceContainer{
		Upstream:   client,
		Sessions:   sessions,
		Complaints: complaints,
		Admin:      admin,
		Profile:    profile,
	}
}
