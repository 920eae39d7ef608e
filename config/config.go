package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - http.go: HTTP server configuration
//   - upstream.go: Upstream complaint API configuration
//   - session.go: Browser session configuration
//   - redis.go: Session store configuration
//   - observability.go: Logging configuration
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading,
	// readable console logs). Set DEV=true or NODE_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	HTTP     HTTPConfig
	Upstream UpstreamConfig
	Session  SessionConfig
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Logging  LoggingConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment
// variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Upstream.Sanitize()
	c.Session.Sanitize()
	c.Logging.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
