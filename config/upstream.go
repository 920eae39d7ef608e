package config

import (
	"strings"
	"time"
)

// UpstreamConfig contains the upstream complaint API connection settings.
type UpstreamConfig struct {
	// BaseURL is the upstream API root, e.g. "http://localhost:3000".
	BaseURL string `env:"UPSTREAM_BASE_URL" envDefault:"http://localhost:3000"`

	// CookieName is the session cookie name the upstream API issues.
	CookieName string `env:"UPSTREAM_COOKIE_NAME" envDefault:"Authorization"`

	// Timeout bounds each upstream request.
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
}

// Sanitize normalises upstream configuration values.
func (c *UpstreamConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.CookieName = strings.TrimSpace(c.CookieName)
	if c.CookieName == "" {
		c.CookieName = "Authorization"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}
