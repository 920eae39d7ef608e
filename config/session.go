package config

import (
	"strings"
	"time"
)

// Session store backends.
const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// SessionConfig contains browser session configuration.
type SessionConfig struct {
	// Store selects the session store backend: "redis" or "memory".
	// The memory store is for local development only.
	Store string `env:"SESSION_STORE" envDefault:"redis"`

	// TTL bounds how long an idle browser session record lives.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// CookieName is the browser session cookie name.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"esess_id"`

	// CookieDomain scopes the session cookie. Empty means host-only.
	CookieDomain string `env:"SESSION_COOKIE_DOMAIN" envDefault:""`

	// CookieSecure forces the Secure attribute even on plain HTTP.
	CookieSecure bool `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
}

// Sanitize normalises session configuration values.
func (c *SessionConfig) Sanitize() {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	if c.Store != SessionStoreMemory {
		c.Store = SessionStoreRedis
	}
	if c.TTL <= 0 {
		c.TTL = 12 * time.Hour
	}
	c.CookieName = strings.TrimSpace(c.CookieName)
	if c.CookieName == "" {
		c.CookieName = "esess_id"
	}
	c.CookieDomain = strings.TrimSpace(c.CookieDomain)
}
