package config

import "strings"

// RedisConfig contains Redis connection configuration for the session store.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// Sanitize normalises Redis configuration values.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	if c.URI == "" {
		c.URI = "localhost:6379"
	}
}
