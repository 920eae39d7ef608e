package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ecotrack/ecotrack-ui/config"
	"github.com/ecotrack/ecotrack-ui/internal/adapters/memory"
	redisstore "github.com/ecotrack/ecotrack-ui/internal/adapters/redis"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// SessionStoreResult bundles the selected session store with the Redis
// client (nil for the memory store) so the caller can close it on shutdown.
type SessionStoreResult struct {
	Store ports.SessionStore
	Redis goredis.UniversalClient
}

// NewSessionStore builds the session store selected by configuration.
// The memory store is only meant for local development; production runs
// against Redis so sessions survive restarts and scale across replicas.
func NewSessionStore(cfg *config.AppConfig, logger *slog.Logger) (SessionStoreResult, error) {
	if cfg == nil {
		return SessionStoreResult{}, errors.New("app config is required")
	}

	if cfg.Session.Store == config.SessionStoreMemory {
		if logger != nil {
			logger.Warn("using in-memory session store", "note", "sessions are lost on restart")
		}
		return SessionStoreResult{Store: memory.NewSessionStore()}, nil
	}

	client, err := ConnectRedis(cfg.Redis, logger)
	if err != nil {
		return SessionStoreResult{}, err
	}

	return SessionStoreResult{
		Store: redisstore.NewSessionStore(client),
		Redis: client,
	}, nil
}

// ConnectRedis establishes a connection to Redis and verifies it with a ping.
//
//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func ConnectRedis(cfg config.RedisConfig, logger *slog.Logger) (goredis.UniversalClient, error) {
	client, addrDesc, err := newDirectClient(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if logger != nil {
		// Log connection without credentials
		if u, parseErr := url.Parse(addrDesc); parseErr == nil && u.User != nil {
			u.User = url.User("*")
			addrDesc = u.Redacted()
		} else if i := strings.LastIndex(addrDesc, "@"); i > -1 {
			addrDesc = addrDesc[i+1:]
		}

		logger.Info("redis connected", "addr", addrDesc)
	}

	return client, nil
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func newDirectClient(cfg config.RedisConfig) (goredis.UniversalClient, string, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, "", errors.New("redis configuration requires a URI")
	}

	if isRedisURL(uri) {
		opt, err := goredis.ParseURL(uri)
		if err != nil {
			return nil, "", fmt.Errorf("parse redis url: %w", err)
		}
		return goredis.NewClient(opt), opt.Addr, nil
	}

	opts := &goredis.Options{
		Addr:     uri,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	return goredis.NewClient(opts), uri, nil
}

func isRedisURL(uri string) bool {
	return strings.HasPrefix(uri, "redis://") || strings.HasPrefix(uri, "rediss://")
}
