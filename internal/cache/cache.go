// Package cache stores raw API payloads for a limited time.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thinkscotty/cfdash/internal/config"
)

// Cache is a byte-oriented TTL cache.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// New builds the cache backend named by cfg.Backend. It returns a nil Cache
// for "none" and "".
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		slog.Info("Using in-memory response cache", "ttl", cfg.TTL())
		return NewMemory(), nil
	case "redis":
		c, err := NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		slog.Info("Using redis response cache", "addr", cfg.RedisAddr, "ttl", cfg.TTL())
		return c, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
