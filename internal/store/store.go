// Package store provides the key-value persistence used to keep the
// conversation log between sessions.
package store

import (
	"context"
	"fmt"

	"github.com/comigor/advisor-go/internal/config"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value stored under key; found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open returns the store selected by cfg.Driver.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", config.DriverSQLite:
		return NewSQLite(cfg.Path), nil
	case config.DriverRedis:
		return NewRedis(cfg.RedisAddr), nil
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %q", cfg.Driver)
	}
}
