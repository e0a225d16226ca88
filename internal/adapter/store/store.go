// Package store persists user preferences and run history.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"packdeck/internal/domain"
	"packdeck/internal/infra/config"
)

// Store is the combined persistence port used by the application.
type Store interface {
	domain.PreferenceStore
	domain.RunHistory
	Close() error
}

var (
	_ Store = (*SQLite)(nil)
	_ Store = (*Memory)(nil)
)

// Open returns the backend selected by cfg.Driver.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemory(), nil
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create store dir: %w", err)
			}
		}
		return NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}
