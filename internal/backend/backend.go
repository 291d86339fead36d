// Package backend selects and constructs the persistence backend.
package backend

import (
	"fmt"
	"log/slog"

	"ledger/internal/store"
	"ledger/internal/store/memory"
	"ledger/internal/store/sqlite"
)

// Type names a persistence backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string { return string(t) }

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds what backend construction needs.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Result contains the store and an optional cleanup function.
type Result struct {
	Store   store.Store
	Cleanup func() error
}

// Factory creates stores based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the configured store.
func (f *Factory) Create(cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLiteBackend:
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &Result{Store: memory.New(), Cleanup: nil}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
