// Package kv provides the key-value medium that creations, the session
// snapshot and the theme state are persisted to.
//
// Every backend stores opaque byte values under string keys and supports
// prefix scans. Callers own the encoding; backends never interpret values.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotFound is returned by Get when a key is absent.
var ErrNotFound = errors.New("kv: key not found")

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store is a key-value medium. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys returns every key starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	DataDir     string
	PostgresDSN string
}

// Open creates the Store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFileStore(filepath.Join(opts.DataDir, "kv"))
	case BackendSQLite, "":
		return NewSQLite(filepath.Join(opts.DataDir, "brickworld.db"))
	case BackendPostgres:
		if opts.PostgresDSN == "" {
			return nil, fmt.Errorf("kv: postgres backend requires a DSN")
		}
		return NewPostgres(ctx, opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("kv: unknown backend %q: must be one of: memory, file, sqlite, postgres", opts.Backend)
	}
}
