package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Get when the slot has never been written.
var ErrNotFound = errors.New("storage: slot not found")

// Storage は名前付きスロットにバイト列を保存する永続化層のインターフェース。
// ローカルファイル、bbolt、SQLite、PostgreSQL の実装に差し替え可能。
type Storage interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key. Readers observe either the
	// previous value or the new one, never a partial write.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Driver names accepted by Open.
const (
	DriverLocal    = "local"
	DriverBolt     = "bolt"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Driver string
	// Path is a directory for local, a database file for bolt and sqlite.
	Path string
	// DSN is the connection string for postgres.
	DSN string
}

// Open creates the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Driver {
	case DriverLocal, "":
		return NewLocalStorage(opts.Path)
	case DriverBolt:
		return NewBoltStorage(inDir(opts.Path, "contactos.db"))
	case DriverSQLite:
		return NewSQLiteStorage(ctx, inDir(opts.Path, "contactos.sqlite"))
	case DriverPostgres:
		pool, err := NewPool(ctx, opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: connect postgres: %w", err)
		}
		return NewPostgresStorage(pool), nil
	case DriverMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}

// inDir places the database file name inside path when path is a directory,
// so one STORE_PATH works for every driver.
func inDir(path, name string) string {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return filepath.Join(path, name)
	}
	return path
}
