// Package storage provides the durable record store for glowtrack.
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/glowtrack/internal/config"
	"github.com/manav03panchal/glowtrack/internal/errors"
)

// DB wraps a Badger database connection.
type DB struct {
	db           *badger.DB
	path         string
	minFreeSpace uint64
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
	// MinFreeSpace is the free space a write requires on the database volume.
	// Zero disables the check.
	MinFreeSpace uint64
}

// DefaultPath returns the default database path following XDG spec.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, config.AppName, "db")
}

// Open opens or creates a database at the given path.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options
	path := ""

	if opts.InMemory || opts.Path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0o700); err != nil {
			if isDiskFullError(err) {
				return nil, errors.NewSystemErrorWithOp("mkdir", "disk full", errors.ErrDiskFull)
			}
			return nil, errors.NewSystemErrorWithOp("open database", err.Error(), err)
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
		path = opts.Path
	}

	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("open database", err.Error(), err)
	}

	return &DB{db: db, path: path, minFreeSpace: opts.MinFreeSpace}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the on-disk directory, or "" for an in-memory database.
func (d *DB) Path() string {
	return d.path
}

// Badger returns the underlying Badger database for advanced operations.
func (d *DB) Badger() *badger.DB {
	return d.db
}
