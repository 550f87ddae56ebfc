// Package quotelog persists every submitted quote with its metrics.
package quotelog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leonardotrapani/quotevoice/internal/logging"
	"github.com/leonardotrapani/quotevoice/internal/metrics"
)

// TimeLayout is how timestamps are written to every backend.
const TimeLayout = "2006-01-02 15:04:05"

const (
	BackendXLSX   = "xlsx"
	BackendSQLite = "sqlite"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Entry is one row of the quote log.
type Entry struct {
	Timestamp time.Time
	Quote     string
	Metrics   metrics.Metrics
}

// Table is the full quote log in insertion order.
type Table []Entry

// Store reads and rewrites the whole quote log.
type Store interface {
	Load(ctx context.Context) (Table, error)
	Save(ctx context.Context, table Table) error
	Close() error
}

// Open returns the store for backend at path, creating parent directories.
func Open(backend, path string) (Store, error) {
	if path == "" {
		p, err := DefaultPath(backend)
		if err != nil {
			return nil, err
		}
		path = p
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	switch backend {
	case BackendXLSX, "":
		return NewXLSXStore(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}

// DefaultPath places the log under the user's data directory.
func DefaultPath(backend string) (string, error) {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".local", "share")
	}

	name := "quotes.xlsx"
	if backend == BackendSQLite {
		name = "quotes.db"
	}
	return filepath.Join(dir, "quotevoice", name), nil
}

// LoadOrEmpty never fails: a missing, unreadable or corrupt log reads as empty.
func LoadOrEmpty(ctx context.Context, store Store) Table {
	table, err := store.Load(ctx)
	if err != nil {
		log := logging.For("quotelog")
		log.Warn().Err(err).Msg("quote log unreadable, starting empty")
		return Table{}
	}
	if table == nil {
		return Table{}
	}
	return table
}

// Append loads the log, adds entry at the end and writes it back.
// Two writers appending at the same time can lose one of the entries.
func Append(ctx context.Context, store Store, entry Entry) error {
	table := LoadOrEmpty(ctx, store)
	table = append(table, entry)
	if err := store.Save(ctx, table); err != nil {
		return fmt.Errorf("save quote log: %w", err)
	}
	return nil
}
