// Package sqlite provides the embedded SQLite persistent store built on the
// pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"eaccore/internal/infra/persistence/sqlstore"
	"eaccore/internal/persistence/schema"
)

const defaultPath = "eaccore.db"

// Store persists registry records in a single SQLite file.
type Store struct {
	*sqlstore.Store
	path string
}

// Dialect returns the SQLite dialect used by sqlstore. Timestamps are stored
// as fixed-width UTC text so ORDER BY created_at sorts chronologically.
func Dialect() sqlstore.Dialect {
	return sqlstore.Dialect{
		Name:       "sqlite",
		TimeAsText: true,
		DDL:        schema.SQLite(),
	}
}

// NewStore opens (creating when needed) the database file and applies the DDL bundle.
func NewStore(ctx context.Context, path string, opts ...sqlstore.Option) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY under the update transaction.
	db.SetMaxOpenConns(1)
	store := sqlstore.New(db, Dialect(), opts...)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Store: store, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }
