// Package postgres provides the Postgres-backed persistent store. Queries are
// shared with the sqlite adapter through sqlstore; this package owns the pgx
// driver registration, pool tuning and Postgres error normalization.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"eaccore/internal/infra/persistence/sqlstore"
	"eaccore/internal/persistence/schema"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/eaccore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists registry records in Postgres.
type Store struct {
	*sqlstore.Store
}

// Dialect returns the Postgres dialect used by sqlstore.
func Dialect() sqlstore.Dialect {
	return sqlstore.Dialect{
		Name:        "postgres",
		Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		WrapError:   wrapError,
		DDL:         schema.Postgres(),
	}
}

// NewStore opens a pooled connection (falls back to defaultDSN), pings it and
// applies the DDL bundle.
func NewStore(ctx context.Context, dsn string, opts ...sqlstore.Option) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(20)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	store := sqlstore.New(db, Dialect(), opts...)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Store: store}, nil
}

// pgMessage exposes the server-side message of a PgError so domain.MessageOf
// reports it instead of the SQLSTATE-decorated string.
type pgMessage struct {
	err *pgconn.PgError
}

func (m *pgMessage) Error() string        { return m.err.Error() }
func (m *pgMessage) Unwrap() error        { return m.err }
func (m *pgMessage) ErrorMessage() string { return m.err.Message }

func wrapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &pgMessage{err: pgErr}
	}
	return err
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
