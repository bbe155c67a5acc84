// Package persistence selects a relational store implementation by driver
// name so callers stay independent of the concrete adapters.
package persistence

import (
	"context"
	"fmt"

	"eaccore/internal/infra/persistence/memory"
	"eaccore/internal/infra/persistence/postgres"
	"eaccore/internal/infra/persistence/sqlite"
	"eaccore/pkg/domain"
)

// Driver identifies a concrete persistent storage implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-memory only (tests / ephemeral)
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server
)

// Valid reports whether d names a supported driver. The empty driver means sqlite.
func (d Driver) Valid() bool {
	switch d {
	case "", DriverMemory, DriverSQLite, DriverPostgres:
		return true
	}
	return false
}

// Config selects and parameterises a store.
type Config struct {
	Driver Driver
	// SQLitePath is the database file when Driver is sqlite (default ./eaccore.db).
	SQLitePath string
	// PostgresDSN is required when Driver is postgres.
	PostgresDSN string
}

// Open builds the store named by cfg.Driver and applies its schema.
func Open(ctx context.Context, cfg Config) (domain.PersistentStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	switch driver {
	case DriverMemory:
		return memory.NewStore(nil), nil
	case DriverSQLite:
		return sqlite.NewStore(ctx, cfg.SQLitePath)
	case DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres driver requires a dsn")
		}
		return postgres.NewStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
