// Package db provides store connection management for pgedge-salesagent.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pgEdge/pgedge-salesagent/internal/logging"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqliteDSNParams are applied to every SQLite connection.
const sqliteDSNParams = "?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"

// ErrStoreAccess marks failures to create, open or write the store.
var ErrStoreAccess = errors.New("store access failed")

// Config selects and locates the store.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver string

	// Path is the SQLite database file.
	Path string

	// Connection is the PostgreSQL connection string.
	Connection string
}

// Store is an open database handle and the dialect used to talk to it.
type Store struct {
	DB      *sql.DB
	Dialect Dialect

	// Target names the store in logs: a file path or a host/database pair.
	Target string
}

// NewStore wraps an existing handle.
func NewStore(sqlDB *sql.DB, dialect Dialect) *Store {
	return &Store{DB: sqlDB, Dialect: dialect, Target: dialect.Name()}
}

// Open establishes a connection to the configured store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	var dsn, target string
	switch cfg.Driver {
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: sqlite path is empty", ErrStoreAccess)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: create directory for %s: %w", ErrStoreAccess, cfg.Path, err)
		}
		dsn = cfg.Path + sqliteDSNParams
		target = cfg.Path
	case DriverPostgres:
		connConfig, err := pgx.ParseConfig(cfg.Connection)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connection string: %w", err)
		}
		dsn = cfg.Connection
		target = fmt.Sprintf("%s:%d/%s", connConfig.Host, connConfig.Port, connConfig.Database)
	}

	logging.Debug().
		Str("driver", cfg.Driver).
		Str("target", target).
		Msg("Opening store")

	sqlDB, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStoreAccess, target, err)
	}

	// Verify connection
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrStoreAccess, target, err)
	}

	if cfg.Driver == DriverSQLite {
		// One writer; avoids SQLITE_BUSY between pooled connections.
		sqlDB.SetMaxOpenConns(1)
	}

	logging.Info().
		Str("driver", cfg.Driver).
		Str("target", target).
		Msg("Connected to store")

	return &Store{DB: sqlDB, Dialect: dialect, Target: target}, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.DB.Close()
}

// TableExists reports whether the named table exists in the store.
func (s *Store) TableExists(ctx context.Context, name string) (bool, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, s.Dialect.TableExistsSQL(), name).Scan(&n); err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return n > 0, nil
}

// TableCounts returns row counts for the named tables that exist.
// Missing tables are left out of the result.
func (s *Store) TableCounts(ctx context.Context, names []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(names))
	for _, name := range names {
		ok, err := s.TableExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var n int64
		if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+name).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		counts[name] = n
	}
	return counts, nil
}
