// Package sqldb stores restaurant containers as JSON documents in a SQL
// table. PostgreSQL (lib/pq) and SQLite (modernc) are supported.
package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // registers the "postgres" driver
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/kailas-cloud/platefinder/internal/db"
)

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Table is the name of the container table.
const Table = "restaurant_containers"

// Config holds connection parameters for a SQL store.
type Config struct {
	Driver string
	DSN    string
}

// Document is one stored container row.
type Document struct {
	ID   string `db:"id"`
	Body string `db:"document"`
}

// Store reads container documents through sqlx.
type Store struct {
	db *sqlx.DB
}

// NewStore opens a connection pool. It does not touch the network until the
// first query; call WaitForReady to block until the database answers.
func NewStore(cfg Config) (*Store, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	conn, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == DriverSQLite {
		// a single connection keeps :memory: databases shared and avoids
		// SQLITE_BUSY on file databases
		conn.SetMaxOpenConns(1)
	}
	return &Store{db: conn}, nil
}

// NewStoreFromDB wraps an existing sqlx handle.
func NewStoreFromDB(conn *sqlx.DB) *Store {
	return &Store{db: conn}
}

// EnsureSchema creates the container table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := `CREATE TABLE IF NOT EXISTS ` + Table + ` (
		id TEXT PRIMARY KEY,
		document TEXT NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return &db.Error{Op: db.OpSchema, Err: err}
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// ListDocuments returns every container row ordered by id.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	query := `SELECT id, document FROM ` + Table + ` ORDER BY id`
	if err := s.db.SelectContext(ctx, &docs, query); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return docs, nil
}
