// Package store persists run history and the coin ledger in SQL.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Backend names a supported database.
type Backend string

const (
	SQLite   Backend = "sqlite"
	Postgres Backend = "postgres"
)

// ParseBackend accepts "sqlite" or "postgres" (or "postgresql").
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql":
		return Postgres, nil
	}
	return "", fmt.Errorf("unsupported database backend %q", s)
}

// Store is a SQL-backed run history and coin ledger.
type Store struct {
	db      *sql.DB
	backend Backend
	log     *slog.Logger
}

// Open connects to the database and pings it.
func Open(backend Backend, dsn string) (*Store, error) {
	var driverName string
	switch backend {
	case SQLite:
		driverName = "sqlite"
		if dsn == "" {
			dsn = "aimtrain.db"
		}
	case Postgres:
		driverName = "postgres"
		if dsn == "" {
			return nil, fmt.Errorf("postgres backend needs a DSN")
		}
	default:
		return nil, fmt.Errorf("unsupported database backend %q", backend)
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if backend == SQLite {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	s := &Store{db: db, backend: backend, log: slog.Default()}
	s.log.Info("connected to database", "backend", backend)
	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Backend returns the database kind.
func (s *Store) Backend() Backend { return s.backend }

// Migrate applies every embedded migration in name order. Migrations are
// idempotent and run on every start.
func (s *Store) Migrate() error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations dir: %w", err)
	}
	for _, entry := range entries {
		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", entry.Name(), err)
		}
		s.log.Debug("applied migration", "name", entry.Name())
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.backend != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
