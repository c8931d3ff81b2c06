package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/launchpad/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/launchpad/internal/services/admin/storage"
	"github.com/louisbranch/launchpad/internal/services/admin/storage/sqlite/migrations"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

// Store provides a SQLite-backed store implementing admin storage interfaces.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens a SQLite store at the provided path and applies migrations.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, sqlitemigrate.Options{Logger: &logger}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	return s.sqlDB.PingContext(ctx)
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetCounter loads a counter by name.
func (s *Store) GetCounter(ctx context.Context, name string) (storage.Counter, error) {
	if err := requireName(name); err != nil {
		return storage.Counter{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, "SELECT name, value, updated_at FROM counters WHERE name = ?", name)
	counter, err := scanCounter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Counter{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Counter{}, fmt.Errorf("get counter %s: %w", name, err)
	}
	return counter, nil
}

// AddCounter adds delta to the counter, creating it when missing.
func (s *Store) AddCounter(ctx context.Context, name string, delta int64, at time.Time) (storage.Counter, error) {
	if err := requireName(name); err != nil {
		return storage.Counter{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `
INSERT INTO counters (name, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET value = value + excluded.value, updated_at = excluded.updated_at
RETURNING name, value, updated_at`,
		name, delta, formatTime(at),
	)
	counter, err := scanCounter(row)
	if err != nil {
		return storage.Counter{}, fmt.Errorf("add counter %s: %w", name, err)
	}
	return counter, nil
}

// ResetCounter sets the counter to zero, creating it when missing.
func (s *Store) ResetCounter(ctx context.Context, name string, at time.Time) (storage.Counter, error) {
	if err := requireName(name); err != nil {
		return storage.Counter{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `
INSERT INTO counters (name, value, updated_at) VALUES (?, 0, ?)
ON CONFLICT(name) DO UPDATE SET value = 0, updated_at = excluded.updated_at
RETURNING name, value, updated_at`,
		name, formatTime(at),
	)
	counter, err := scanCounter(row)
	if err != nil {
		return storage.Counter{}, fmt.Errorf("reset counter %s: %w", name, err)
	}
	return counter, nil
}

func scanCounter(row *sql.Row) (storage.Counter, error) {
	var (
		counter   storage.Counter
		updatedAt string
	)
	if err := row.Scan(&counter.Name, &counter.Value, &updatedAt); err != nil {
		return storage.Counter{}, err
	}
	parsed, err := time.Parse(timeFormat, updatedAt)
	if err != nil {
		return storage.Counter{}, fmt.Errorf("parse updated_at: %w", err)
	}
	counter.UpdatedAt = parsed
	return counter, nil
}

func formatTime(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	return at.UTC().Format(timeFormat)
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("counter name is required")
	}
	return nil
}
