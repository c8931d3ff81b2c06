package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultCounter names the counter shown on the dashboard.
const DefaultCounter = "app-store"

// ErrNotFound is returned when a counter has never been written.
var ErrNotFound = errors.New("record not found")

// Counter is a named integer with its last write time.
type Counter struct {
	Name      string
	Value     int64
	UpdatedAt time.Time
}

// CounterStore persists named counters.
type CounterStore interface {
	// GetCounter returns ErrNotFound for an unknown name.
	GetCounter(ctx context.Context, name string) (Counter, error)
	// AddCounter adds delta to the counter, creating it at zero first.
	AddCounter(ctx context.Context, name string, delta int64, at time.Time) (Counter, error)
	// ResetCounter sets the counter to zero.
	ResetCounter(ctx context.Context, name string, at time.Time) (Counter, error)
}

// Store is a composite interface for admin storage concerns.
type Store interface {
	CounterStore
	Ping(ctx context.Context) error
	Close() error
}
