// Package storage defines persistence contracts for admin dashboard state.
//
// Handlers depend on these interfaces so they stay testable without a
// concrete SQLite schema.
package storage
