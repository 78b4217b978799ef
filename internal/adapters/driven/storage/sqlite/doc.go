// Package sqlite provides a SQLite-based implementation of driven.DrawStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// A draw row owns its pairs; participants are stored as JSON so rules such as
// spouse and exclusions survive for later --avoid-repeats runs.
//
// # Data Location
//
// By default, the database is stored at ~/.santa/data/draws.db
package sqlite
