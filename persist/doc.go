// Package persist defines the persistence context the services package works
// against, plus the key and staging helpers shared by its implementations.
//
// A Context is a unit of work: Add, Update and Remove only stage changes,
// Commit applies all of them atomically or none of them. Find always reads
// committed state and returns a private copy of the entity.
//
// Implementations:
//   - memstore: in-memory, for tests and the demo command
//   - sqlstore: SQLite through modernc.org/sqlite, schema managed by goose
package persist
