// Package export writes a validated registry to other storage formats.
//
// WriteSQLite creates one SQLite table per registry table, keyed by entry
// name, with reference fields declared as foreign keys. Arrays and objects
// are stored as JSON text.
package export
