// Package common holds small helpers shared by the tablegen packages:
// insertion-ordered collections and Go identifier naming.
package common

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"
