// Package diagnostic provides the error taxonomy and the structured
// diagnostics surfaced by a tablegen generation pass.
//
// Key capabilities:
//   - Typed compile errors (structural, naming, type, reference, internal)
//     carrying the table, entry and field they relate to
//   - Severity-tagged diagnostics for informational tracing, warnings
//     and errors
//   - Conversion from returned errors into diagnostics for the host
package diagnostic
