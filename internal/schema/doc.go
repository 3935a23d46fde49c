// Package schema turns decoded source units into typed table schemas and
// checks them as a whole.
//
// The pipeline has two passes. Parse inspects one unit and produces a Table:
// entry names, a FieldType per field inferred and unified across every
// record, and the set of cross-table references the records declare. All
// tables of a generation pass are then collected in a Registry, and only
// once every unit is parsed does Validate check that each reference names an
// existing table and entry, and that references do not form cycles.
//
// # Records
//
// Every record needs a string "Name", which becomes the entry identifier.
// Keys of the form "Ref-<Table>-<Field>" declare a reference field named
// <Field> whose string value names an entry of <Table>. Any other key is a
// field whose type is inferred:
//
//   - integers, floats and strings are scalars
//   - arrays hold scalars of one type; empty arrays defer the element type
//   - objects hold scalar members; their shape is the union of every
//     object seen for the field, but a member may never change type
//
// Containers inside containers are rejected.
package schema
