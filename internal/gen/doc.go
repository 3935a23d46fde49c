// Package gen provides deterministic Go code generation for validated table
// schemas.
//
// Generation approach uses text/template plus golang.org/x/tools/imports
// formatting for readable Go code. One file is emitted per table, in
// dependency order, containing:
//   - An ID type with one constant per entry, in authored order
//   - The record struct, with a pointer member per reference field
//   - One nested struct per object field
//   - A statically initialized array of records indexed by ID, with every
//     reference resolved to the referenced table's array element
package gen
