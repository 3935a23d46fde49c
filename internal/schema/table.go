package schema

import (
	"tablegen/internal/common"
	"tablegen/internal/source"
)

// Entry is one named record of a table.
type Entry struct {
	// Name is the entry identifier as authored.
	Name string
	// Record is the raw decoded record.
	Record *source.Map
	// Values holds the record's field values in authored order, excluding
	// Name and references.
	Values *common.OrderedMap[string, source.Value]
	// Refs maps a local reference field to the referenced entry name.
	Refs *common.OrderedMap[string, string]
}

// Table is the schema of one table together with its entries. It is built
// by Parse and not modified afterwards.
type Table struct {
	// Name is the table name; it is unique within a Registry.
	Name string
	// Origin names the source unit the table was parsed from.
	Origin string
	// EntryNames lists entry names in authored order.
	EntryNames *common.OrderedSet[string]
	// Entries maps an entry name to its record.
	Entries map[string]*Entry
	// Fields maps a field name to its type, in first-seen order.
	Fields *common.OrderedMap[string, FieldType]
	// ArrayElementTypes caches the element type of array fields whose
	// element type is known.
	ArrayElementTypes map[string]FieldType
	// NestedObjectShapes caches the member types of object fields.
	NestedObjectShapes map[string]*common.OrderedMap[string, FieldType]
	// RefFields maps a target table to every entry name referenced in it.
	RefFields *common.OrderedMap[string, *common.OrderedSet[string]]
	// RefFieldNames maps a local reference field to its target table.
	RefFieldNames *common.OrderedMap[string, string]

	// goNames maps a generated member identifier to the authored field or
	// reference name that claimed it.
	goNames map[string]string
	// entryGoNames does the same for entry identifiers.
	entryGoNames map[string]string
	// columns maps a lower-cased field or reference name to its authored
	// form; SQL column names ignore case.
	columns map[string]string
}

// NewTable returns an empty table.
func NewTable(name, origin string) *Table {
	return &Table{
		Name:               name,
		Origin:             origin,
		EntryNames:         common.NewOrderedSet[string](),
		Entries:            make(map[string]*Entry),
		Fields:             common.NewOrderedMap[string, FieldType](),
		ArrayElementTypes:  make(map[string]FieldType),
		NestedObjectShapes: make(map[string]*common.OrderedMap[string, FieldType]),
		RefFields:          common.NewOrderedMap[string, *common.OrderedSet[string]](),
		RefFieldNames:      common.NewOrderedMap[string, string](),
		goNames:            make(map[string]string),
		entryGoNames:       make(map[string]string),
		columns:            make(map[string]string),
	}
}

// TypeName returns the Go type name generated for the table.
func (t *Table) TypeName() string {
	name, _ := common.GoName(t.Name)
	return name
}

// OrderedEntries returns the entries in authored order.
func (t *Table) OrderedEntries() []*Entry {
	out := make([]*Entry, 0, t.EntryNames.Len())
	for _, name := range t.EntryNames.Items() {
		out = append(out, t.Entries[name])
	}

	return out
}

// Referrer returns the first entry, and its local field, that references
// entry name of table target.
func (t *Table) Referrer(target, name string) (*Entry, string) {
	for _, e := range t.OrderedEntries() {
		for _, local := range e.Refs.Keys() {
			if tt, _ := t.RefFieldNames.Get(local); tt != target {
				continue
			}

			if v, _ := e.Refs.Get(local); v == name {
				return e, local
			}
		}
	}

	return nil, ""
}

// LocalsFor returns the reference fields that target table target.
func (t *Table) LocalsFor(target string) []string {
	var out []string

	for _, local := range t.RefFieldNames.Keys() {
		if tt, _ := t.RefFieldNames.Get(local); tt == target {
			out = append(out, local)
		}
	}

	return out
}

// Targets returns the distinct tables referenced by t, in first-seen order.
func (t *Table) Targets() []string {
	return t.RefFields.Keys()
}
