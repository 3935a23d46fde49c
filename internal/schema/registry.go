package schema

import (
	"strings"

	"tablegen/internal/common"
	"tablegen/internal/diagnostic"
)

// Registry collects every table of one generation pass. References are only
// resolvable against a complete Registry.
type Registry struct {
	tables    *common.OrderedMap[string, *Table]
	typeNames map[string]string
	// folded maps a lower-cased table name to the table; generated file
	// names and SQL table names ignore case.
	folded map[string]string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tables:    common.NewOrderedMap[string, *Table](),
		typeNames: make(map[string]string),
		folded:    make(map[string]string),
	}
}

// Add registers t. Table names, and the Go type names derived from them,
// must be unique.
func (r *Registry) Add(t *Table) error {
	if prev, ok := r.tables.Get(t.Name); ok {
		return diagnostic.Newf(diagnostic.KindNaming,
			"duplicate table name %q, already declared in %s", t.Name, prev.Origin).
			InTable(t.Name).From(t.Origin)
	}

	folded := strings.ToLower(t.Name)
	if prev, ok := r.folded[folded]; ok {
		return diagnostic.Newf(diagnostic.KindNaming,
			"tables %q and %q differ only in case", prev, t.Name).
			InTable(t.Name).From(t.Origin)
	}

	typeName := t.TypeName()
	if prev, ok := r.typeNames[typeName]; ok {
		return diagnostic.Newf(diagnostic.KindNaming,
			"tables %q and %q both map to type %s", prev, t.Name, typeName).
			InTable(t.Name).From(t.Origin)
	}

	r.tables.Set(t.Name, t)
	r.typeNames[typeName] = t.Name
	r.folded[folded] = t.Name

	return nil
}

// Get returns the table named name.
func (r *Registry) Get(name string) (*Table, bool) {
	return r.tables.Get(name)
}

// Tables returns the tables in registration order.
func (r *Registry) Tables() []*Table {
	out := make([]*Table, 0, r.tables.Len())
	for _, name := range r.tables.Keys() {
		t, _ := r.tables.Get(name)
		out = append(out, t)
	}

	return out
}

// Len returns the number of tables.
func (r *Registry) Len() int {
	return r.tables.Len()
}
