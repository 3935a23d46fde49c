package schema

import (
	"errors"
	"strings"

	"tablegen/internal/diagnostic"
)

// Validate checks every reference in r and returns the first problem found.
func Validate(r *Registry) error {
	var first error

	walkReferences(r, func(err error) bool {
		first = err
		return false
	})

	return first
}

// ValidateAll checks every reference in r and returns all problems found,
// in table registration order.
func ValidateAll(r *Registry) []error {
	var errs []error

	walkReferences(r, func(err error) bool {
		errs = append(errs, err)
		return true
	})

	return errs
}

// walkReferences reports each reference problem to yield until it returns
// false. Missing tables and entries are reported first, then cycles.
func walkReferences(r *Registry, yield func(error) bool) {
	for _, t := range r.Tables() {
		for _, target := range t.Targets() {
			names, _ := t.RefFields.Get(target)

			tt, ok := r.Get(target)
			if !ok {
				err := diagnostic.Newf(diagnostic.KindReference, "no such table %q", target).
					InTable(t.Name).AtField(strings.Join(t.LocalsFor(target), ",")).From(t.Origin)
				if !yield(err) {
					return
				}

				continue
			}

			for _, name := range names.Items() {
				if tt.EntryNames.Has(name) {
					continue
				}

				err := diagnostic.Newf(diagnostic.KindReference, "no such entry %q in table %q", name, target).
					InTable(t.Name).From(t.Origin)
				if e, local := t.Referrer(target, name); e != nil {
					err.InEntry(e.Name).AtField(local)
				}

				if !yield(err) {
					return
				}
			}
		}
	}

	if _, err := Order(r); err != nil {
		yield(err)
	}
}

// Order returns the tables of r so that every referenced table comes before
// the tables referencing it. Ties keep registration order. References to
// missing tables are ignored here. A cycle, including a table referencing
// itself, is a ReferenceError.
func Order(r *Registry) ([]*Table, error) {
	tables := r.Tables()

	index := make(map[string]int, len(tables))
	for i, t := range tables {
		index[t.Name] = i
	}

	order, err := topoSort(len(tables), func(i int) []int {
		var deps []int

		for _, target := range tables[i].Targets() {
			if j, ok := index[target]; ok {
				deps = append(deps, j)
			}
		}

		return deps
	})
	if err != nil {
		var ce *cycleError
		if !errors.As(err, &ce) {
			return nil, err
		}

		names := make([]string, len(ce.nodes))
		for k, i := range ce.nodes {
			names[k] = tables[i].Name
		}

		first := tables[ce.nodes[0]]

		return nil, diagnostic.Newf(diagnostic.KindReference,
			"reference cycle among tables %s; references are resolved eagerly and cannot be cyclic",
			strings.Join(names, ", ")).InTable(first.Name).From(first.Origin)
	}

	out := make([]*Table, len(order))
	for k, i := range order {
		out[k] = tables[i]
	}

	return out, nil
}
