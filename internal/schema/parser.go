package schema

import (
	"errors"
	"strings"

	"tablegen/internal/common"
	"tablegen/internal/diagnostic"
	"tablegen/internal/source"
)

const (
	// NameKey is the record key holding the entry identifier.
	NameKey = "Name"
	// RefPrefix marks a reference key: Ref-<Table>-<Field>.
	RefPrefix = "Ref-"
)

// Parse builds the Table described by one source unit. The unit must have a
// single top-level key, the table name, mapped to an array of records.
func Parse(u *source.Unit) (*Table, error) {
	t, err := parseUnit(u)
	if err != nil {
		var e *diagnostic.Error
		if errors.As(err, &e) && e.Origin == "" {
			e.From(u.Origin)
		}

		return nil, err
	}

	return t, nil
}

func parseUnit(u *source.Unit) (*Table, error) {
	root, ok := u.Root.(*source.Map)
	if !ok {
		return nil, diagnostic.Newf(diagnostic.KindStructural,
			"source unit must be an object with one key, found %s", describe(u.Root))
	}

	if root.Len() != 1 {
		return nil, diagnostic.Newf(diagnostic.KindStructural,
			"source unit must contain exactly one top-level key, found %d", root.Len())
	}

	name := root.Members[0].Key

	records, ok := root.Members[0].Value.(source.List)
	if !ok {
		return nil, diagnostic.Newf(diagnostic.KindStructural,
			"table must be an array of records, found %s", describe(root.Members[0].Value)).InTable(name)
	}

	if _, ok := common.GoName(name); !ok {
		return nil, diagnostic.Newf(diagnostic.KindNaming,
			"table name %q is not usable as a Go identifier", name).InTable(name)
	}

	t := NewTable(name, u.Origin)

	for i, item := range records {
		rec, ok := item.(*source.Map)
		if !ok {
			return nil, diagnostic.Newf(diagnostic.KindStructural,
				"record %d must be an object, found %s", i, describe(item)).InTable(name)
		}

		if err := t.addEntry(i, rec); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Table) addEntry(index int, rec *source.Map) error {
	v, ok := rec.Get(NameKey)
	if !ok {
		return diagnostic.Newf(diagnostic.KindNaming,
			"record %d has no %q", index, NameKey).InTable(t.Name)
	}

	s, ok := v.(source.String)
	if !ok {
		return diagnostic.Newf(diagnostic.KindNaming,
			"record %d: %q must be a string, found %s", index, NameKey, describe(v)).InTable(t.Name)
	}

	name := string(s)

	goName, ok := common.GoName(name)
	if !ok {
		return diagnostic.Newf(diagnostic.KindNaming,
			"entry name %q is not usable as a Go identifier", name).InTable(t.Name).InEntry(name)
	}

	if !t.EntryNames.Add(name) {
		return diagnostic.Newf(diagnostic.KindNaming, "duplicated name %q", name).InTable(t.Name).InEntry(name)
	}

	if prev, dup := t.entryGoNames[goName]; dup {
		return diagnostic.Newf(diagnostic.KindNaming,
			"entry names %q and %q both map to %s", prev, name, goName).InTable(t.Name).InEntry(name)
	}

	t.entryGoNames[goName] = name

	entry := &Entry{
		Name:   name,
		Record: rec,
		Values: common.NewOrderedMap[string, source.Value](),
		Refs:   common.NewOrderedMap[string, string](),
	}

	for _, m := range rec.Members {
		if m.Key == NameKey {
			continue
		}

		var err *diagnostic.Error
		if strings.HasPrefix(m.Key, RefPrefix) {
			err = t.addRef(entry, m.Key, m.Value)
		} else {
			err = t.addField(entry, m.Key, m.Value)
		}

		if err != nil {
			return err.InTable(t.Name).InEntry(name)
		}
	}

	t.Entries[name] = entry

	return nil
}

func (t *Table) addRef(e *Entry, key string, v source.Value) *diagnostic.Error {
	parts := strings.Split(key, "-")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return diagnostic.Newf(diagnostic.KindReference,
			"malformed reference key %q, expected %s<Table>-<Field>", key, RefPrefix).AtField(key)
	}

	target, local := parts[1], parts[2]

	s, ok := v.(source.String)
	if !ok {
		return diagnostic.Newf(diagnostic.KindReference,
			"reference must name an entry of %q as a string, found %s", target, describe(v)).AtField(local)
	}

	if t.Fields.Has(local) {
		return diagnostic.Newf(diagnostic.KindReference,
			"reference field %q collides with a field of the same name", local).AtField(local)
	}

	prev, known := t.RefFieldNames.Get(local)
	if known && prev != target {
		return diagnostic.Newf(diagnostic.KindReference,
			"reference field %q already targets table %q, not %q", local, prev, target).AtField(local)
	}

	if !known {
		if err := t.claimGoName(local); err != nil {
			return err
		}

		t.RefFieldNames.Set(local, target)
	}

	names, ok := t.RefFields.Get(target)
	if !ok {
		names = common.NewOrderedSet[string]()
		t.RefFields.Set(target, names)
	}

	names.Add(string(s))
	e.Refs.Set(local, string(s))

	return nil
}

func (t *Table) addField(e *Entry, key string, v source.Value) *diagnostic.Error {
	if t.RefFieldNames.Has(key) {
		return diagnostic.Newf(diagnostic.KindReference,
			"field %q collides with a reference field of the same name", key).AtField(key)
	}

	incoming, err := Infer(v, true)
	if err != nil {
		return asError(err).AtField(key)
	}

	existing, known := t.Fields.Get(key)

	merged, err := Unify(existing, incoming)
	if err != nil {
		return asError(err).AtField(key)
	}

	if !known {
		if err := t.claimGoName(key); err != nil {
			return err
		}
	}

	switch merged := merged.(type) {
	case Array:
		if merged.Elem != nil {
			t.ArrayElementTypes[key] = merged.Elem
		}
	case Object:
		if err := checkMemberNames(merged); err != nil {
			return err.AtField(key)
		}

		t.NestedObjectShapes[key] = merged.Fields
	}

	t.Fields.Set(key, merged)
	e.Values.Set(key, v)

	return nil
}

// claimGoName reserves the struct member identifier, and the
// case-insensitive column name, of a field or reference field.
func (t *Table) claimGoName(member string) *diagnostic.Error {
	goName, ok := common.GoName(member)
	if !ok {
		return diagnostic.Newf(diagnostic.KindNaming,
			"field name %q is not usable as a Go identifier", member).AtField(member)
	}

	if strings.EqualFold(member, NameKey) {
		return diagnostic.Newf(diagnostic.KindNaming,
			"field name %q collides with the %q key", member, NameKey).AtField(member)
	}

	folded := strings.ToLower(member)
	if prev, dup := t.columns[folded]; dup && prev != member {
		return diagnostic.Newf(diagnostic.KindNaming,
			"fields %q and %q differ only in case", prev, member).AtField(member)
	}

	if prev, dup := t.goNames[goName]; dup && prev != member {
		return diagnostic.Newf(diagnostic.KindNaming,
			"fields %q and %q both map to %s", prev, member, goName).AtField(member)
	}

	t.goNames[goName] = member
	t.columns[folded] = member

	return nil
}

func checkMemberNames(o Object) *diagnostic.Error {
	seen := make(map[string]string, o.Fields.Len())

	for _, k := range o.Fields.Keys() {
		goName, ok := common.GoName(k)
		if !ok {
			return diagnostic.Newf(diagnostic.KindNaming,
				"object key %q is not usable as a Go identifier", k)
		}

		if prev, dup := seen[goName]; dup {
			return diagnostic.Newf(diagnostic.KindNaming,
				"object keys %q and %q both map to %s", prev, k, goName)
		}

		seen[goName] = k
	}

	return nil
}

func asError(err error) *diagnostic.Error {
	var e *diagnostic.Error
	if errors.As(err, &e) {
		return e
	}

	return diagnostic.Newf(diagnostic.KindInternal, "%v", err)
}

func describe(v source.Value) string {
	if v == nil {
		return "nothing"
	}

	return v.Kind() + " " + source.Describe(v)
}
