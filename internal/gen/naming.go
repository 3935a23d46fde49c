package gen

import (
	"tablegen/internal/common"
	"tablegen/internal/diagnostic"
	"tablegen/internal/schema"
)

// tableNames holds the package-level identifiers generated for a table.
type tableNames struct {
	Type   string // record struct, e.g. Plants
	ID     string // enum type, e.g. PlantsID
	Items  string // record array, e.g. PlantsItems
	ByName string // lookup function, e.g. PlantsByName
	Names  string // unexported name table, e.g. plantsNames
}

func namesFor(t *schema.Table) tableNames {
	typeName := t.TypeName()

	return tableNames{
		Type:   typeName,
		ID:     typeName + "ID",
		Items:  typeName + "Items",
		ByName: typeName + "ByName",
		Names:  common.LowerFirst(typeName) + "Names",
	}
}

// fileSuffix ends every generated file name. A stem ending in _test or in
// a GOOS or GOARCH name would otherwise turn the file into a test file or
// restrict it to one platform.
const fileSuffix = "_gen.go"

// fileName returns the file generated for a table, e.g. plants_gen.go.
func fileName(t *schema.Table) string {
	return common.SnakeName(t.Name) + fileSuffix
}

// entryConst returns the ID constant of an entry, e.g. PlantsMarigold.
func entryConst(t *schema.Table, entry string) string {
	name, _ := common.GoName(entry)
	return t.TypeName() + name
}

// nestedTypeName returns the struct generated for an object field, e.g.
// PlantsOrigin.
func nestedTypeName(t *schema.Table, field string) string {
	name, _ := common.GoName(field)
	return t.TypeName() + name
}

// memberName returns the struct member generated for a field or key.
func memberName(field string) string {
	name, _ := common.GoName(field)
	return name
}

// checkDeclarations reports the first package-level identifier declared
// twice across all tables, or two tables generating the same file.
func checkDeclarations(tables []*schema.Table) error {
	declared := make(map[string]string)
	files := make(map[string]string)

	declare := func(t *schema.Table, ident, what string) error {
		owner := t.Name + " " + what
		if prev, dup := declared[ident]; dup {
			return diagnostic.Newf(diagnostic.KindNaming,
				"generated identifier %s is declared by both %s and %s", ident, prev, owner).
				InTable(t.Name).From(t.Origin)
		}

		declared[ident] = owner

		return nil
	}

	for _, t := range tables {
		name := fileName(t)
		if prev, dup := files[name]; dup {
			return diagnostic.Newf(diagnostic.KindNaming,
				"tables %q and %q both generate file %s", prev, t.Name, name).
				InTable(t.Name).From(t.Origin)
		}

		files[name] = t.Name

		n := namesFor(t)

		for _, d := range [][2]string{
			{n.Type, "record type"},
			{n.ID, "ID type"},
			{n.Items, "items"},
			{n.ByName, "lookup"},
			{n.Names, "name table"},
		} {
			if err := declare(t, d[0], d[1]); err != nil {
				return err
			}
		}

		for _, e := range t.EntryNames.Items() {
			if err := declare(t, entryConst(t, e), "entry "+e); err != nil {
				return err
			}
		}

		for _, f := range t.Fields.Keys() {
			ft, _ := t.Fields.Get(f)
			if _, ok := ft.(schema.Object); !ok {
				continue
			}

			if err := declare(t, nestedTypeName(t, f), "object field "+f); err != nil {
				return err
			}
		}
	}

	return nil
}
