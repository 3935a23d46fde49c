package gen

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/tools/imports"

	"tablegen/internal/diagnostic"
	"tablegen/internal/schema"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is where generated files are written. It is only used here
	// to place debug output when formatting fails; empty disables it.
	OutputDir string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "tables",
		OutputDir:        "./tables",
		GenerateComments: true,
	}
}

// Generator generates Go code from a validated registry.
type Generator struct {
	config GeneratorConfig
	reg    *schema.Registry
	diags  diagnostic.Diagnostics
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "plants_gen.go").
	Filename string
	// Table is the table the file was generated from.
	Table string
	// Content is the formatted Go source code.
	Content []byte
}

// Diagnostics returns the warnings and traces of the last Generate call.
func (g *Generator) Diagnostics() diagnostic.Diagnostics {
	return g.diags
}

// Generate emits one file per table of reg, in dependency order. The
// registry must have passed schema.Validate; it is not modified.
func (g *Generator) Generate(reg *schema.Registry) ([]GeneratedFile, error) {
	g.reg = reg
	g.diags = diagnostic.Diagnostics{}

	tables, err := schema.Order(reg)
	if err != nil {
		return nil, err
	}

	if err := checkDeclarations(tables); err != nil {
		return nil, err
	}

	files := make([]GeneratedFile, 0, len(tables))

	for _, t := range tables {
		file, err := g.generateTable(t)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", t.Name, err)
		}

		g.diags.AddInfo("generated",
			fmt.Sprintf("generated %s with %d entries", file.Filename, t.EntryNames.Len()),
			t.Origin, t.Name)

		files = append(files, *file)
	}

	return files, nil
}

// generateTable generates the file for a single table.
func (g *Generator) generateTable(t *schema.Table) (*GeneratedFile, error) {
	data, err := g.buildTemplateData(t)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tableTemplate.Execute(&buf, data); err != nil {
		return nil, diagnostic.Newf(diagnostic.KindInternal, "executing template: %v", err).
			InTable(t.Name).From(t.Origin)
	}

	formatted, err := imports.Process(data.Filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		// Best-effort: keep the unformatted code around to aid debugging.
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, data.Filename, buf.Bytes())
		}

		return nil, diagnostic.Newf(diagnostic.KindInternal, "formatting code: %v", err).
			InTable(t.Name).From(t.Origin)
	}

	return &GeneratedFile{
		Filename: data.Filename,
		Table:    t.Name,
		Content:  formatted,
	}, nil
}

// buildTemplateData constructs the template data for a table.
func (g *Generator) buildTemplateData(t *schema.Table) (*templateData, error) {
	data := &templateData{
		PackageName:      g.config.PackageName,
		Filename:         fileName(t),
		Table:            t.Name,
		Origin:           t.Origin,
		Names:            namesFor(t),
		GenerateComments: g.config.GenerateComments,
	}

	lw := &literalWriter{imports: map[string]importSpec{
		"strconv": {Path: "strconv"},
	}}

	for _, f := range t.Fields.Keys() {
		ft, _ := t.Fields.Get(f)

		nested := ""
		if obj, ok := ft.(schema.Object); ok {
			nested = nestedTypeName(t, f)
			data.Nested = append(data.Nested, g.buildNested(nested, f, obj))
		}

		if arr, ok := ft.(schema.Array); ok && arr.Elem == nil {
			g.diags.AddWarning("untyped_array",
				fmt.Sprintf("field %q only holds empty arrays; declared as []%s", f, untypedArrayElem),
				t.Origin, t.Name+"."+f)
		}

		data.Members = append(data.Members, memberData{
			Name: memberName(f),
			Type: goType(ft, nested),
			Tag:  jsonTag(f),
		})
	}

	for _, local := range t.RefFieldNames.Keys() {
		target, err := g.target(t, local)
		if err != nil {
			return nil, err
		}

		data.Members = append(data.Members, memberData{
			Name: memberName(local),
			Type: "*" + target.TypeName(),
			Tag:  jsonTag(local),
		})
	}

	for _, e := range t.OrderedEntries() {
		entry, err := g.buildEntry(t, e, lw)
		if err != nil {
			return nil, err
		}

		data.Entries = append(data.Entries, entry)
	}

	// Convert imports map to sorted slice
	for _, imp := range lw.imports {
		data.Imports = append(data.Imports, imp)
	}

	sort.Slice(data.Imports, func(i, j int) bool {
		return data.Imports[i].Path < data.Imports[j].Path
	})

	return data, nil
}

func (g *Generator) buildNested(name, field string, obj schema.Object) nestedData {
	nd := nestedData{Name: name, Field: memberName(field)}

	for _, k := range obj.Fields.Keys() {
		kt, _ := obj.Fields.Get(k)
		nd.Members = append(nd.Members, memberData{
			Name: memberName(k),
			Type: goType(kt, ""),
			Tag:  jsonTag(k),
		})
	}

	return nd
}

// buildEntry renders the record literal of one entry. Fields the entry does
// not set are left out and keep their zero value.
func (g *Generator) buildEntry(t *schema.Table, e *schema.Entry, lw *literalWriter) (entryData, error) {
	ed := entryData{
		Name:   e.Name,
		Quoted: strconv.Quote(e.Name),
		Const:  entryConst(t, e.Name),
	}

	for _, f := range t.Fields.Keys() {
		v, ok := e.Values.Get(f)
		if !ok {
			continue
		}

		ft, _ := t.Fields.Get(f)

		lit, err := lw.literal(ft, v, nestedTypeName(t, f))
		if err != nil {
			return entryData{}, fmt.Errorf("entry %s field %s: %w", e.Name, f, err)
		}

		ed.Values = append(ed.Values, valueData{Name: memberName(f), Literal: lit})
	}

	for _, local := range t.RefFieldNames.Keys() {
		name, ok := e.Refs.Get(local)
		if !ok {
			continue
		}

		target, err := g.target(t, local)
		if err != nil {
			return entryData{}, err
		}

		if !target.EntryNames.Has(name) {
			return entryData{}, diagnostic.Newf(diagnostic.KindReference,
				"no such entry %q in table %q", name, target.Name).
				InTable(t.Name).InEntry(e.Name).AtField(local).From(t.Origin)
		}

		ed.Values = append(ed.Values, valueData{
			Name:    memberName(local),
			Literal: "&" + namesFor(target).Items + "[" + entryConst(target, name) + "]",
		})
	}

	return ed, nil
}

// target returns the table a reference field points at.
func (g *Generator) target(t *schema.Table, local string) (*schema.Table, error) {
	name, _ := t.RefFieldNames.Get(local)

	target, ok := g.reg.Get(name)
	if !ok {
		return nil, diagnostic.Newf(diagnostic.KindReference, "no such table %q", name).
			InTable(t.Name).AtField(local).From(t.Origin)
	}

	return target, nil
}

func jsonTag(name string) string {
	return "`json:" + strconv.Quote(name) + "`"
}
