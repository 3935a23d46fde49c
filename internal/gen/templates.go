package gen

import "text/template"

// importSpec is one import of a generated file.
type importSpec struct {
	Alias string
	Path  string
}

// templateData holds all data needed for the table template.
type templateData struct {
	PackageName      string
	Filename         string
	Table            string
	Origin           string
	Imports          []importSpec
	Names            tableNames
	GenerateComments bool
	Entries          []entryData
	Members          []memberData
	Nested           []nestedData
}

// entryData is one entry: its ID constant and the member literals of its
// record.
type entryData struct {
	Name   string
	Quoted string
	Const  string
	Values []valueData
}

// memberData is one struct member declaration.
type memberData struct {
	Name string
	Type string
	Tag  string
}

// nestedData is the struct generated for an object field.
type nestedData struct {
	Name    string
	Field   string
	Members []memberData
}

// valueData is one member assignment inside a record literal.
type valueData struct {
	Name    string
	Literal string
}

var tableTemplate = template.Must(template.New("table").Parse(`// Code generated by tablegen. DO NOT EDIT.
{{- if .Origin}}
// Source: {{.Origin}}
{{- end}}

package {{.PackageName}}

{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{if .GenerateComments}}// {{.Names.ID}} identifies an entry of the {{.Table}} table.
{{end}}type {{.Names.ID}} int

const (
{{- range $i, $e := .Entries}}
	{{$e.Const}}{{if eq $i 0}} {{$.Names.ID}} = iota{{end}}
{{- end}}
)

var {{.Names.Names}} = [...]string{
{{- range .Entries}}
	{{.Const}}: {{.Quoted}},
{{- end}}
}

{{if .GenerateComments}}// String returns the entry name as authored.
{{end}}func (id {{.Names.ID}}) String() string {
	if id < 0 || int(id) >= len({{.Names.Names}}) {
		return "{{.Names.ID}}(" + strconv.Itoa(int(id)) + ")"
	}

	return {{.Names.Names}}[id]
}

{{if .GenerateComments}}// {{.Names.ByName}} returns the {{.Table}} entry with the given authored name.
{{end}}func {{.Names.ByName}}(name string) (*{{.Names.Type}}, bool) {
	for id, n := range {{.Names.Names}} {
		if n == name {
			return &{{.Names.Items}}[id], true
		}
	}

	return nil, false
}

{{if .GenerateComments}}// {{.Names.Type}} is one record of the {{.Table}} table.
{{end}}type {{.Names.Type}} struct {
{{- range .Members}}
	{{.Name}} {{.Type}} {{.Tag}}
{{- end}}
}
{{range .Nested}}
{{if $.GenerateComments}}// {{.Name}} is the shape of {{$.Names.Type}}.{{.Field}}.
{{end}}type {{.Name}} struct {
{{- range .Members}}
	{{.Name}} {{.Type}} {{.Tag}}
{{- end}}
}
{{end}}
{{if .GenerateComments}}// {{.Names.Items}} holds every {{.Table}} entry, indexed by {{.Names.ID}}.
{{end}}var {{.Names.Items}} = [...]{{.Names.Type}}{
{{- range .Entries}}
	{{.Const}}: {
{{- range .Values}}
		{{.Name}}: {{.Literal}},
{{- end}}
	},
{{- end}}
}
`))
