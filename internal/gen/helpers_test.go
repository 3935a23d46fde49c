package gen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"

	"tablegen/internal/schema"
	"tablegen/internal/source"
)

// unit is one authored source unit for a test registry.
type unit struct {
	origin string
	data   string
}

// buildRegistry parses and validates the units like a generation pass does.
func buildRegistry(t *testing.T, units ...unit) *schema.Registry {
	t.Helper()

	reg := schema.NewRegistry()

	for _, u := range units {
		su, err := source.Parse(u.origin, []byte(u.data))
		require.NoError(t, err)

		tbl, err := schema.Parse(su)
		require.NoError(t, err)
		require.NoError(t, reg.Add(tbl))
	}

	require.NoError(t, schema.Validate(reg))

	return reg
}

func generate(t *testing.T, cfg GeneratorConfig, units ...unit) ([]GeneratedFile, *Generator) {
	t.Helper()

	g := NewGenerator(cfg)
	files, err := g.Generate(buildRegistry(t, units...))
	require.NoError(t, err)

	return files, g
}

func fileByTable(t *testing.T, files []GeneratedFile, table string) string {
	t.Helper()

	for _, f := range files {
		if f.Table == table {
			return string(f.Content)
		}
	}

	t.Fatalf("no file generated for table %s", table)

	return ""
}

// typeCheck parses the generated files as one package and type-checks them
// against the standard library sources.
func typeCheck(t *testing.T, files []GeneratedFile) *types.Package {
	t.Helper()

	fset := token.NewFileSet()

	parsed := make([]*ast.File, 0, len(files))
	for _, f := range files {
		af, err := parser.ParseFile(fset, f.Filename, f.Content, parser.ParseComments)
		require.NoError(t, err, string(f.Content))

		parsed = append(parsed, af)
	}

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}

	pkg, err := conf.Check("tables", fset, parsed, nil)
	require.NoError(t, err)

	return pkg
}
