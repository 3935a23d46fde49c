package gen

import (
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablegen/internal/source"
)

// itemsLiteral returns, per entry constant, the members set by the Items
// array of a generated file.
func itemsLiteral(t *testing.T, content []byte, items string) map[string]map[string]ast.Expr {
	t.Helper()

	f, err := parser.ParseFile(token.NewFileSet(), "gen.go", content, 0)
	require.NoError(t, err)

	out := make(map[string]map[string]ast.Expr)

	ast.Inspect(f, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok || len(vs.Names) != 1 || vs.Names[0].Name != items {
			return true
		}

		lit, ok := vs.Values[0].(*ast.CompositeLit)
		require.True(t, ok)

		for _, elt := range lit.Elts {
			kv := elt.(*ast.KeyValueExpr)
			rec := kv.Value.(*ast.CompositeLit)

			members := make(map[string]ast.Expr)
			for _, m := range rec.Elts {
				mkv := m.(*ast.KeyValueExpr)
				members[mkv.Key.(*ast.Ident).Name] = mkv.Value
			}

			out[kv.Key.(*ast.Ident).Name] = members
		}

		return false
	})

	return out
}

// readBack evaluates a generated literal expression into int64, float64,
// string, []any or, for struct literals, map[string]any keyed by member.
func readBack(t *testing.T, e ast.Expr) any {
	t.Helper()

	switch e := e.(type) {
	case *ast.CompositeLit:
		if len(e.Elts) > 0 {
			if _, ok := e.Elts[0].(*ast.KeyValueExpr); ok {
				out := make(map[string]any, len(e.Elts))
				for _, elt := range e.Elts {
					kv := elt.(*ast.KeyValueExpr)
					out[kv.Key.(*ast.Ident).Name] = readBack(t, kv.Value)
				}

				return out
			}
		}

		if _, ok := e.Type.(*ast.ArrayType); !ok {
			return map[string]any{}
		}

		out := make([]any, 0, len(e.Elts))
		for _, elt := range e.Elts {
			out = append(out, readBack(t, elt))
		}

		return out
	case *ast.UnaryExpr:
		require.Equal(t, token.SUB, e.Op)

		switch v := readBack(t, e.X).(type) {
		case int64:
			return -v
		case float64:
			return -v
		default:
			t.Fatalf("cannot negate %T", v)
		}
	case *ast.BasicLit:
		switch e.Kind {
		case token.INT:
			n, exact := constant.Int64Val(constant.MakeFromLiteral(e.Value, e.Kind, 0))
			require.True(t, exact, e.Value)

			return n
		case token.FLOAT:
			f, _ := constant.Float64Val(constant.MakeFromLiteral(e.Value, e.Kind, 0))
			return f
		case token.STRING:
			s, err := strconv.Unquote(e.Value)
			require.NoError(t, err)

			return s
		}
	}

	t.Fatalf("unexpected literal %T", e)

	return nil
}

// authored converts a source value the way readBack sees it.
func authored(v source.Value) any {
	switch v := v.(type) {
	case source.Int:
		return int64(v)
	case source.Float:
		return float64(v)
	case source.String:
		return string(v)
	case source.List:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, authored(item))
		}

		return out
	case *source.Map:
		out := make(map[string]any, v.Len())
		for _, m := range v.Members {
			out[memberName(m.Key)] = authored(m.Value)
		}

		return out
	default:
		return nil
	}
}

func TestGenerator_Generate_RoundTrip(t *testing.T) {
	reg := buildRegistry(t, unit{"stats.yaml", `
stats:
  - Name: small
    Count: -3
    Ratio: 0.1
    Label: "tab\there \"quoted\""
    Dims: [1, -2, 3]
    Pos: {x: 1.5, y: -0.25}
  - Name: large
    Count: 9223372036854775807
    Ratio: 1e21
    Label: ünïcødé
    Words: ["", "a b", "\u00e9"]
    Pos: {y: 3.0, label: far}
  - Name: whole
    Count: 0
    Ratio: -2.0
    Label: ""
    Dims: []
    Pos: {}
`})

	files, err := NewGenerator(DefaultGeneratorConfig()).Generate(reg)
	require.NoError(t, err)
	require.Len(t, files, 1)

	tbl, ok := reg.Get("stats")
	require.True(t, ok)

	got := itemsLiteral(t, files[0].Content, "StatsItems")
	require.Len(t, got, 3)

	for _, e := range tbl.OrderedEntries() {
		members, ok := got[entryConst(tbl, e.Name)]
		require.True(t, ok, e.Name)
		assert.Len(t, members, e.Values.Len(), e.Name)

		for _, field := range e.Values.Keys() {
			v, _ := e.Values.Get(field)

			expr, ok := members[memberName(field)]
			require.True(t, ok, "%s.%s", e.Name, field)

			assert.Equal(t, authored(v), readBack(t, expr), "%s.%s", e.Name, field)
		}
	}
}
