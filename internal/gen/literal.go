package gen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tablegen/internal/diagnostic"
	"tablegen/internal/schema"
	"tablegen/internal/source"
)

// untypedArrayElem is the element type of arrays that were only ever empty.
const untypedArrayElem = "any"

// goType returns the Go type of a field. nested is the struct name used for
// an object field.
func goType(t schema.FieldType, nested string) string {
	switch t := t.(type) {
	case schema.Integer:
		return "int64"
	case schema.Float:
		return "float64"
	case schema.String:
		return "string"
	case schema.Array:
		if t.Elem == nil {
			return "[]" + untypedArrayElem
		}

		return "[]" + goType(t.Elem, "")
	case schema.Object:
		return nested
	default:
		panic(fmt.Sprintf("gen: unknown field type %T", t))
	}
}

// literalWriter renders authored values as Go literals and records the
// imports those literals need.
type literalWriter struct {
	imports map[string]importSpec
}

// literal renders v, a value of field type t. nested is the struct name
// used for an object field.
func (w *literalWriter) literal(t schema.FieldType, v source.Value, nested string) (string, error) {
	switch t := t.(type) {
	case schema.Integer:
		i, ok := v.(source.Int)
		if !ok {
			return "", mismatch(t, v)
		}

		return strconv.FormatInt(int64(i), 10), nil
	case schema.Float:
		f, ok := v.(source.Float)
		if !ok {
			return "", mismatch(t, v)
		}

		return w.float(float64(f)), nil
	case schema.String:
		s, ok := v.(source.String)
		if !ok {
			return "", mismatch(t, v)
		}

		return strconv.Quote(string(s)), nil
	case schema.Array:
		list, ok := v.(source.List)
		if !ok {
			return "", mismatch(t, v)
		}

		items := make([]string, 0, len(list))
		for _, item := range list {
			lit, err := w.literal(t.Elem, item, "")
			if err != nil {
				return "", err
			}

			items = append(items, lit)
		}

		return goType(t, "") + "{" + strings.Join(items, ", ") + "}", nil
	case schema.Object:
		m, ok := v.(*source.Map)
		if !ok {
			return "", mismatch(t, v)
		}

		parts := make([]string, 0, m.Len())
		for _, k := range t.Fields.Keys() {
			mv, ok := m.Get(k)
			if !ok {
				continue
			}

			kt, _ := t.Fields.Get(k)

			lit, err := w.literal(kt, mv, "")
			if err != nil {
				return "", err
			}

			parts = append(parts, memberName(k)+": "+lit)
		}

		return nested + "{" + strings.Join(parts, ", ") + "}", nil
	default:
		panic(fmt.Sprintf("gen: unknown field type %T", t))
	}
}

// float renders f so that it is unambiguously a floating-point literal.
func (w *literalWriter) float(f float64) string {
	switch {
	case math.IsNaN(f):
		w.use("math")
		return "math.NaN()"
	case math.IsInf(f, 1):
		w.use("math")
		return "math.Inf(1)"
	case math.IsInf(f, -1):
		w.use("math")
		return "math.Inf(-1)"
	case f == 0 && math.Signbit(f):
		w.use("math")
		return "math.Copysign(0, -1)"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

func (w *literalWriter) use(path string) {
	w.imports[path] = importSpec{Path: path}
}

func mismatch(t schema.FieldType, v source.Value) error {
	return diagnostic.Newf(diagnostic.KindInternal,
		"value %s does not match inferred type %s", source.Describe(v), t)
}
