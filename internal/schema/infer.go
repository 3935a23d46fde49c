package schema

import (
	"fmt"

	"tablegen/internal/common"
	"tablegen/internal/diagnostic"
	"tablegen/internal/source"
)

// Infer maps a decoded value to its FieldType. Arrays and objects are only
// accepted when allowNested is set; their members are inferred with it
// cleared, so containers never hold containers.
func Infer(v source.Value, allowNested bool) (FieldType, error) {
	switch v := v.(type) {
	case source.Int:
		return Integer{}, nil
	case source.Float:
		return Float{}, nil
	case source.String:
		return String{}, nil
	case source.List:
		if !allowNested {
			return nil, diagnostic.Newf(diagnostic.KindType,
				"cannot use complex nested fields: array inside a container")
		}

		var elem FieldType

		for i, item := range v {
			t, err := Infer(item, false)
			if err != nil {
				return nil, err
			}

			if elem == nil {
				elem = t
				continue
			}

			if !Equal(elem, t) {
				return nil, diagnostic.Newf(diagnostic.KindType,
					"array element %d is %s, expected %s", i, t, elem)
			}
		}

		return Array{Elem: elem}, nil
	case *source.Map:
		if !allowNested {
			return nil, diagnostic.Newf(diagnostic.KindType,
				"cannot use complex nested fields: object inside a container")
		}

		shape := common.NewOrderedMap[string, FieldType]()

		for _, m := range v.Members {
			t, err := Infer(m.Value, false)
			if err != nil {
				return nil, err
			}

			shape.Set(m.Key, t)
		}

		return Object{Fields: shape}, nil
	default:
		kind := "<nil>"
		if v != nil {
			kind = v.Kind()
		}

		return nil, diagnostic.Newf(diagnostic.KindType, "unsupported value kind %s", kind)
	}
}

// Unify merges incoming into existing, the type accumulated so far for a
// field (nil when the field is new). It returns the merged type without
// modifying either argument:
//   - scalars must be identical
//   - arrays must agree on the element type once both know it
//   - objects grow by union but a member may not change type
func Unify(existing, incoming FieldType) (FieldType, error) {
	if existing == nil {
		return incoming, nil
	}

	switch ex := existing.(type) {
	case Integer, Float, String:
		if !Equal(existing, incoming) {
			return nil, mismatch(existing, incoming)
		}

		return existing, nil
	case Array:
		in, ok := incoming.(Array)
		if !ok {
			return nil, mismatch(existing, incoming)
		}

		switch {
		case in.Elem == nil:
			return ex, nil
		case ex.Elem == nil:
			return in, nil
		case Equal(ex.Elem, in.Elem):
			return ex, nil
		}

		return nil, diagnostic.Newf(diagnostic.KindType,
			"conflicting array element type: %s vs %s", ex.Elem, in.Elem)
	case Object:
		in, ok := incoming.(Object)
		if !ok {
			return nil, mismatch(existing, incoming)
		}

		merged := ex.Fields.Clone()

		for _, k := range in.Fields.Keys() {
			t, _ := in.Fields.Get(k)

			prev, ok := merged.Get(k)
			if !ok {
				merged.Set(k, t)
				continue
			}

			if !Equal(prev, t) {
				return nil, diagnostic.Newf(diagnostic.KindType,
					"conflicting type for object key %q: %s vs %s", k, prev, t)
			}
		}

		return Object{Fields: merged}, nil
	default:
		panic(fmt.Sprintf("schema: unknown field type %T", existing))
	}
}

func mismatch(existing, incoming FieldType) error {
	return diagnostic.Newf(diagnostic.KindType, "conflicting field type: %s vs %s", existing, incoming)
}
