package schema

import (
	"fmt"
	"strings"

	"tablegen/internal/common"
)

// FieldType describes the shape of a field value. The set of implementations
// is closed: Integer, Float, String, Array and Object.
type FieldType interface {
	fmt.Stringer
	fieldType()
}

// Integer is an integral scalar.
type Integer struct{}

// Float is a floating-point scalar.
type Float struct{}

// String is a text scalar.
type String struct{}

// Array is a homogeneous sequence. Elem is nil while only empty arrays have
// been seen for the field.
type Array struct {
	Elem FieldType
}

// Object is a nested record whose members keep first-seen order.
type Object struct {
	Fields *common.OrderedMap[string, FieldType]
}

func (Integer) fieldType() {}
func (Float) fieldType()   {}
func (String) fieldType()  {}
func (Array) fieldType()   {}
func (Object) fieldType()  {}

func (Integer) String() string { return "Integer" }
func (Float) String() string   { return "Float" }
func (String) String() string  { return "String" }

func (a Array) String() string {
	if a.Elem == nil {
		return "Array(?)"
	}

	return "Array(" + a.Elem.String() + ")"
}

func (o Object) String() string {
	if o.Fields == nil {
		return "Object{}"
	}

	parts := make([]string, 0, o.Fields.Len())
	for _, k := range o.Fields.Keys() {
		t, _ := o.Fields.Get(k)
		parts = append(parts, k+": "+t.String())
	}

	return "Object{" + strings.Join(parts, ", ") + "}"
}

// Equal reports whether a and b describe the same shape. Object members are
// compared by name regardless of order.
func Equal(a, b FieldType) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case Integer:
		_, ok := b.(Integer)
		return ok
	case Float:
		_, ok := b.(Float)
		return ok
	case String:
		_, ok := b.(String)
		return ok
	case Array:
		bb, ok := b.(Array)
		return ok && Equal(a.Elem, bb.Elem)
	case Object:
		bb, ok := b.(Object)
		if !ok || objectLen(a) != objectLen(bb) {
			return false
		}

		if a.Fields == nil {
			return true
		}

		for _, k := range a.Fields.Keys() {
			at, _ := a.Fields.Get(k)

			bt, ok := bb.Fields.Get(k)
			if !ok || !Equal(at, bt) {
				return false
			}
		}

		return true
	default:
		panic(fmt.Sprintf("schema: unknown field type %T", a))
	}
}

func objectLen(o Object) int {
	if o.Fields == nil {
		return 0
	}

	return o.Fields.Len()
}
