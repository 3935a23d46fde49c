package source

import (
	"strconv"
)

// Value is a decoded value. The set of implementations is closed.
type Value interface {
	// Kind names the value kind for diagnostics.
	Kind() string
	isValue()
}

// Int is an integral scalar.
type Int int64

// Float is a floating-point scalar.
type Float float64

// String is a text scalar.
type String string

// Bool is a boolean scalar.
type Bool bool

// Null is an explicit null.
type Null struct{}

// Unsupported is any scalar the decoder produced that has no Value
// counterpart, e.g. a timestamp or binary blob.
type Unsupported struct {
	Tag  string
	Text string
}

// List is an ordered sequence.
type List []Value

// Member is one key/value pair of a Map.
type Member struct {
	Key   string
	Value Value
}

// Map is a record whose members keep their authored order.
type Map struct {
	Members []Member
}

func (Int) Kind() string           { return "integer" }
func (Float) Kind() string         { return "float" }
func (String) Kind() string        { return "string" }
func (Bool) Kind() string          { return "bool" }
func (Null) Kind() string          { return "null" }
func (u Unsupported) Kind() string { return "unsupported(" + u.Tag + ")" }
func (List) Kind() string          { return "array" }
func (*Map) Kind() string          { return "object" }

func (Int) isValue()         {}
func (Float) isValue()       {}
func (String) isValue()      {}
func (Bool) isValue()        {}
func (Null) isValue()        {}
func (Unsupported) isValue() {}
func (List) isValue()        {}
func (*Map) isValue()        {}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	for _, mem := range m.Members {
		if mem.Key == key {
			return mem.Value, true
		}
	}

	return nil, false
}

// Keys returns the member keys in order.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.Members))
	for i, mem := range m.Members {
		keys[i] = mem.Key
	}

	return keys
}

// Len returns the number of members.
func (m *Map) Len() int {
	return len(m.Members)
}

// Unit is one decoded source unit.
type Unit struct {
	// Origin names where the unit came from, typically a file path.
	Origin string
	// Root is the decoded document.
	Root Value
}

// Describe renders v compactly for diagnostics.
func Describe(v Value) string {
	switch v := v.(type) {
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Float:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case String:
		return strconv.Quote(string(v))
	case Bool:
		return strconv.FormatBool(bool(v))
	case Null:
		return "null"
	case Unsupported:
		return v.Tag + " " + strconv.Quote(v.Text)
	case List:
		return "array of " + strconv.Itoa(len(v))
	case *Map:
		return "object of " + strconv.Itoa(v.Len())
	default:
		return "<nil>"
	}
}
