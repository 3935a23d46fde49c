package common

// OrderedMap is a map that remembers key insertion order.
// The zero value is not usable; create one with NewOrderedMap.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

// Set stores v under k. A new key is appended to the order; an existing key
// keeps its position.
func (m *OrderedMap[K, V]) Set(k K, v V) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}

	m.values[k] = v
}

// Get returns the value stored under k.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

// Has reports whether k is present.
func (m *OrderedMap[K, V]) Has(k K) bool {
	_, ok := m.values[k]
	return ok
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (m *OrderedMap[K, V]) Keys() []K {
	return m.keys
}

// Len returns the number of keys.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Clone returns a shallow copy.
func (m *OrderedMap[K, V]) Clone() *OrderedMap[K, V] {
	out := &OrderedMap[K, V]{
		keys:   append([]K(nil), m.keys...),
		values: make(map[K]V, len(m.values)),
	}
	for k, v := range m.values {
		out.values[k] = v
	}

	return out
}

// OrderedSet is a set that remembers insertion order.
type OrderedSet[K comparable] struct {
	m *OrderedMap[K, struct{}]
}

// NewOrderedSet returns an empty OrderedSet.
func NewOrderedSet[K comparable]() *OrderedSet[K] {
	return &OrderedSet[K]{m: NewOrderedMap[K, struct{}]()}
}

// Add inserts k and reports whether it was not already present.
func (s *OrderedSet[K]) Add(k K) bool {
	if s.m.Has(k) {
		return false
	}

	s.m.Set(k, struct{}{})

	return true
}

// Has reports whether k is in the set.
func (s *OrderedSet[K]) Has(k K) bool {
	return s.m.Has(k)
}

// Items returns the members in insertion order. The slice must not be modified.
func (s *OrderedSet[K]) Items() []K {
	return s.m.Keys()
}

// Len returns the number of members.
func (s *OrderedSet[K]) Len() int {
	return s.m.Len()
}

// IndexOf returns the insertion position of k, or -1.
func (s *OrderedSet[K]) IndexOf(k K) int {
	for i, item := range s.m.keys {
		if item == k {
			return i
		}
	}

	return -1
}
