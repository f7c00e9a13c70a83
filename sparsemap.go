package ecs

import "iter"

// SparseMapKey is a small integer identifier usable as a direct array slot.
// ComponentID, BundleID, ArchetypeID and TableID all satisfy this via their
// uint32 underlying type.
type SparseMapKey interface {
	~uint32
}

// SparseMap is a direct-indexed container: a key's own integer value is the
// array slot it lives in. Iteration is always in ascending key order. This
// is the primitive behind component sets on archetypes/tables and the
// archetype graph's edge caches.
type SparseMap[K SparseMapKey, V any] struct {
	values []*V
	length int
}

// NewSparseMap returns an empty SparseMap with room for capacity slots.
func NewSparseMap[K SparseMapKey, V any](capacity int) *SparseMap[K, V] {
	return &SparseMap[K, V]{values: make([]*V, 0, capacity)}
}

// Len returns the number of present entries.
func (m *SparseMap[K, V]) Len() int { return m.length }

// IsEmpty reports whether the map has no present entries.
func (m *SparseMap[K, V]) IsEmpty() bool { return m.length == 0 }

// Clear empties the map, discarding every entry.
func (m *SparseMap[K, V]) Clear() {
	m.values = m.values[:0]
	m.length = 0
}

// Reserve grows the backing array's capacity by at least additional slots.
func (m *SparseMap[K, V]) Reserve(additional int) {
	if cap(m.values)-len(m.values) >= additional {
		return
	}
	grown := make([]*V, len(m.values), len(m.values)+additional)
	copy(grown, m.values)
	m.values = grown
}

// ContainsKey reports whether key has a present value.
func (m *SparseMap[K, V]) ContainsKey(key K) bool {
	i := int(key)
	return i < len(m.values) && m.values[i] != nil
}

// Get returns the value at key and whether it was present.
func (m *SparseMap[K, V]) Get(key K) (V, bool) {
	i := int(key)
	if i >= len(m.values) || m.values[i] == nil {
		var zero V
		return zero, false
	}
	return *m.values[i], true
}

// GetPtr returns a mutable pointer to the value at key, or nil if absent.
func (m *SparseMap[K, V]) GetPtr(key K) *V {
	i := int(key)
	if i >= len(m.values) {
		return nil
	}
	return m.values[i]
}

// Insert stores value at key, returning the value it replaced, if any.
func (m *SparseMap[K, V]) Insert(key K, value V) (V, bool) {
	i := int(key)
	if i >= len(m.values) {
		grown := make([]*V, i+1, max2(len(m.values)*2, i+1))
		copy(grown, m.values)
		m.values = grown
	}
	old := m.values[i]
	v := value
	m.values[i] = &v
	if old != nil {
		return *old, true
	}
	m.length++
	var zero V
	return zero, false
}

// GetOrInsertWith returns the present value at key, inserting def()'s
// result first if key was absent.
func (m *SparseMap[K, V]) GetOrInsertWith(key K, def func() V) *V {
	if p := m.GetPtr(key); p != nil {
		return p
	}
	m.Insert(key, def())
	return m.GetPtr(key)
}

// Remove deletes the value at key, returning it if it was present.
func (m *SparseMap[K, V]) Remove(key K) (V, bool) {
	i := int(key)
	if i >= len(m.values) || m.values[i] == nil {
		var zero V
		return zero, false
	}
	v := *m.values[i]
	m.values[i] = nil
	m.length--
	return v, true
}

// Keys iterates present keys in ascending order.
func (m *SparseMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i, v := range m.values {
			if v == nil {
				continue
			}
			if !yield(K(i)) {
				return
			}
		}
	}
}

// All iterates (key, value) pairs in ascending key order.
func (m *SparseMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, v := range m.values {
			if v == nil {
				continue
			}
			if !yield(K(i), *v) {
				return
			}
		}
	}
}

// Values iterates present values in ascending key order.
func (m *SparseMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.values {
			if v == nil {
				continue
			}
			if !yield(*v) {
				return
			}
		}
	}
}

// ImmutableSparseMap is a frozen SparseMap: same read interface, no growth
// capacity retained. Tables and Archetypes store their per-component-id maps
// this way once built, matching spec's "immutable-frozen variant".
type ImmutableSparseMap[K SparseMapKey, V any] struct {
	values []*V
	length int
}

// FreezeSparseMap copies m's entries into a capacity-trimmed ImmutableSparseMap.
func FreezeSparseMap[K SparseMapKey, V any](m *SparseMap[K, V]) ImmutableSparseMap[K, V] {
	frozen := make([]*V, len(m.values))
	copy(frozen, m.values)
	return ImmutableSparseMap[K, V]{values: frozen, length: m.length}
}

func (m ImmutableSparseMap[K, V]) Len() int      { return m.length }
func (m ImmutableSparseMap[K, V]) IsEmpty() bool { return m.length == 0 }

func (m ImmutableSparseMap[K, V]) ContainsKey(key K) bool {
	i := int(key)
	return i < len(m.values) && m.values[i] != nil
}

func (m ImmutableSparseMap[K, V]) Get(key K) (V, bool) {
	i := int(key)
	if i >= len(m.values) || m.values[i] == nil {
		var zero V
		return zero, false
	}
	return *m.values[i], true
}

func (m ImmutableSparseMap[K, V]) GetPtr(key K) *V {
	i := int(key)
	if i >= len(m.values) {
		return nil
	}
	return m.values[i]
}

func (m ImmutableSparseMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i, v := range m.values {
			if v == nil {
				continue
			}
			if !yield(K(i)) {
				return
			}
		}
	}
}

func (m ImmutableSparseMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, v := range m.values {
			if v == nil {
				continue
			}
			if !yield(K(i), *v) {
				return
			}
		}
	}
}

func (m ImmutableSparseMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.values {
			if v == nil {
				continue
			}
			if !yield(*v) {
				return
			}
		}
	}
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}
