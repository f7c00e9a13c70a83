package ecs

import "iter"

// SparseSet is a SparseMap with a unit value: a direct-indexed set of small
// integer identifiers.
type SparseSet[K SparseMapKey] struct {
	m SparseMap[K, struct{}]
}

// NewSparseSet returns an empty SparseSet with room for capacity slots.
func NewSparseSet[K SparseMapKey](capacity int) *SparseSet[K] {
	return &SparseSet[K]{m: SparseMap[K, struct{}]{values: make([]*struct{}, 0, capacity)}}
}

func (s *SparseSet[K]) Len() int      { return s.m.Len() }
func (s *SparseSet[K]) IsEmpty() bool { return s.m.IsEmpty() }
func (s *SparseSet[K]) Clear()        { s.m.Clear() }

// Contains reports whether key is a member of the set.
func (s *SparseSet[K]) Contains(key K) bool { return s.m.ContainsKey(key) }

// Insert adds key to the set, returning true if it was already present.
func (s *SparseSet[K]) Insert(key K) bool {
	_, had := s.m.Insert(key, struct{}{})
	return had
}

// Remove deletes key from the set, returning true if it was present.
func (s *SparseSet[K]) Remove(key K) bool {
	_, had := s.m.Remove(key)
	return had
}

// Keys iterates members in ascending order.
func (s *SparseSet[K]) Keys() iter.Seq[K] { return s.m.Keys() }

// Freeze returns an ImmutableSparseSet snapshot of s.
func (s *SparseSet[K]) Freeze() ImmutableSparseSet[K] {
	return ImmutableSparseSet[K]{m: FreezeSparseMap(&s.m)}
}

// ImmutableSparseSet is a frozen SparseSet: read-only membership test plus
// ascending iteration, no growth capacity retained.
type ImmutableSparseSet[K SparseMapKey] struct {
	m ImmutableSparseMap[K, struct{}]
}

func (s ImmutableSparseSet[K]) Len() int           { return s.m.Len() }
func (s ImmutableSparseSet[K]) IsEmpty() bool      { return s.m.IsEmpty() }
func (s ImmutableSparseSet[K]) Contains(key K) bool { return s.m.ContainsKey(key) }
func (s ImmutableSparseSet[K]) Keys() iter.Seq[K]  { return s.m.Keys() }
