package ecs

import "testing"

type testKey uint32

func TestSparseMapInsertAndGet(t *testing.T) {
	m := NewSparseMap[testKey, string](4)
	if _, ok := m.Insert(2, "two"); ok {
		t.Fatalf("expected no previous value")
	}
	if _, ok := m.Insert(0, "zero"); ok {
		t.Fatalf("expected no previous value")
	}

	v, ok := m.Get(2)
	if !ok || v != "two" {
		t.Fatalf("got (%q, %v), want (\"two\", true)", v, ok)
	}
	if m.Len() != 2 {
		t.Fatalf("got len %d, want 2", m.Len())
	}
	if m.ContainsKey(5) {
		t.Fatalf("expected key 5 to be absent")
	}
}

func TestSparseMapInsertReplaces(t *testing.T) {
	m := NewSparseMap[testKey, int](2)
	m.Insert(1, 10)
	old, had := m.Insert(1, 20)
	if !had || old != 10 {
		t.Fatalf("got (%d, %v), want (10, true)", old, had)
	}
	if m.Len() != 1 {
		t.Fatalf("replacing shouldn't grow length, got %d", m.Len())
	}
}

func TestSparseMapRemove(t *testing.T) {
	m := NewSparseMap[testKey, int](2)
	m.Insert(3, 30)
	v, ok := m.Remove(3)
	if !ok || v != 30 {
		t.Fatalf("got (%d, %v), want (30, true)", v, ok)
	}
	if m.ContainsKey(3) {
		t.Fatalf("expected key 3 to be gone")
	}
	if _, ok := m.Remove(3); ok {
		t.Fatalf("removing twice should report absent")
	}
}

func TestSparseMapKeysAscending(t *testing.T) {
	m := NewSparseMap[testKey, int](8)
	m.Insert(5, 0)
	m.Insert(1, 0)
	m.Insert(3, 0)

	var order []testKey
	for k := range m.Keys() {
		order = append(order, k)
	}
	want := []testKey{1, 3, 5}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestFreezeSparseMapPreservesEntries(t *testing.T) {
	m := NewSparseMap[testKey, string](8)
	m.Insert(0, "a")
	m.Insert(4, "b")

	frozen := FreezeSparseMap(m)
	if frozen.Len() != 2 {
		t.Fatalf("got len %d, want 2", frozen.Len())
	}
	v, ok := frozen.Get(4)
	if !ok || v != "b" {
		t.Fatalf("got (%q, %v), want (\"b\", true)", v, ok)
	}
}

func TestSparseSetInsertContainsRemove(t *testing.T) {
	s := NewSparseSet[testKey](4)
	if s.Insert(2) {
		t.Fatalf("expected first insert to report not-already-present")
	}
	if !s.Contains(2) {
		t.Fatalf("expected 2 to be a member")
	}
	if !s.Remove(2) {
		t.Fatalf("expected remove to report previously present")
	}
	if s.Contains(2) {
		t.Fatalf("expected 2 to no longer be a member")
	}
}
