package ecs

import "testing"

func TestBundlesInsertAssignsSortedDedupedComponentIDs(t *testing.T) {
	var c Components
	var b Bundles

	bundle := pairBundle{a: position{X: 1}, b: velocity{X: 2}}
	info := b.Insert(bundle, &c)

	if len(info.ComponentIDs) != 2 {
		t.Fatalf("got %d component ids, want 2", len(info.ComponentIDs))
	}
	if info.ComponentIDs[0] >= info.ComponentIDs[1] {
		t.Fatalf("expected ascending ids, got %v", info.ComponentIDs)
	}
}

func TestBundlesInsertIsIdempotentByType(t *testing.T) {
	var c Components
	var b Bundles

	first := b.Insert(pairBundle{}, &c)
	second := b.Insert(pairBundle{}, &c)
	if first.ID != second.ID {
		t.Fatalf("got different bundle ids %d and %d for the same type", first.ID, second.ID)
	}
}

func TestBundlesInsertPanicsOnDuplicateComponents(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a bundle with duplicate components")
		}
	}()
	var c Components
	var b Bundles
	b.Insert(duplicateBundle{a: position{}, b: position{}}, &c)
}

func TestSingleBundleWrapsOneComponent(t *testing.T) {
	s := Single[position]{Value: position{X: 5, Y: 6}}
	values := s.Components()
	if len(values) != 1 {
		t.Fatalf("got %d values, want 1", len(values))
	}
	if values[0].(position).X != 5 {
		t.Fatalf("got %v, want position{X:5}", values[0])
	}
}

func TestEmptyBundleHasNoComponents(t *testing.T) {
	if len(Empty{}.Components()) != 0 {
		t.Fatalf("expected Empty bundle to carry no components")
	}
}

type pairBundle struct {
	a position
	b velocity
}

func (p pairBundle) Components() []any { return []any{p.a, p.b} }

type duplicateBundle struct {
	a position
	b position
}

func (d duplicateBundle) Components() []any { return []any{d.a, d.b} }
