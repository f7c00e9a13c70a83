package ecs

import "testing"

func TestEntityRefContainsAndGet(t *testing.T) {
	w := New()
	e := w.Spawn(Single[position]{Value: position{X: 1, Y: 2}})
	ref := Ref(w, e)

	if !ref.IsAlive() {
		t.Fatalf("expected handle to report the entity alive")
	}
	if !EntityRefContains[position](ref) {
		t.Fatalf("expected handle to see the position component")
	}
	if EntityRefContains[velocity](ref) {
		t.Fatalf("did not expect a velocity component")
	}
	pos, ok := EntityRefGet[position](ref)
	if !ok || *pos != (position{X: 1, Y: 2}) {
		t.Fatalf("got (%+v, %v), want ({1 2}, true)", pos, ok)
	}
}

func TestEntityMutGetMutWritesThroughToWorld(t *testing.T) {
	w := New()
	e := w.Spawn(Single[position]{Value: position{X: 1, Y: 1}})
	m := Mut(w, e)

	pos, ok := EntityMutGetMut[position](m)
	if !ok {
		t.Fatalf("expected to find the position component")
	}
	pos.X = 42

	got, _ := GetComponent[position](w, e)
	if got.X != 42 {
		t.Fatalf("got X=%d, want 42 after mutating through the handle", got.X)
	}
}

func TestEntityWorldMutChainsInsertAndRemove(t *testing.T) {
	w := New()
	e := w.SpawnEmpty()

	WorldMut(w, e).
		Insert(Single[position]{Value: position{X: 1}}).
		Insert(Single[velocity]{Value: velocity{X: 2}}).
		Remove(Single[velocity]{})

	if !HasComponent[position](w, e) {
		t.Fatalf("expected position to survive the chained calls")
	}
	if HasComponent[velocity](w, e) {
		t.Fatalf("expected velocity to have been removed")
	}
}

func TestEntityWorldMutTakeAndDespawn(t *testing.T) {
	w := New()
	e := w.Spawn(Single[position]{Value: position{X: 5}})
	posID, _ := TryGetID[position](&w.components)

	taken := WorldMut(w, e).Take(Single[position]{})
	if got, ok := taken[posID]; !ok || got.(position) != (position{X: 5}) {
		t.Fatalf("got (%+v, %v), want ({5 0}, true)", got, ok)
	}

	WorldMut(w, e).Despawn()
	if w.IsAlive(e) {
		t.Fatalf("expected entity to be dead after Despawn via handle")
	}
}
