package ecs

import "testing"

type position struct{ X, Y int64 }
type velocity struct{ X, Y int64 }

type dropCounter struct{ n *int }

func (d dropCounter) OnDrop() { *d.n++ }

type taggedComponent struct{}

func (taggedComponent) ComponentStorageType() StorageType { return StorageTypeSparseSet }

func TestRegisterComponentIsIdempotent(t *testing.T) {
	var c Components
	id1 := RegisterComponent[position](&c)
	id2 := RegisterComponent[position](&c)
	if id1 != id2 {
		t.Fatalf("got different ids %d and %d for the same type", id1, id2)
	}
}

func TestRegisterComponentAssignsDistinctIDs(t *testing.T) {
	var c Components
	posID := RegisterComponent[position](&c)
	velID := RegisterComponent[velocity](&c)
	if posID == velID {
		t.Fatalf("expected distinct ids, got %d for both", posID)
	}
}

func TestTryGetIDReportsUnregisteredType(t *testing.T) {
	var c Components
	if _, ok := TryGetID[position](&c); ok {
		t.Fatalf("expected position to be unregistered")
	}
	RegisterComponent[position](&c)
	if _, ok := TryGetID[position](&c); !ok {
		t.Fatalf("expected position to be registered")
	}
}

func TestGetIDPanicsOnUnregisteredType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unregistered type")
		}
	}()
	var c Components
	GetID[position](&c)
}

func TestStorageClassifierOverridesDefaultStorageType(t *testing.T) {
	var c Components
	id := RegisterComponent[taggedComponent](&c)
	info, ok := c.GetComponentInfo(id)
	if !ok {
		t.Fatalf("expected component info to be present")
	}
	if info.StorageType != StorageTypeSparseSet {
		t.Fatalf("got storage type %v, want SparseSet", info.StorageType)
	}
}

func TestRegisterComponentDefaultsToTableStorage(t *testing.T) {
	var c Components
	id := RegisterComponent[position](&c)
	info, _ := c.GetComponentInfo(id)
	if info.StorageType != StorageTypeTable {
		t.Fatalf("got storage type %v, want Table", info.StorageType)
	}
}

func TestRegisterDynamicAgreesWithGenericRegistration(t *testing.T) {
	var c Components
	staticID := RegisterComponent[position](&c)
	dynamicID := c.registerDynamic(position{X: 1, Y: 2})
	if staticID != dynamicID {
		t.Fatalf("got dynamic id %d, want %d", dynamicID, staticID)
	}
}
