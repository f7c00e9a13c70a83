package ecs

import (
	"fmt"
	"reflect"
	"unsafe"
)

const (
	bitsPerWord       = 64
	maskWords         = 4
	maxComponentTypes = maskWords * bitsPerWord
)

// StorageType is the storage class a component is kept in. Only Table is
// fully implemented; SparseSet and BitSet are reserved for future storage
// backends and are accepted as declarations without a backing
// implementation, matching spec.md §6.
type StorageType int

const (
	StorageTypeTable StorageType = iota
	StorageTypeSparseSet
	StorageTypeBitSet
)

func (s StorageType) String() string {
	switch s {
	case StorageTypeTable:
		return "Table"
	case StorageTypeSparseSet:
		return "SparseSet"
	case StorageTypeBitSet:
		return "BitSet"
	default:
		return "Unknown"
	}
}

// StorageClassifier lets a component type declare a non-default storage
// class. A type that doesn't implement it is Table-resident.
type StorageClassifier interface {
	ComponentStorageType() StorageType
}

// Droppable lets a component type run side effects when its last owning
// cell is destroyed (swap-removed without migration, or the world/table is
// cleared). OnDrop runs on a copy of the value, mirroring the teardown
// semantics of a destructor without requiring in-place mutation.
type Droppable interface {
	OnDrop()
}

// ComponentID is a stable, monotonically assigned identifier for a
// registered component type.
type ComponentID uint32

// ComponentDescriptor names a registered type's identity, layout and
// optional destructor.
type ComponentDescriptor struct {
	Name   string
	GoType reflect.Type
	Size   uintptr
	DropFn DropFn
}

// ComponentInfo is everything the storage layer needs to know about one
// registered component type.
type ComponentInfo struct {
	ID          ComponentID
	StorageType StorageType
	Descriptor  ComponentDescriptor
}

// Components is the type-identity-keyed component registry: every distinct
// component type seen by a World gets exactly one ComponentInfo, assigned
// on first sight.
type Components struct {
	infos  []ComponentInfo
	byType map[reflect.Type]ComponentID
}

func (c *Components) register(t reflect.Type, storage StorageType, dropFn DropFn) ComponentID {
	if c.byType == nil {
		c.byType = make(map[reflect.Type]ComponentID, maxComponentTypes)
	}
	if id, ok := c.byType[t]; ok {
		return id
	}
	if len(c.infos) >= maxComponentTypes {
		panic(fmt.Sprintf("ecs: cannot register component %s: maximum number of component types (%d) reached", t, maxComponentTypes))
	}
	id := ComponentID(len(c.infos))
	c.infos = append(c.infos, ComponentInfo{
		ID:          id,
		StorageType: storage,
		Descriptor: ComponentDescriptor{
			Name:   t.String(),
			GoType: t,
			Size:   t.Size(),
			DropFn: dropFn,
		},
	})
	c.byType[t] = id
	return id
}

// registerDynamic registers value's runtime type, used by the Bundle
// insertion path which only has `any` values, not a static type parameter.
func (c *Components) registerDynamic(value any) ComponentID {
	t := reflect.TypeOf(value)
	if id, ok := c.byType[t]; ok {
		return id
	}
	storage := StorageTypeTable
	if sc, ok := value.(StorageClassifier); ok {
		storage = sc.ComponentStorageType()
	}
	var dropFn DropFn
	if _, ok := value.(Droppable); ok {
		dropFn = func(p unsafe.Pointer) {
			reflect.NewAt(t, p).Elem().Interface().(Droppable).OnDrop()
		}
	}
	return c.register(t, storage, dropFn)
}

// RegisterComponent assigns (or looks up) T's ComponentID. Idempotent.
func RegisterComponent[T any](c *Components) ComponentID {
	t := reflect.TypeFor[T]()
	if id, ok := c.byType[t]; ok {
		return id
	}
	storage := StorageTypeTable
	var zero T
	if sc, ok := any(zero).(StorageClassifier); ok {
		storage = sc.ComponentStorageType()
	}
	var dropFn DropFn
	if _, ok := any(zero).(Droppable); ok {
		dropFn = func(p unsafe.Pointer) {
			any(*(*T)(p)).(Droppable).OnDrop()
		}
	}
	return c.register(t, storage, dropFn)
}

// GetID returns T's ComponentID, panicking if T was never registered.
func GetID[T any](c *Components) ComponentID {
	id, ok := TryGetID[T](c)
	if !ok {
		panic(fmt.Sprintf("ecs: component type %s not registered", reflect.TypeFor[T]()))
	}
	return id
}

// TryGetID returns T's ComponentID without panicking if unregistered.
func TryGetID[T any](c *Components) (ComponentID, bool) {
	id, ok := c.byType[reflect.TypeFor[T]()]
	return id, ok
}

// GetComponentInfo returns the ComponentInfo for id.
func (c *Components) GetComponentInfo(id ComponentID) (ComponentInfo, bool) {
	if int(id) >= len(c.infos) {
		return ComponentInfo{}, false
	}
	return c.infos[id], true
}
