package ecs

// EntityRef is a lightweight, read-only handle bound to one entity. It holds
// no state of its own beyond which world and entity it refers to, so it is
// cheap to pass by value and never goes stale on its own — IsAlive still has
// to be checked if the entity might have been despawned since the handle was
// taken.
type EntityRef struct {
	world  *World
	entity Entity
}

// Ref returns a read-only handle to entity in w.
func Ref(w *World, entity Entity) EntityRef { return EntityRef{world: w, entity: entity} }

// ID returns the entity the handle refers to.
func (r EntityRef) ID() Entity { return r.entity }

// World returns the world the handle refers into.
func (r EntityRef) World() *World { return r.world }

// IsAlive reports whether the referenced entity is still alive.
func (r EntityRef) IsAlive() bool { return r.world.IsAlive(r.entity) }

// EntityRefContains reports whether the handle's entity carries a component
// of type T.
func EntityRefContains[T any](r EntityRef) bool { return HasComponent[T](r.world, r.entity) }

// EntityRefGet returns a pointer to the handle's entity's component of type
// T, if present.
func EntityRefGet[T any](r EntityRef) (*T, bool) { return GetComponent[T](r.world, r.entity) }

// EntityMut is EntityRef plus mutable access to components the entity
// already carries. It does not permit structural edits — use
// EntityWorldMut for insert/remove/take/despawn.
type EntityMut struct{ EntityRef }

// Mut returns a mutable handle to entity in w.
func Mut(w *World, entity Entity) EntityMut {
	return EntityMut{EntityRef{world: w, entity: entity}}
}

// EntityMutGetMut returns a mutable pointer to the handle's entity's
// component of type T, if present.
func EntityMutGetMut[T any](m EntityMut) (*T, bool) { return GetComponent[T](m.world, m.entity) }

// EntityWorldMut is the full entity-scoped handle: structural edits
// (insert/remove/take/despawn) in addition to the read/write component
// access EntityRef/EntityMut already give.
type EntityWorldMut struct{ EntityMut }

// WorldMut returns a full entity-scoped handle to entity in w.
func WorldMut(w *World, entity Entity) EntityWorldMut {
	return EntityWorldMut{EntityMut{EntityRef{world: w, entity: entity}}}
}

// Insert adds bundle's components to the handle's entity and returns the
// handle, so calls can be chained.
func (m EntityWorldMut) Insert(bundle Bundle) EntityWorldMut {
	m.world.Insert(m.entity, bundle)
	return m
}

// Remove drops bundle's component types from the handle's entity and
// returns the handle, so calls can be chained.
func (m EntityWorldMut) Remove(bundle Bundle) EntityWorldMut {
	m.world.Remove(m.entity, bundle)
	return m
}

// Take removes bundle's component types from the handle's entity, returning
// the values that were present.
func (m EntityWorldMut) Take(bundle Bundle) map[ComponentID]any {
	return m.world.Take(m.entity, bundle)
}

// Despawn removes the handle's entity and every component it carries.
func (m EntityWorldMut) Despawn() { m.world.Despawn(m.entity) }
