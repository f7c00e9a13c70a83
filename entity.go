package ecs

import (
	"fmt"
	"iter"
)

// EntityGeneration invalidates stale Entity handles when an index is reused.
type EntityGeneration uint32

const (
	// EntityGenerationNew is the generation assigned to a freshly allocated index.
	EntityGenerationNew EntityGeneration = 1
	// EntityGenerationInvalid marks an empty entity slot.
	EntityGenerationInvalid EntityGeneration = ^EntityGeneration(0)
)

func (g EntityGeneration) isInvalid() bool { return g == EntityGenerationInvalid }

func (g *EntityGeneration) increment() {
	if *g >= EntityGenerationInvalid-1 {
		panic("ecs: entity generation overflow")
	}
	*g++
}

// Entity is an opaque handle: an index plus a generation that invalidates it
// once the index is freed and reused.
type Entity struct {
	index      uint32
	generation EntityGeneration
}

// EntityPlaceholder is a distinguished entity value that is never live.
var EntityPlaceholder = Entity{index: ^uint32(0), generation: EntityGenerationNew}

// Index returns the entity's slot index.
func (e Entity) Index() uint32 { return e.index }

// Generation returns the entity's generation.
func (e Entity) Generation() EntityGeneration { return e.generation }

// IsPlaceholder reports whether e is the distinguished placeholder value.
func (e Entity) IsPlaceholder() bool { return e == EntityPlaceholder }

// ToBits packs the entity into a single 64-bit value: index in the low 32
// bits, generation in the high 32 bits.
func (e Entity) ToBits() uint64 {
	return uint64(e.index) | uint64(e.generation)<<32
}

func (e Entity) String() string {
	if e.IsPlaceholder() {
		return "PLACEHOLDER"
	}
	return fmt.Sprintf("%dv%d", e.index, e.generation)
}

// EntityLocation cross-references an entity into the archetype graph and the
// backing table storage. All fields are plain indexes, never pointers.
type EntityLocation struct {
	ArchetypeID  ArchetypeID
	ArchetypeRow ArchetypeRow
	TableID      TableID
	TableRow     TableRow
}

// EntityLocationInvalid is the sentinel location for an entity with no
// materialized row yet (e.g. allocated but not yet placed via SetLocation).
var EntityLocationInvalid = EntityLocation{
	ArchetypeID:  ArchetypeIDInvalid,
	ArchetypeRow: ArchetypeRowInvalid,
	TableID:      TableIDInvalid,
	TableRow:     TableRowInvalid,
}

// IsInvalid reports whether l is the sentinel invalid location.
func (l EntityLocation) IsInvalid() bool { return l == EntityLocationInvalid }

type entityMeta struct {
	generation EntityGeneration
	location   EntityLocation
}

var entityMetaEmpty = entityMeta{
	generation: EntityGenerationInvalid,
	location:   EntityLocationInvalid,
}

func (m entityMeta) isEmpty() bool { return m == entityMetaEmpty }

// Entities is the generational entity allocator: a pool of index slots with
// a free list driving reuse, each slot tracking the live entity's
// generation and current EntityLocation.
type Entities struct {
	meta     []entityMeta
	freeList []Entity
}

// Clear frees every slot. Every previously allocated handle becomes
// permanently stale: each freed slot keeps its generation on the free list
// and is bumped again when reused.
func (e *Entities) Clear() {
	for i, m := range e.meta {
		if !m.isEmpty() {
			e.freeList = append(e.freeList, Entity{index: uint32(i), generation: m.generation})
		}
		e.meta[i] = entityMetaEmpty
	}
}

// Allocate returns a fresh entity: either a reused free-list slot with its
// generation bumped, or a brand new index.
func (e *Entities) Allocate() Entity {
	if n := len(e.freeList); n > 0 {
		ent := e.freeList[n-1]
		e.freeList = e.freeList[:n-1]
		ent.generation.increment()
		e.meta[ent.index].generation = ent.generation
		return ent
	}

	index := len(e.meta)
	if index > int(^uint32(0)-1) {
		panic("ecs: entity index overflow")
	}
	e.meta = append(e.meta, entityMeta{generation: EntityGenerationNew, location: EntityLocationInvalid})
	return Entity{index: uint32(index), generation: EntityGenerationNew}
}

// Free empties entity's slot and pushes it onto the free list for reuse. A
// stale call (older generation than the one currently stored) is a silent
// no-op; a call with a generation newer than the stored one is a contract
// violation.
func (e *Entities) Free(entity Entity) {
	m := &e.meta[entity.index]
	if m.generation == entity.generation {
		*m = entityMetaEmpty
		e.freeList = append(e.freeList, entity)
		return
	}
	if entity.generation >= m.generation && !m.generation.isInvalid() {
		panic(fmt.Sprintf("ecs: entity %s freed with a generation newer than the stored one (%d)", entity, m.generation))
	}
}

// SetLocation writes entity's current location, marking it live with
// entity's generation.
func (e *Entities) SetLocation(entity Entity, location EntityLocation) {
	m := &e.meta[entity.index]
	m.generation = entity.generation
	m.location = location
}

// GetLocation returns entity's location iff entity's generation matches the
// one currently stored for its index.
func (e *Entities) GetLocation(entity Entity) (EntityLocation, bool) {
	if int(entity.index) >= len(e.meta) {
		return EntityLocation{}, false
	}
	m := e.meta[entity.index]
	if entity.generation != m.generation {
		return EntityLocation{}, false
	}
	return m.location, true
}

// All iterates every live entity and its location, in index order.
func (e *Entities) All() iter.Seq2[Entity, EntityLocation] {
	return func(yield func(Entity, EntityLocation) bool) {
		for i, m := range e.meta {
			if m.isEmpty() {
				continue
			}
			ent := Entity{index: uint32(i), generation: m.generation}
			if !yield(ent, m.location) {
				return
			}
		}
	}
}
