package ecs

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"unsafe"
)

// WorldID is a process-unique, monotonically assigned identifier, handed
// out once per World and never reused.
type WorldID uint64

var worldIDCounter uint64

func allocWorldID() WorldID {
	return WorldID(atomic.AddUint64(&worldIDCounter, 1))
}

// WorldOptions configures a new World.
type WorldOptions struct {
	// InitialCapacity is the row capacity newly created tables preallocate.
	InitialCapacity int
}

const defaultInitialCapacity = 64

// World is the storage core: entity allocation, the archetype graph, the
// column-oriented table storage behind it, and a resource bag alongside.
type World struct {
	id          WorldID
	entities    Entities
	components  Components
	bundles     Bundles
	archetypes  *Archetypes
	tables      *Tables
	resources   *Resources
	rowCapacity int
}

// New returns a World with default options.
func New() *World { return NewWithOptions(WorldOptions{}) }

// NewWithOptions returns a World configured by opts.
func NewWithOptions(opts WorldOptions) *World {
	capacity := opts.InitialCapacity
	if capacity <= 0 {
		capacity = defaultInitialCapacity
	}
	return &World{
		id:          allocWorldID(),
		archetypes:  NewArchetypes(),
		tables:      NewTables(),
		resources:   NewResources(),
		rowCapacity: capacity,
	}
}

// ID returns the world's unique identifier.
func (w *World) ID() WorldID { return w.id }

// Resources returns the world's resource bag.
func (w *World) Resources() *Resources { return w.resources }

// ClearEntities despawns every entity and empties every archetype and
// table, without forgetting registered component/bundle types.
func (w *World) ClearEntities() {
	w.entities.Clear()
	w.tables.Clear()
	for _, archetype := range w.archetypes.archetypes {
		archetype.entities = archetype.entities[:0]
	}
}

// ClearResources empties the resource bag.
func (w *World) ClearResources() { w.resources.Clear() }

// ClearAll clears entities and resources both.
func (w *World) ClearAll() {
	w.ClearEntities()
	w.ClearResources()
}

// SpawnEmpty allocates a new entity with no components, placed in the
// empty archetype.
func (w *World) SpawnEmpty() Entity {
	entity := w.entities.Allocate()
	archetype := w.archetypes.Get(ArchetypeIDEmpty)
	table := w.tables.Get(TableIDEmpty)
	insert := table.InsertRow(entity)
	archRow := archetype.InsertEntity(entity, insert.Row)
	w.entities.SetLocation(entity, EntityLocation{
		ArchetypeID:  ArchetypeIDEmpty,
		ArchetypeRow: archRow,
		TableID:      TableIDEmpty,
		TableRow:     insert.Row,
	})
	return entity
}

// Spawn allocates a new entity and immediately inserts bundle's components.
func (w *World) Spawn(bundle Bundle) Entity {
	entity := w.SpawnEmpty()
	w.Insert(entity, bundle)
	return entity
}

// IsAlive reports whether entity currently has a live location.
func (w *World) IsAlive(entity Entity) bool {
	_, ok := w.entities.GetLocation(entity)
	return ok
}

// Despawn removes entity and every component it carries. Despawning a dead
// entity is a no-op.
func (w *World) Despawn(entity Entity) {
	location, ok := w.entities.GetLocation(entity)
	if !ok {
		return
	}

	table := w.tables.Get(location.TableID)
	archetype := w.archetypes.Get(location.ArchetypeID)

	swappedTable := table.RemoveRow(location.TableRow)
	swappedArch := archetype.RemoveEntity(location.ArchetypeRow)

	w.fixupArchetypeSwap(swappedArch)
	w.fixupTableSwap(archetype, swappedTable)

	w.entities.Free(entity)
}

// Insert adds bundle's components to entity. Components entity already
// carries are left untouched; the moved cell is authoritative, not the
// newly supplied value. Inserting into a dead entity is a fatal error.
func (w *World) Insert(entity Entity, bundle Bundle) {
	location := w.mustLocation(entity, "insert")

	valueByID := w.bundleValues(bundle)
	bundleInfo := w.bundles.Insert(bundle, &w.components)
	edge := w.archetypes.AddBundle(location.ArchetypeID, bundleInfo, &w.components, w.tables, w.rowCapacity)

	if edge.Target == location.ArchetypeID {
		// Every named component is already present on this archetype, so
		// there's nothing to write: the existing cells stay authoritative.
		return
	}

	sourceArchetype, targetArchetype := w.archetypes.GetPair(location.ArchetypeID, edge.Target)
	sourceTable, targetTable := w.tables.GetPair(sourceArchetype.TableID(), targetArchetype.TableID())

	moveResult := sourceTable.MoveRow(location.TableRow, targetTable, MoveRowPanicUnmatched{})
	newArchRow := targetArchetype.InsertEntity(entity, moveResult.InsertedRow)
	swappedArch := sourceArchetype.RemoveEntity(location.ArchetypeRow)

	w.fixupArchetypeSwap(swappedArch)
	w.fixupTableSwap(sourceArchetype, moveResult.Swapped)

	w.entities.SetLocation(entity, EntityLocation{
		ArchetypeID:  targetArchetype.ID(),
		ArchetypeRow: newArchRow,
		TableID:      targetTable.ID(),
		TableRow:     moveResult.InsertedRow,
	})

	for id, v := range valueByID {
		if edge.Duplicate.Contains(id) {
			// Already present on the source archetype and just moved over
			// intact; the moved cell is authoritative, so skip it.
			continue
		}
		ptr, _ := valuePointer(v)
		col, ok := targetTable.GetColumn(id)
		if !ok {
			panic(fmt.Sprintf("ecs: insert: target archetype missing column for component %d", id))
		}
		col.Push(ptr)
	}
}

// Remove deletes bundle's component types from entity. If entity doesn't
// carry every named component, the whole operation is a no-op: nothing is
// removed. Removing from a dead entity is a fatal error.
func (w *World) Remove(entity Entity, bundle Bundle) {
	location := w.mustLocation(entity, "remove")
	bundleInfo := w.bundles.Insert(bundle, &w.components)
	edge := w.archetypes.RemoveBundle(location.ArchetypeID, bundleInfo, &w.components, w.tables, w.rowCapacity)

	if edge.Kind == RemoveBundleMismatch || edge.Target == location.ArchetypeID {
		return
	}

	w.moveToTarget(entity, location, edge.Target, MoveRowDropUnmatched{})
}

// Take removes bundle's component types from entity, returning the values
// that were present, keyed by component id. If entity doesn't carry every
// named component, the whole operation is a no-op and Take returns nil.
// Taking from a dead entity is a fatal error.
func (w *World) Take(entity Entity, bundle Bundle) map[ComponentID]any {
	location := w.mustLocation(entity, "take")
	bundleInfo := w.bundles.Insert(bundle, &w.components)
	edge := w.archetypes.RemoveBundle(location.ArchetypeID, bundleInfo, &w.components, w.tables, w.rowCapacity)

	if edge.Kind == RemoveBundleMismatch || edge.Target == location.ArchetypeID {
		return nil
	}

	forget := MoveRowForgetUnmatched{Taken: make(map[ComponentID][]byte, len(bundleInfo.ComponentIDs))}
	w.moveToTarget(entity, location, edge.Target, forget)

	out := make(map[ComponentID]any, len(forget.Taken))
	for id, raw := range forget.Taken {
		info, _ := w.components.GetComponentInfo(id)
		if info.Descriptor.Size == 0 {
			out[id] = reflect.New(info.Descriptor.GoType).Elem().Interface()
			continue
		}
		out[id] = reflect.NewAt(info.Descriptor.GoType, unsafe.Pointer(&raw[0])).Elem().Interface()
	}
	return out
}

func (w *World) moveToTarget(entity Entity, location EntityLocation, targetID ArchetypeID, unmatched MoveRowHandleUnmatched) {
	sourceArchetype, targetArchetype := w.archetypes.GetPair(location.ArchetypeID, targetID)
	sourceTable, targetTable := w.tables.GetPair(sourceArchetype.TableID(), targetArchetype.TableID())

	moveResult := sourceTable.MoveRow(location.TableRow, targetTable, unmatched)
	newArchRow := targetArchetype.InsertEntity(entity, moveResult.InsertedRow)
	swappedArch := sourceArchetype.RemoveEntity(location.ArchetypeRow)

	w.fixupArchetypeSwap(swappedArch)
	w.fixupTableSwap(sourceArchetype, moveResult.Swapped)

	w.entities.SetLocation(entity, EntityLocation{
		ArchetypeID:  targetArchetype.ID(),
		ArchetypeRow: newArchRow,
		TableID:      targetTable.ID(),
		TableRow:     moveResult.InsertedRow,
	})
}

func (w *World) mustLocation(entity Entity, op string) EntityLocation {
	location, ok := w.entities.GetLocation(entity)
	if !ok {
		panic(fmt.Sprintf("ecs: %s: entity %s is not alive", op, entity))
	}
	return location
}

// bundleValues registers every component value in bundle and returns a
// lookup by the component id it was registered under.
func (w *World) bundleValues(bundle Bundle) map[ComponentID]any {
	values := bundle.Components()
	byID := make(map[ComponentID]any, len(values))
	for _, v := range values {
		id := w.components.registerDynamic(v)
		byID[id] = v
	}
	return byID
}

func (w *World) fixupTableSwap(archetype *Archetype, swapped *ChangedLocation[TableRow]) {
	if swapped == nil {
		return
	}
	loc, ok := w.entities.GetLocation(swapped.Entity)
	if !ok {
		return
	}
	archetype.SetTableRow(loc.ArchetypeRow, swapped.Row)
	loc.TableRow = swapped.Row
	w.entities.SetLocation(swapped.Entity, loc)
}

func (w *World) fixupArchetypeSwap(swapped *ChangedLocation[ArchetypeRow]) {
	if swapped == nil {
		return
	}
	loc, ok := w.entities.GetLocation(swapped.Entity)
	if !ok {
		return
	}
	loc.ArchetypeRow = swapped.Row
	w.entities.SetLocation(swapped.Entity, loc)
}

// valuePointer boxes v on the heap and returns an addressable pointer to
// it, used to feed values into the unsafe-pointer-based column API.
func valuePointer(v any) (unsafe.Pointer, reflect.Type) {
	t := reflect.TypeOf(v)
	boxed := reflect.New(t)
	boxed.Elem().Set(reflect.ValueOf(v))
	return boxed.UnsafePointer(), t
}

// GetComponent returns a pointer to entity's component of type T, if it has
// one.
func GetComponent[T any](w *World, entity Entity) (*T, bool) {
	location, ok := w.entities.GetLocation(entity)
	if !ok {
		return nil, false
	}
	id, ok := TryGetID[T](&w.components)
	if !ok {
		return nil, false
	}
	table := w.tables.Get(location.TableID)
	col, ok := table.GetColumn(id)
	if !ok {
		return nil, false
	}
	slice := BlobVecSlice[T](col.data)
	if int(location.TableRow) >= len(slice) {
		return nil, false
	}
	return &slice[location.TableRow], true
}

// HasComponent reports whether entity currently carries a component of
// type T.
func HasComponent[T any](w *World, entity Entity) bool {
	location, ok := w.entities.GetLocation(entity)
	if !ok {
		return false
	}
	id, ok := TryGetID[T](&w.components)
	if !ok {
		return false
	}
	archetype := w.archetypes.Get(location.ArchetypeID)
	return archetype.ContainsComponent(id)
}

// IterEntities iterates every live entity and its current location, in
// allocation-index order.
func (w *World) IterEntities() func(yield func(Entity, EntityLocation) bool) {
	return w.entities.All()
}
