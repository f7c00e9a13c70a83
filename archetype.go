package ecs

import (
	"encoding/binary"
	"sort"
)

// ArchetypeID identifies one archetype (a distinct component set) inside
// Archetypes.
type ArchetypeID uint32

const (
	// ArchetypeIDEmpty is the archetype with no components, always present
	// at index 0: every entity starts here on SpawnEmpty.
	ArchetypeIDEmpty ArchetypeID = 0
	// ArchetypeIDInvalid marks the absence of an archetype.
	ArchetypeIDInvalid ArchetypeID = ^ArchetypeID(0)
)

// ArchetypeRow is a row index inside one Archetype's entity list.
type ArchetypeRow uint32

// ArchetypeRowInvalid marks the absence of a row.
const ArchetypeRowInvalid ArchetypeRow = ^ArchetypeRow(0)

// ArchetypeEntity is one archetype row's bookkeeping: the entity occupying
// it and where its component values actually live in the backing table.
type ArchetypeEntity struct {
	Entity   Entity
	TableRow TableRow
}

// ArchetypeComponentInfo is everything an archetype needs to know about one
// of its component types beyond the table column itself.
type ArchetypeComponentInfo struct {
	ComponentID ComponentID
	StorageType StorageType
}

// AddBundle is a cached graph edge: inserting this bundle into the source
// archetype always lands on Target. Duplicate holds the subset of the
// bundle's components the source archetype already had — those columns are
// moved over with their existing values, and the bundle's values for them
// are not written.
type AddBundle struct {
	Target    ArchetypeID
	Duplicate ImmutableSparseSet[ComponentID]
}

// RemoveBundleKind distinguishes a clean removal (every bundle component
// was present) from a mismatch (the bundle named components the archetype
// never had). World.Remove and World.Take treat a mismatch as a no-op.
type RemoveBundleKind int

const (
	RemoveBundleMatch RemoveBundleKind = iota
	RemoveBundleMismatch
)

// RemoveBundle is a cached graph edge: Target is the source archetype's
// component set minus whichever bundle components it has. For a Mismatch
// edge, Target is still computed, but callers do not move the entity.
type RemoveBundle struct {
	Kind   RemoveBundleKind
	Target ArchetypeID
}

// Edges is an archetype's lazily populated cache of where add/remove bundle
// operations lead, avoiding recomputation of the target archetype and table
// on repeated use of the same bundle type.
type Edges struct {
	AddBundle    *SparseMap[BundleID, AddBundle]
	RemoveBundle *SparseMap[BundleID, RemoveBundle]
}

func newEdges() Edges {
	return Edges{
		AddBundle:    NewSparseMap[BundleID, AddBundle](4),
		RemoveBundle: NewSparseMap[BundleID, RemoveBundle](4),
	}
}

// Archetype groups every entity sharing one exact component set. Its rows
// are parallel to, but independently indexed from, its backing table's
// rows: each archetype row records which table row its values actually
// live at.
type Archetype struct {
	id         ArchetypeID
	tableID    TableID
	entities   []ArchetypeEntity
	components ImmutableSparseMap[ComponentID, ArchetypeComponentInfo]
	edges      Edges
}

// ID returns the archetype's identifier.
func (a *Archetype) ID() ArchetypeID { return a.id }

// TableID returns the backing table's identifier.
func (a *Archetype) TableID() TableID { return a.tableID }

// NumEntities returns how many entities belong to this archetype.
func (a *Archetype) NumEntities() int { return len(a.entities) }

// IsEmpty reports whether the archetype has no entities.
func (a *Archetype) IsEmpty() bool { return len(a.entities) == 0 }

// ContainsComponent reports whether id is part of this archetype's set.
func (a *Archetype) ContainsComponent(id ComponentID) bool { return a.components.ContainsKey(id) }

// ComponentIDs returns the archetype's component set in ascending order.
func (a *Archetype) ComponentIDs() []ComponentID {
	ids := make([]ComponentID, 0, a.components.Len())
	for id := range a.components.Keys() {
		ids = append(ids, id)
	}
	return ids
}

// EntityAt returns the entity occupying row.
func (a *Archetype) EntityAt(row ArchetypeRow) Entity { return a.entities[row].Entity }

// TableRowAt returns the backing table row for row.
func (a *Archetype) TableRowAt(row ArchetypeRow) TableRow { return a.entities[row].TableRow }

// InsertEntity appends entity at tableRow, returning its new archetype row.
func (a *Archetype) InsertEntity(entity Entity, tableRow TableRow) ArchetypeRow {
	row := ArchetypeRow(len(a.entities))
	a.entities = append(a.entities, ArchetypeEntity{Entity: entity, TableRow: tableRow})
	return row
}

// RemoveEntity swap-removes row, returning the entity that moved into its
// place, if any.
func (a *Archetype) RemoveEntity(row ArchetypeRow) *ChangedLocation[ArchetypeRow] {
	last := ArchetypeRow(len(a.entities) - 1)
	var swapped *ChangedLocation[ArchetypeRow]
	if row != last {
		a.entities[row] = a.entities[last]
		swapped = &ChangedLocation[ArchetypeRow]{Entity: a.entities[row].Entity, Row: row}
	}
	a.entities = a.entities[:last]
	return swapped
}

// SetTableRow updates the table row an archetype row maps to, used after a
// table-level swap shifts where a row's values actually live.
func (a *Archetype) SetTableRow(row ArchetypeRow, tableRow TableRow) {
	a.entities[row].TableRow = tableRow
}

// Archetypes owns every distinct component set a World has materialized,
// plus the graph of add/remove-bundle edges linking them.
type Archetypes struct {
	archetypes   []*Archetype
	byComponents map[string]ArchetypeID
}

// NewArchetypes returns an Archetypes collection with the no-components
// empty archetype already present at ArchetypeIDEmpty.
func NewArchetypes() *Archetypes {
	empty := &Archetype{id: ArchetypeIDEmpty, tableID: TableIDEmpty, edges: newEdges()}
	return &Archetypes{
		archetypes:   []*Archetype{empty},
		byComponents: map[string]ArchetypeID{archetypeKey(nil): ArchetypeIDEmpty},
	}
}

// Get returns the archetype for id.
func (a *Archetypes) Get(id ArchetypeID) *Archetype { return a.archetypes[id] }

// GetPair returns the two archetypes for x and y. Storing archetypes as
// pointers sidesteps the aliasing concern the Rust original needs a
// dedicated split-borrow helper for — both pointers are valid to hold at
// once even when x == y.
func (a *Archetypes) GetPair(x, y ArchetypeID) (*Archetype, *Archetype) {
	return a.archetypes[x], a.archetypes[y]
}

func (a *Archetypes) getOrCreate(componentIDs []ComponentID, registry *Components, tables *Tables, rowCapacity int) *Archetype {
	key := archetypeKey(componentIDs)
	if id, ok := a.byComponents[key]; ok {
		return a.archetypes[id]
	}

	table := tables.GetOrCreate(componentIDs, registry, rowCapacity)
	components := NewSparseMap[ComponentID, ArchetypeComponentInfo](len(componentIDs))
	for _, id := range componentIDs {
		info, ok := registry.GetComponentInfo(id)
		if !ok {
			panic("ecs: archetype build referenced unregistered component")
		}
		components.Insert(id, ArchetypeComponentInfo{ComponentID: id, StorageType: info.StorageType})
	}

	id := ArchetypeID(len(a.archetypes))
	archetype := &Archetype{
		id:         id,
		tableID:    table.ID(),
		components: FreezeSparseMap(components),
		edges:      newEdges(),
	}
	a.archetypes = append(a.archetypes, archetype)
	a.byComponents[key] = id
	return archetype
}

// AddBundle returns the cached (or newly computed) AddBundle edge for
// inserting bundleInfo's components into the archetype at sourceID.
func (a *Archetypes) AddBundle(sourceID ArchetypeID, bundleInfo *BundleInfo, registry *Components, tables *Tables, rowCapacity int) AddBundle {
	source := a.archetypes[sourceID]
	if edge, ok := source.edges.AddBundle.Get(bundleInfo.ID); ok {
		return edge
	}

	duplicate := NewSparseSet[ComponentID](len(bundleInfo.ComponentIDs))
	merged := make([]ComponentID, 0, len(source.ComponentIDs())+len(bundleInfo.ComponentIDs))
	seen := NewSparseSet[ComponentID](maxComponentTypes)
	for _, id := range source.ComponentIDs() {
		seen.Insert(id)
		merged = append(merged, id)
	}
	for _, id := range bundleInfo.ComponentIDs {
		if seen.Contains(id) {
			duplicate.Insert(id)
			continue
		}
		seen.Insert(id)
		merged = append(merged, id)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })

	target := a.getOrCreate(merged, registry, tables, rowCapacity)
	edge := AddBundle{Target: target.id, Duplicate: duplicate.Freeze()}
	source.edges.AddBundle.Insert(bundleInfo.ID, edge)
	return edge
}

// RemoveBundle returns the cached (or newly computed) RemoveBundle edge for
// removing bundleInfo's components from the archetype at sourceID.
func (a *Archetypes) RemoveBundle(sourceID ArchetypeID, bundleInfo *BundleInfo, registry *Components, tables *Tables, rowCapacity int) RemoveBundle {
	source := a.archetypes[sourceID]
	if edge, ok := source.edges.RemoveBundle.Get(bundleInfo.ID); ok {
		return edge
	}

	remaining := make([]ComponentID, 0, len(source.ComponentIDs()))
	matched := 0
	for _, id := range source.ComponentIDs() {
		if containsID(bundleInfo.ComponentIDs, id) {
			matched++
			continue
		}
		remaining = append(remaining, id)
	}

	kind := RemoveBundleMatch
	if matched != len(bundleInfo.ComponentIDs) {
		kind = RemoveBundleMismatch
	}

	target := a.getOrCreate(remaining, registry, tables, rowCapacity)
	edge := RemoveBundle{Kind: kind, Target: target.id}
	source.edges.RemoveBundle.Insert(bundleInfo.ID, edge)
	return edge
}

func containsID(ids []ComponentID, target ComponentID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func archetypeKey(ids []ComponentID) string {
	buf := make([]byte, len(ids)*4)
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(id))
	}
	return string(buf)
}
