package ecs

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// TableID identifies one table (a distinct set of columns) inside Tables.
type TableID uint32

const (
	// TableIDEmpty is the table with no columns, always present at index 0.
	TableIDEmpty TableID = 0
	// TableIDInvalid marks the absence of a table.
	TableIDInvalid TableID = ^TableID(0)
)

// TableRow is a row index inside one Table's columns.
type TableRow uint32

// TableRowInvalid marks the absence of a row.
const TableRowInvalid TableRow = ^TableRow(0)

// ChangedLocation reports that removing a row caused the last row to be
// swapped into the removed slot, so entity's bookkeeping at row needs
// updating.
type ChangedLocation[R any] struct {
	Entity Entity
	Row    R
}

// Table is a column store: one BlobVec-backed Column per component type,
// all the same length, plus the parallel list of entities owning each row.
type Table struct {
	id       TableID
	columns  ImmutableSparseMap[ComponentID, *Column]
	entities []Entity
}

// ID returns the table's identifier.
func (t *Table) ID() TableID { return t.id }

// NumEntities returns how many rows the table currently holds.
func (t *Table) NumEntities() int { return len(t.entities) }

// NumComponents returns how many distinct columns the table has.
func (t *Table) NumComponents() int { return t.columns.Len() }

// IsEmpty reports whether the table holds no rows.
func (t *Table) IsEmpty() bool { return len(t.entities) == 0 }

// HasColumn reports whether id has a column in this table.
func (t *Table) HasColumn(id ComponentID) bool { return t.columns.ContainsKey(id) }

// GetColumn returns the column for id, if present.
func (t *Table) GetColumn(id ComponentID) (*Column, bool) { return t.columns.Get(id) }

// ComponentIDs iterates the table's component ids in ascending order.
func (t *Table) ComponentIDs() []ComponentID {
	ids := make([]ComponentID, 0, t.columns.Len())
	for id := range t.columns.Keys() {
		ids = append(ids, id)
	}
	return ids
}

// EntityAt returns the entity occupying row.
func (t *Table) EntityAt(row TableRow) Entity { return t.entities[row] }

// Clear drops every row in every column and empties the entity list.
func (t *Table) Clear() {
	for _, col := range t.columns.All() {
		col.Clear()
	}
	t.entities = t.entities[:0]
}

// InsertIntoTable is a handle to a freshly reserved, not-yet-populated row:
// every column must be written via WriteColumn before the row is live.
type InsertIntoTable struct {
	Table *Table
	Row   TableRow
}

// InsertRow reserves a new row for entity, returning a handle used to write
// each column's value.
func (t *Table) InsertRow(entity Entity) InsertIntoTable {
	row := TableRow(len(t.entities))
	t.entities = append(t.entities, entity)
	return InsertIntoTable{Table: t, Row: row}
}

// WriteColumn writes one component's bytes into the reserved row, transferring
// ownership of the value at src. Writing to a component the table has no
// column for is a fatal error naming every column the table actually has.
func (ins InsertIntoTable) WriteColumn(id ComponentID, src unsafe.Pointer) {
	col, ok := ins.Table.columns.Get(id)
	if !ok {
		names := make([]string, 0, ins.Table.columns.Len())
		for cid := range ins.Table.columns.Keys() {
			names = append(names, fmt.Sprintf("%d", cid))
		}
		panic(fmt.Sprintf("ecs: table has no column for component %d; columns present: %s", id, joined(", ", names)))
	}
	col.Push(src)
}

// MoveRowResult reports the outcome of moving a row between tables.
type MoveRowResult struct {
	// Swapped is non-nil if removing the row from the source table swapped
	// the last row into its place.
	Swapped *ChangedLocation[TableRow]
	// InsertedRow is the row the entity now occupies in the destination table.
	InsertedRow TableRow
}

// MoveRowHandleUnmatched decides what happens to a source column with no
// matching column in the destination table during a row migration.
type MoveRowHandleUnmatched interface {
	handle(col *Column, row TableRow)
}

// MoveRowDropUnmatched drops the unmatched component's value. Used when the
// component is being removed outright.
type MoveRowDropUnmatched struct{}

func (MoveRowDropUnmatched) handle(col *Column, row TableRow) {
	col.SwapRemoveAndDrop(int(row))
}

// MoveRowForgetUnmatched copies the unmatched component's raw bytes out
// without running its destructor, stashing them in Taken for the caller to
// reconstruct (used when a component is being taken out by value).
type MoveRowForgetUnmatched struct {
	Taken map[ComponentID][]byte
}

func (f MoveRowForgetUnmatched) handle(col *Column, row TableRow) {
	size := col.data.elemSize
	buf := make([]byte, size)
	if size > 0 {
		col.SwapRemoveAndForget(int(row), unsafe.Pointer(&buf[0]))
	} else {
		col.SwapRemoveAndForget(int(row), nil)
	}
	f.Taken[col.componentID] = buf
}

// MoveRowPanicUnmatched treats any unmatched column as a contract violation:
// the destination archetype was supposed to be a superset of the source.
type MoveRowPanicUnmatched struct{}

func (MoveRowPanicUnmatched) handle(col *Column, row TableRow) {
	panic(fmt.Sprintf("ecs: unexpected unmatched column: %d", col.componentID))
}

// MoveRow migrates row from t to dst: every column both tables share is
// moved without invoking drop; every column only t has is handed to
// unmatched. The entity recorded at t.entities[row] is appended to dst's
// entity list for the freshly inserted row.
func (t *Table) MoveRow(row TableRow, dst *Table, unmatched MoveRowHandleUnmatched) MoveRowResult {
	entity := t.entities[row]
	for id, col := range t.columns.All() {
		if dstCol, ok := dst.columns.Get(id); ok {
			col.MoveTo(int(row), dstCol)
		} else {
			unmatched.handle(col, row)
		}
	}

	last := len(t.entities) - 1
	var swapped *ChangedLocation[TableRow]
	if int(row) != last {
		t.entities[row] = t.entities[last]
		swapped = &ChangedLocation[TableRow]{Entity: t.entities[row], Row: row}
	}
	t.entities = t.entities[:last]

	insertRow := TableRow(len(dst.entities))
	dst.entities = append(dst.entities, entity)
	return MoveRowResult{Swapped: swapped, InsertedRow: insertRow}
}

// RemoveRow drops every column's value at row and swap-removes it.
func (t *Table) RemoveRow(row TableRow) *ChangedLocation[TableRow] {
	for _, col := range t.columns.All() {
		col.SwapRemoveAndDrop(int(row))
	}
	last := len(t.entities) - 1
	var swapped *ChangedLocation[TableRow]
	if int(row) != last {
		t.entities[row] = t.entities[last]
		swapped = &ChangedLocation[TableRow]{Entity: t.entities[row], Row: row}
	}
	t.entities = t.entities[:last]
	return swapped
}

// TableBuilder accumulates columns before freezing them into a Table.
type TableBuilder struct {
	columns     *SparseMap[ComponentID, *Column]
	rowCapacity int
}

// NewTableBuilder returns a builder that will preallocate rowCapacity rows
// per column.
func NewTableBuilder(rowCapacity int) *TableBuilder {
	return &TableBuilder{columns: NewSparseMap[ComponentID, *Column](maxComponentTypes), rowCapacity: rowCapacity}
}

// AddColumn adds a column for info.
func (b *TableBuilder) AddColumn(info ComponentInfo) *TableBuilder {
	b.columns.Insert(info.ID, NewColumn(info, b.rowCapacity))
	return b
}

// Build freezes the accumulated columns into a Table with the given id.
func (b *TableBuilder) Build(id TableID) *Table {
	return &Table{id: id, columns: FreezeSparseMap(b.columns)}
}

// Tables owns every distinct column layout a World has materialized, keyed
// by its exact (sorted, deduplicated) component id list so a bundle
// insertion can reuse an existing table instead of creating a new one.
type Tables struct {
	tables       []*Table
	byComponents map[string]TableID
}

// NewTables returns a Tables collection with the no-columns empty table
// already present at TableIDEmpty.
func NewTables() *Tables {
	empty := NewTableBuilder(0).Build(TableIDEmpty)
	return &Tables{
		tables:       []*Table{empty},
		byComponents: map[string]TableID{tableKey(nil): TableIDEmpty},
	}
}

// Get returns the table for id.
func (t *Tables) Get(id TableID) *Table { return t.tables[id] }

// GetPair returns the two tables for a and b. Go's storage-by-pointer-slice
// means the aliasing hazard Rust's borrow checker forces a special helper
// for doesn't exist here: both pointers are always safe to hold
// simultaneously, even when a == b.
func (t *Tables) GetPair(a, b TableID) (*Table, *Table) {
	return t.tables[a], t.tables[b]
}

// GetOrCreate returns the table whose columns are exactly componentIDs
// (already sorted and deduplicated), building and registering a new one via
// registry if none exists yet.
func (t *Tables) GetOrCreate(componentIDs []ComponentID, registry *Components, rowCapacity int) *Table {
	key := tableKey(componentIDs)
	if id, ok := t.byComponents[key]; ok {
		return t.tables[id]
	}

	builder := NewTableBuilder(rowCapacity)
	for _, id := range componentIDs {
		info, ok := registry.GetComponentInfo(id)
		if !ok {
			panic(fmt.Sprintf("ecs: table build referenced unregistered component %d", id))
		}
		builder.AddColumn(info)
	}

	id := TableID(len(t.tables))
	table := builder.Build(id)
	t.tables = append(t.tables, table)
	t.byComponents[key] = id
	return table
}

// Clear empties every table's rows, without forgetting the layouts
// themselves.
func (t *Tables) Clear() {
	for _, table := range t.tables {
		table.Clear()
	}
}

func tableKey(ids []ComponentID) string {
	buf := make([]byte, len(ids)*4)
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(id))
	}
	return string(buf)
}
