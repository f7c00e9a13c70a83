package ecs

import "unsafe"

// Column is one type-erased component column inside a Table: a BlobVec
// plus the ComponentID it's registered under.
type Column struct {
	componentID ComponentID
	data        *BlobVec
}

// NewColumn allocates a Column for info, with room for capacity rows.
func NewColumn(info ComponentInfo, capacity int) *Column {
	return &Column{
		componentID: info.ID,
		data:        NewBlobVec(info.Descriptor.Size, info.Descriptor.DropFn, capacity),
	}
}

// ComponentID returns the component type this column stores.
func (c *Column) ComponentID() ComponentID { return c.componentID }

// Len returns the number of rows currently stored.
func (c *Column) Len() int { return c.data.Len() }

// Push appends one row, transferring ownership of the value at src.
func (c *Column) Push(src unsafe.Pointer) { c.data.Push(src) }

// SwapRemoveAndDrop removes row, running the component's destructor.
func (c *Column) SwapRemoveAndDrop(row int) { c.data.SwapRemoveAndDrop(row) }

// SwapRemoveAndForget removes row, copying its bytes into dst without
// running the destructor: ownership passes to the caller.
func (c *Column) SwapRemoveAndForget(row int, dst unsafe.Pointer) {
	c.data.SwapRemoveAndForget(row, dst)
}

// MoveTo moves row out of c into dst, which must share the same element
// layout, without running the destructor on either side.
func (c *Column) MoveTo(row int, dst *Column) { c.data.MoveTo(row, dst.data) }

// Clear drops every row and empties the column.
func (c *Column) Clear() { c.data.Clear() }
