package ecs

import "unsafe"

// DropFn runs a component type's destructor on a pointer to one live cell.
type DropFn func(unsafe.Pointer)

// BlobVec is a growable, type-erased buffer of N elements sharing one fixed
// byte layout. It is the storage primitive behind a table Column: a column
// never knows the static type of what it holds, only its size and an
// optional drop function.
type BlobVec struct {
	elemSize uintptr
	data     []byte
	length   int
	dropFn   DropFn
}

// NewBlobVec returns an empty BlobVec for elements of elemSize bytes, with
// room preallocated for capacity elements. A zero elemSize (a zero-sized
// component type) never allocates; only the logical length is tracked.
func NewBlobVec(elemSize uintptr, dropFn DropFn, capacity int) *BlobVec {
	b := &BlobVec{elemSize: elemSize, dropFn: dropFn}
	if elemSize > 0 && capacity > 0 {
		b.data = make([]byte, 0, capacity*int(elemSize))
	}
	return b
}

// Len returns the number of live elements.
func (b *BlobVec) Len() int { return b.length }

// IsEmpty reports whether the vector holds no elements.
func (b *BlobVec) IsEmpty() bool { return b.length == 0 }

// Reserve grows backing capacity by at least additional elements.
func (b *BlobVec) Reserve(additional int) {
	if b.elemSize == 0 || additional <= 0 {
		return
	}
	needed := len(b.data) + additional*int(b.elemSize)
	if cap(b.data) >= needed {
		return
	}
	grown := make([]byte, len(b.data), max2(cap(b.data)*2, needed))
	copy(grown, b.data)
	b.data = grown
}

// Push appends one element, copying elemSize bytes from src. Ownership of
// the pointed-to value transfers to the vector: the caller must not run its
// destructor afterwards.
func (b *BlobVec) Push(src unsafe.Pointer) {
	if b.elemSize > 0 {
		oldLen := len(b.data)
		b.data = extendByteSlice(b.data, int(b.elemSize))
		copySized(unsafe.Pointer(&b.data[oldLen]), src, b.elemSize)
	}
	b.length++
}

// at returns a pointer to the index-th element, or nil for a zero-sized type.
func (b *BlobVec) at(index int) unsafe.Pointer {
	if b.elemSize == 0 {
		return nil
	}
	return unsafe.Pointer(&b.data[index*int(b.elemSize)])
}

// SwapRemoveAndDrop removes index, swapping the tail element into its slot,
// invoking the drop function (if registered) on the removed cell first.
func (b *BlobVec) SwapRemoveAndDrop(index int) {
	if b.dropFn != nil {
		b.dropFn(b.at(index))
	}
	b.swapRemoveRaw(index)
}

// SwapRemoveAndForget removes index, copying the removed cell's bytes into
// dst without invoking drop: ownership passes to the caller, who now owns
// dst's value.
func (b *BlobVec) SwapRemoveAndForget(index int, dst unsafe.Pointer) {
	if b.elemSize > 0 {
		copySized(dst, b.at(index), b.elemSize)
	}
	b.swapRemoveRaw(index)
}

func (b *BlobVec) swapRemoveRaw(index int) {
	last := b.length - 1
	if b.elemSize > 0 {
		if index != last {
			size := int(b.elemSize)
			copy(b.data[index*size:(index+1)*size], b.data[last*size:(last+1)*size])
		}
		b.data = b.data[:last*int(b.elemSize)]
	}
	b.length--
}

// MoveTo moves the index-th element out of b into other, which must share
// the same element layout, without invoking drop on either side. b then
// swap-removes index exactly as SwapRemoveAndForget would.
func (b *BlobVec) MoveTo(index int, other *BlobVec) {
	if b.elemSize != other.elemSize {
		panic("ecs: BlobVec.MoveTo: mismatched element layout")
	}
	if b.elemSize > 0 {
		other.data = extendByteSlice(other.data, int(b.elemSize))
		copySized(unsafe.Pointer(&other.data[len(other.data)-int(b.elemSize)]), b.at(index), b.elemSize)
	}
	other.length++
	b.swapRemoveRaw(index)
}

// Clear invokes drop (if registered) on every live element, then empties
// the vector.
func (b *BlobVec) Clear() {
	if b.dropFn != nil {
		for i := 0; i < b.length; i++ {
			b.dropFn(b.at(i))
		}
	}
	if b.elemSize > 0 {
		b.data = b.data[:0]
	}
	b.length = 0
}

// BlobVecSlice returns a typed view over every live element of b. The
// caller is the one statically asserting the true element type; a mismatch
// here is the same class of contract violation spec's bundle trait carries
// (type-identity mismatch is undefined behavior, not defensively checked).
func BlobVecSlice[T any](b *BlobVec) []T {
	if b.length == 0 {
		return nil
	}
	if b.elemSize == 0 {
		return unsafe.Slice((*T)(unsafe.Pointer(&zeroSizedSentinel)), b.length)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b.data[0])), b.length)
}

// zeroSizedSentinel is a shared address every element of a zero-sized
// BlobVec points at: zero-sized values carry no state, so aliasing them is
// safe.
var zeroSizedSentinel byte

func copySized(dst, src unsafe.Pointer, size uintptr) {
	if size == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))
}
