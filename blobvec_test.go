package ecs

import (
	"testing"
	"unsafe"
)

func TestBlobVecPushAndSlice(t *testing.T) {
	b := NewBlobVec(unsafe.Sizeof(int64(0)), nil, 0)
	for _, v := range []int64{1, 2, 3} {
		v := v
		b.Push(unsafe.Pointer(&v))
	}
	if b.Len() != 3 {
		t.Fatalf("got len %d, want 3", b.Len())
	}
	got := BlobVecSlice[int64](b)
	want := []int64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBlobVecSwapRemoveAndDropInvokesDropFn(t *testing.T) {
	drops := 0
	dropFn := func(p unsafe.Pointer) { drops++ }
	b := NewBlobVec(unsafe.Sizeof(int64(0)), dropFn, 0)
	for _, v := range []int64{1, 2, 3} {
		v := v
		b.Push(unsafe.Pointer(&v))
	}

	b.SwapRemoveAndDrop(0)
	if drops != 1 {
		t.Fatalf("got %d drops, want 1", drops)
	}
	if b.Len() != 2 {
		t.Fatalf("got len %d, want 2", b.Len())
	}
	got := BlobVecSlice[int64](b)
	if got[0] != 3 {
		t.Fatalf("expected tail element swapped into removed slot, got %v", got)
	}
}

func TestBlobVecSwapRemoveAndForgetSkipsDrop(t *testing.T) {
	drops := 0
	dropFn := func(p unsafe.Pointer) { drops++ }
	b := NewBlobVec(unsafe.Sizeof(int64(0)), dropFn, 0)
	v := int64(42)
	b.Push(unsafe.Pointer(&v))

	var out int64
	b.SwapRemoveAndForget(0, unsafe.Pointer(&out))
	if drops != 0 {
		t.Fatalf("SwapRemoveAndForget must not invoke drop, got %d calls", drops)
	}
	if out != 42 {
		t.Fatalf("got %d, want 42", out)
	}
}

func TestBlobVecMoveToTransfersWithoutDrop(t *testing.T) {
	drops := 0
	dropFn := func(p unsafe.Pointer) { drops++ }
	src := NewBlobVec(unsafe.Sizeof(int64(0)), dropFn, 0)
	dst := NewBlobVec(unsafe.Sizeof(int64(0)), dropFn, 0)
	v := int64(7)
	src.Push(unsafe.Pointer(&v))

	src.MoveTo(0, dst)
	if drops != 0 {
		t.Fatalf("MoveTo must not invoke drop, got %d calls", drops)
	}
	if src.Len() != 0 || dst.Len() != 1 {
		t.Fatalf("got src len %d dst len %d, want 0 and 1", src.Len(), dst.Len())
	}
	if got := BlobVecSlice[int64](dst)[0]; got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestBlobVecClearDropsEveryElement(t *testing.T) {
	drops := 0
	dropFn := func(p unsafe.Pointer) { drops++ }
	b := NewBlobVec(unsafe.Sizeof(int64(0)), dropFn, 0)
	for _, v := range []int64{1, 2, 3} {
		v := v
		b.Push(unsafe.Pointer(&v))
	}
	b.Clear()
	if drops != 3 {
		t.Fatalf("got %d drops, want 3", drops)
	}
	if b.Len() != 0 {
		t.Fatalf("got len %d, want 0", b.Len())
	}
}

func TestBlobVecZeroSizedElementsTrackLengthOnly(t *testing.T) {
	b := NewBlobVec(0, nil, 0)
	b.Push(nil)
	b.Push(nil)
	if b.Len() != 2 {
		t.Fatalf("got len %d, want 2", b.Len())
	}
	b.SwapRemoveAndDrop(0)
	if b.Len() != 1 {
		t.Fatalf("got len %d, want 1", b.Len())
	}
}
