package device

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/23skdu/longbow-bodkin/internal/dtype"
)

func TestAllocateAndView(t *testing.T) {
	ctx := NewContext()
	a := Allocate(ctx, []int{2, 3}, dtype.Float32, false)
	defer a.Release()

	if a.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", a.Len())
	}
	if got := len(a.Bytes()); got != 24 {
		t.Fatalf("buffer holds %d bytes, want 24", got)
	}
	v := View[float32](a)
	for i := range v {
		v[i] = float32(i)
	}
	if v[5] != 5 {
		t.Errorf("wrote 5 at tail, read %v", v[5])
	}
}

func TestReleaseReturnsMemory(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer alloc.AssertSize(t, 0)
	ctx := NewContextWithAllocator(alloc)

	a := Allocate(ctx, []int{16}, dtype.Float64, false)
	a.Release()
}

func TestViewWidthMismatchPanics(t *testing.T) {
	ctx := NewContext()
	a := Allocate(ctx, []int{4}, dtype.Float32, false)
	defer a.Release()

	defer func() {
		if recover() == nil {
			t.Fatal("viewing float32 storage as float64 must panic")
		}
	}()
	_ = View[float64](a)
}

func TestReshape(t *testing.T) {
	ctx := NewContext()
	a := Allocate(ctx, []int{2, 3}, dtype.Int16, false)
	defer a.Release()

	if err := a.Reshape([]int{3, 2}); err != nil {
		t.Fatalf("compatible reshape failed: %v", err)
	}
	if err := a.Reshape([]int{4, 2}); err == nil {
		t.Fatal("reshape must reject element count changes")
	}
}

func TestRowMajorStrides(t *testing.T) {
	got := RowMajorStrides([]int{2, 3, 4})
	want := []int{12, 4, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RowMajorStrides([2 3 4]) = %v, want %v", got, want)
		}
	}
}

func TestSameShape(t *testing.T) {
	if !SameShape([]int{2, 3}, []int{2, 3}) {
		t.Error("identical shapes must compare equal")
	}
	if SameShape([]int{2, 3}, []int{3, 2}) {
		t.Error("transposed shapes must not compare equal")
	}
	if !SameShape(nil, []int{}) {
		t.Error("rank-0 shapes must compare equal regardless of nil-ness")
	}
}
