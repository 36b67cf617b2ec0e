// Package device provides the host-side array storage the kernel
// dispatch engine operates on: dtyped, shaped, contiguous buffers with
// typed element views.
package device

import (
	"fmt"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow/float16"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/23skdu/longbow-bodkin/internal/dtype"
	"github.com/23skdu/longbow-bodkin/internal/floatx"
	"github.com/23skdu/longbow-bodkin/internal/metrics"
)

// Elem is the closed set of element types a kernel can be instantiated
// at. Adding a dtype means extending this union and the dispatch table
// of every kernel family that supports it.
type Elem interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64 |
		float16.Num | floatx.BFloat16 | floatx.Float8E4M3FN | floatx.Float8E4M3FNUZ
}

// Device identifies where an array lives. Host ops only ever touch the
// host device; the tag exists so allocations carry placement intent.
type Device int

const Host Device = -1

func (d Device) String() string {
	if d == Host {
		return "host"
	}
	return fmt.Sprintf("device%d", int(d))
}

// Context owns the allocator used for host array storage.
type Context struct {
	alloc memory.Allocator
	dev   Device
}

func NewContext() *Context {
	return &Context{alloc: memory.NewGoAllocator(), dev: Host}
}

// NewContextWithAllocator is used by tests and callers that track
// allocations (e.g. memory.CheckedAllocator).
func NewContextWithAllocator(alloc memory.Allocator) *Context {
	return &Context{alloc: alloc, dev: Host}
}

func (c *Context) Device() Device { return c.dev }

// Array is a dense, contiguous, row-major host array of a single dtype.
type Array struct {
	buf           *memory.Buffer
	ctx           *Context
	dt            dtype.DType
	shape         []int
	dev           Device
	deviceVisible bool
}

// Allocate creates a host array for the given shape and dtype. The
// deviceVisible flag records whether the buffer may later be exposed to
// a device; host ops treat it as opaque intent.
func Allocate(ctx *Context, shape []int, dt dtype.DType, deviceVisible bool) *Array {
	n := NumElements(shape)
	buf := memory.NewResizableBuffer(ctx.alloc)
	buf.Resize(n * dt.DenseByteCount())
	metrics.HostBytesAllocated.Add(float64(n * dt.DenseByteCount()))
	return &Array{
		buf:           buf,
		ctx:           ctx,
		dt:            dt,
		shape:         append([]int(nil), shape...),
		dev:           ctx.dev,
		deviceVisible: deviceVisible,
	}
}

// Context returns the context the array was allocated from, so derived
// outputs can be placed alongside their inputs.
func (a *Array) Context() *Context { return a.ctx }

// Reshape replaces the array's dimensions without moving data. The new
// shape must describe the same element count.
func (a *Array) Reshape(shape []int) error {
	if NumElements(shape) != a.Len() {
		return fmt.Errorf("device: reshape %v to %v changes element count", a.shape, shape)
	}
	a.shape = append([]int(nil), shape...)
	return nil
}

func (a *Array) DType() dtype.DType  { return a.dt }
func (a *Array) Device() Device      { return a.dev }
func (a *Array) DeviceVisible() bool { return a.deviceVisible }

// Shape returns the array's dimensions. Callers must not mutate it.
func (a *Array) Shape() []int { return a.shape }

// Rank returns the number of dimensions.
func (a *Array) Rank() int { return len(a.shape) }

// Len returns the number of elements.
func (a *Array) Len() int { return NumElements(a.shape) }

// Bytes exposes the raw storage.
func (a *Array) Bytes() []byte { return a.buf.Bytes() }

// Release returns the backing buffer to the allocator.
func (a *Array) Release() {
	metrics.HostBytesAllocated.Sub(float64(a.buf.Len()))
	a.buf.Release()
}

// View casts the array's storage to a typed element slice. The element
// type must match the array's dtype width; mixing them up is a
// programming error, not a data-dependent condition.
func View[T Elem](a *Array) []T {
	var zero T
	if int(unsafe.Sizeof(zero)) != a.dt.DenseByteCount() {
		panic(fmt.Sprintf("device: view element size %d does not match dtype %s", unsafe.Sizeof(zero), a.dt))
	}
	n := a.Len()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(a.buf.Bytes()))), n)
}

// NumElements returns the element count of a shape. The empty shape is
// a scalar with one element.
func NumElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// RowMajorStrides returns element strides for a contiguous row-major
// layout of shape.
func RowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

// SameShape reports whether two shapes are identical.
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
