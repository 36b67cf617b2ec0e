package hostops

import (
	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/metrics"
)

// Transpose permutes the axes of in according to perm and materializes
// the result in row-major order. Pure data movement: it dispatches on
// element byte width, not logical dtype, so every byte-aligned dtype is
// accepted.
func Transpose(in *device.Array, perm []int, out *device.Array, deviceVisible bool) (*device.Array, error) {
	const op = "transpose"
	rank := in.Rank()
	if len(perm) != rank {
		return nil, errInvalid(op, "permutation must have length %d but got %d", rank, len(perm))
	}
	seen := make([]bool, rank)
	for _, p := range perm {
		if p < 0 || p >= rank {
			return nil, errAxisRange(op, p, rank)
		}
		if seen[p] {
			return nil, errInvalid(op, "permutation %v repeats axis %d", perm, p)
		}
		seen[p] = true
	}

	shape := in.Shape()
	permShape := make([]int, rank)
	for i, p := range perm {
		permShape[i] = shape[p]
	}
	if out != nil {
		if out.DType() != in.DType() {
			return nil, errInvalid(op, "out array must have dtype=%s but got %s", in.DType(), out.DType())
		}
		if !device.SameShape(out.Shape(), permShape) {
			return nil, errInvalid(op, "out array shape %v does not match transposed shape %v", out.Shape(), permShape)
		}
	}

	allocated := out == nil
	alloc := func() {
		if allocated && out == nil {
			out = device.Allocate(in.Context(), permShape, in.DType(), deviceVisible)
		}
	}
	err := DispatchWidth(in.DType(), op, WidthKernel{
		W1: func() error { alloc(); transposeMove[uint8](in, perm, out); return nil },
		W2: func() error { alloc(); transposeMove[uint16](in, perm, out); return nil },
		W4: func() error { alloc(); transposeMove[uint32](in, perm, out); return nil },
		W8: func() error { alloc(); transposeMove[uint64](in, perm, out); return nil },
	})
	if err != nil {
		return nil, err
	}
	metrics.HostOpElements.WithLabelValues(op).Observe(float64(out.Len()))
	return out, nil
}

// transposeMove copies element bit patterns at width U, walking the
// output in row-major order and gathering from the permuted input
// strides.
func transposeMove[U uint8 | uint16 | uint32 | uint64](in *device.Array, perm []int, out *device.Array) {
	srcStrides := device.RowMajorStrides(in.Shape())
	gather := make([]int, len(perm))
	for i, p := range perm {
		gather[i] = srcStrides[p]
	}
	outShape := out.Shape()

	src := device.View[U](in)
	dst := device.View[U](out)
	idx := make([]int, len(outShape))
	for i := range dst {
		off := 0
		for d, v := range idx {
			off += v * gather[d]
		}
		dst[i] = src[off]
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
		}
	}
}
