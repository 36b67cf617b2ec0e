package hostops

import (
	"github.com/apache/arrow-go/v18/arrow/float16"

	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/dtype"
	"github.com/23skdu/longbow-bodkin/internal/floatx"
	"github.com/23skdu/longbow-bodkin/internal/metrics"
)

type argmaxFn func(in *device.Array, axis int, out *device.Array) error

var argmaxKernels = NewKernelSet[argmaxFn]("argmax").
	On(dtype.Float8E4M3FNUZ, argmaxBody[floatx.Float8E4M3FNUZ]).
	On(dtype.Float8E4M3FN, argmaxBody[floatx.Float8E4M3FN]).
	On(dtype.Float16, argmaxBody[float16.Num]).
	On(dtype.BFloat16, argmaxBody[floatx.BFloat16]).
	On(dtype.Float32, argmaxBody[float32])

// Argmax returns the index of the maximum element along axis as an
// int64 array. A negative axis counts from the end. With keepDims the
// reduced axis stays in the result shape with extent 1; otherwise it is
// dropped. Ties resolve to the lowest index.
func Argmax(in *device.Array, axis int, out *device.Array, keepDims, deviceVisible bool) (*device.Array, error) {
	const op = "argmax"
	rank := in.Rank()
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return nil, errAxisRange(op, axis, rank)
	}

	reduced := reducedShape(in.Shape(), axis, keepDims)
	if out != nil {
		if out.DType() != dtype.Int64 {
			return nil, errInvalid(op, "out array must have dtype=int64")
		}
		if !device.SameShape(out.Shape(), reduced) {
			return nil, errInvalid(op, "out array shape %v does not match result shape %v", out.Shape(), reduced)
		}
	}

	fn, err := argmaxKernels.Dispatch(in.DType())
	if err != nil {
		return nil, err
	}

	allocated := out == nil
	if allocated {
		out = device.Allocate(in.Context(), reduced, dtype.Int64, deviceVisible)
	}
	if err := fn(in, axis, out); err != nil {
		if allocated {
			out.Release()
		}
		return nil, err
	}
	metrics.HostOpElements.WithLabelValues(op).Observe(float64(in.Len()))
	return out, nil
}

// reducedShape drops (or pins to 1) the reduced axis.
func reducedShape(shape []int, axis int, keepDims bool) []int {
	reduced := make([]int, 0, len(shape))
	for i, d := range shape {
		if i == axis {
			if keepDims {
				reduced = append(reduced, 1)
			}
			continue
		}
		reduced = append(reduced, d)
	}
	return reduced
}

// argmaxBody scans each lane along the reduced axis. The array is
// viewed as [outer, axis, inner] in row-major order, so a lane is a
// strided walk with stride = inner.
func argmaxBody[T device.Elem](in *device.Array, axis int, out *device.Array) error {
	shape := in.Shape()
	outer, axisDim, inner := laneDims(shape, axis)
	src := device.View[T](in)
	dst := device.View[int64](out)

	for o := 0; o < outer; o++ {
		base := o * axisDim * inner
		for i := 0; i < inner; i++ {
			best := int64(0)
			bestVal := elemToFloat64(src[base+i])
			for j := 1; j < axisDim; j++ {
				v := elemToFloat64(src[base+j*inner+i])
				if v > bestVal {
					bestVal = v
					best = int64(j)
				}
			}
			dst[o*inner+i] = best
		}
	}
	return nil
}

// laneDims collapses shape into [outer, axis, inner] extents.
func laneDims(shape []int, axis int) (outer, axisDim, inner int) {
	outer, inner = 1, 1
	for i := 0; i < axis; i++ {
		outer *= shape[i]
	}
	axisDim = shape[axis]
	for i := axis + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, axisDim, inner
}
