package hostops

import (
	"sort"

	"github.com/apache/arrow-go/v18/arrow/float16"

	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/dtype"
	"github.com/23skdu/longbow-bodkin/internal/floatx"
	"github.com/23skdu/longbow-bodkin/internal/metrics"
)

type argpartitionFn func(in *device.Array, k, axis int, out *device.Array) error

var argpartitionKernels = NewKernelSet[argpartitionFn]("argpartition").
	On(dtype.Float8E4M3FNUZ, argpartitionBody[floatx.Float8E4M3FNUZ]).
	On(dtype.Float8E4M3FN, argpartitionBody[floatx.Float8E4M3FN]).
	On(dtype.Float16, argpartitionBody[float16.Num]).
	On(dtype.BFloat16, argpartitionBody[floatx.BFloat16]).
	On(dtype.Float32, argpartitionBody[float32])

// Argpartition partitions indices along axis so that the k smallest
// elements of each lane come first. The result has the input's shape
// with dtype int64; index k and everything before it is in final sorted
// position, matching a full ascending argsort of the lane. Negative k
// and axis count from the end.
func Argpartition(in *device.Array, k, axis int, out *device.Array, deviceVisible bool) (*device.Array, error) {
	const op = "argpartition"
	rank := in.Rank()
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return nil, errAxisRange(op, axis, rank)
	}
	axisDim := in.Shape()[axis]
	if k < 0 {
		k += axisDim
	}
	if k < 0 || k >= axisDim {
		return nil, errInvalid(op, "kth out of range: must be [0, %d) but got %d", axisDim, k)
	}
	if out != nil {
		if out.DType() != dtype.Int64 {
			return nil, errInvalid(op, "out array must have dtype=int64")
		}
		if !device.SameShape(out.Shape(), in.Shape()) {
			return nil, errInvalid(op, "out array shape %v does not match input shape %v", out.Shape(), in.Shape())
		}
	}

	fn, err := argpartitionKernels.Dispatch(in.DType())
	if err != nil {
		return nil, err
	}

	allocated := out == nil
	if allocated {
		out = device.Allocate(in.Context(), in.Shape(), dtype.Int64, deviceVisible)
	}
	if err := fn(in, k, axis, out); err != nil {
		if allocated {
			out.Release()
		}
		return nil, err
	}
	metrics.HostOpElements.WithLabelValues(op).Observe(float64(in.Len()))
	return out, nil
}

// argpartitionBody sorts each lane's index vector ascending by value.
// A stable full sort satisfies the partition contract and keeps ties in
// input order.
func argpartitionBody[T device.Elem](in *device.Array, k, axis int, out *device.Array) error {
	shape := in.Shape()
	outer, axisDim, inner := laneDims(shape, axis)
	src := device.View[T](in)
	dst := device.View[int64](out)

	lane := make([]float64, axisDim)
	order := make([]int64, axisDim)
	for o := 0; o < outer; o++ {
		base := o * axisDim * inner
		for i := 0; i < inner; i++ {
			for j := 0; j < axisDim; j++ {
				lane[j] = elemToFloat64(src[base+j*inner+i])
				order[j] = int64(j)
			}
			sort.SliceStable(order, func(a, b int) bool {
				return lane[order[a]] < lane[order[b]]
			})
			for j := 0; j < axisDim; j++ {
				dst[base+j*inner+i] = order[j]
			}
		}
	}
	return nil
}
