package hostops

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow/float16"

	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/dtype"
	"github.com/23skdu/longbow-bodkin/internal/floatx"
	"github.com/23skdu/longbow-bodkin/internal/metrics"
)

type unaryFn func(in, out *device.Array, body func(float64) float64)

func unaryKernels(op string) *KernelSet[unaryFn] {
	return NewKernelSet[unaryFn](op).
		On(dtype.Float8E4M3FNUZ, unaryBody[floatx.Float8E4M3FNUZ]).
		On(dtype.Float8E4M3FN, unaryBody[floatx.Float8E4M3FN]).
		On(dtype.Float16, unaryBody[float16.Num]).
		On(dtype.BFloat16, unaryBody[floatx.BFloat16]).
		On(dtype.Float32, unaryBody[float32])
}

var (
	expKernels = unaryKernels("exp")
	logKernels = unaryKernels("log")
)

// Exp computes e**x elementwise. The result keeps the input's dtype;
// narrow floats compute in float32 and re-encode.
func Exp(in *device.Array, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return genericUnary("exp", in, out, deviceVisible, expKernels, math.Exp)
}

// Log computes the natural logarithm elementwise in the input's dtype.
func Log(in *device.Array, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return genericUnary("log", in, out, deviceVisible, logKernels, math.Log)
}

func genericUnary(op string, in, out *device.Array, deviceVisible bool, kernels *KernelSet[unaryFn], body func(float64) float64) (*device.Array, error) {
	if out != nil {
		if out.DType() != in.DType() {
			return nil, errInvalid(op, "out array must have dtype=%s but got %s", in.DType(), out.DType())
		}
		if !device.SameShape(out.Shape(), in.Shape()) {
			return nil, errInvalid(op, "out array shape %v does not match input shape %v", out.Shape(), in.Shape())
		}
	}

	fn, err := kernels.Dispatch(in.DType())
	if err != nil {
		return nil, err
	}

	allocated := out == nil
	if allocated {
		out = device.Allocate(in.Context(), in.Shape(), in.DType(), deviceVisible)
	}
	fn(in, out, body)
	metrics.HostOpElements.WithLabelValues(op).Observe(float64(out.Len()))
	return out, nil
}

func unaryBody[T device.Elem](in, out *device.Array, body func(float64) float64) {
	src := device.View[T](in)
	dst := device.View[T](out)
	for i, v := range src {
		dst[i] = elemFromFloat64[T](body(elemToFloat64(v)))
	}
}
