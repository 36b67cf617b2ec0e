package hostops

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow/float16"

	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/dtype"
	"github.com/23skdu/longbow-bodkin/internal/metrics"
)

type softmaxFn func(in *device.Array, axis int, out *device.Array, logVariant bool)

func softmaxKernelSet(op string) *KernelSet[softmaxFn] {
	return NewKernelSet[softmaxFn](op).
		On(dtype.Float16, softmaxBody[float16.Num]).
		On(dtype.Float32, softmaxBody[float32])
}

var (
	softmaxKernels    = softmaxKernelSet("softmax")
	logSoftmaxKernels = softmaxKernelSet("log_softmax")
)

// Softmax normalizes each lane along axis into a probability
// distribution. Lanes are shifted by their maximum before
// exponentiation so large inputs do not overflow.
func Softmax(in *device.Array, axis int, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return genericSoftmax("softmax", in, axis, out, deviceVisible, softmaxKernels, false)
}

// LogSoftmax computes log(softmax(x)) along axis without taking the
// log of intermediate probabilities, keeping small terms accurate.
func LogSoftmax(in *device.Array, axis int, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return genericSoftmax("log_softmax", in, axis, out, deviceVisible, logSoftmaxKernels, true)
}

func genericSoftmax(op string, in *device.Array, axis int, out *device.Array, deviceVisible bool, kernels *KernelSet[softmaxFn], logVariant bool) (*device.Array, error) {
	rank := in.Rank()
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return nil, errAxisRange(op, axis, rank)
	}
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
	fn(in, axis, out, logVariant)
	metrics.HostOpElements.WithLabelValues(op).Observe(float64(out.Len()))
	return out, nil
}

func softmaxBody[T device.Elem](in *device.Array, axis int, out *device.Array, logVariant bool) {
	shape := in.Shape()
	outer, axisDim, inner := laneDims(shape, axis)
	src := device.View[T](in)
	dst := device.View[T](out)

	lane := make([]float64, axisDim)
	for o := 0; o < outer; o++ {
		base := o * axisDim * inner
		for i := 0; i < inner; i++ {
			max := math.Inf(-1)
			for j := 0; j < axisDim; j++ {
				lane[j] = elemToFloat64(src[base+j*inner+i])
				if lane[j] > max {
					max = lane[j]
				}
			}
			sum := 0.0
			for j := 0; j < axisDim; j++ {
				lane[j] -= max
				sum += math.Exp(lane[j])
			}
			if logVariant {
				logSum := math.Log(sum)
				for j := 0; j < axisDim; j++ {
					dst[base+j*inner+i] = elemFromFloat64[T](lane[j] - logSum)
				}
			} else {
				for j := 0; j < axisDim; j++ {
					dst[base+j*inner+i] = elemFromFloat64[T](math.Exp(lane[j]) / sum)
				}
			}
		}
	}
}
