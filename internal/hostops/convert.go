package hostops

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow/float16"

	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/dtype"
	"github.com/23skdu/longbow-bodkin/internal/floatx"
)

// The conversion family is dispatched twice: the input dtype selects
// the generic body, then the output dtype selects the store path. Input
// precision and output representation vary independently, so neither
// dispatch can subsume the other.

type convertFn func(in *device.Array, dt dtype.DType, out *device.Array) error

var convertKernels = NewKernelSet[convertFn]("convert").
	On(dtype.Float8E4M3FNUZ, convertFrom[floatx.Float8E4M3FNUZ]).
	On(dtype.Float8E4M3FN, convertFrom[floatx.Float8E4M3FN]).
	On(dtype.Float16, convertFrom[float16.Num]).
	On(dtype.BFloat16, convertFrom[floatx.BFloat16]).
	On(dtype.Float32, convertFrom[float32]).
	On(dtype.Float64, convertFrom[float64]).
	On(dtype.Uint8, convertFrom[uint8]).
	On(dtype.Int8, convertFrom[int8]).
	On(dtype.Uint16, convertFrom[uint16]).
	On(dtype.Int16, convertFrom[int16]).
	On(dtype.Uint32, convertFrom[uint32]).
	On(dtype.Int32, convertFrom[int32]).
	On(dtype.Uint64, convertFrom[uint64]).
	On(dtype.Int64, convertFrom[int64])

// Convert does an elementwise conversion from one dtype to another with
// static-cast semantics. dt selects the output dtype explicitly;
// dtype.Invalid defers to out's dtype, or the input's when out is nil.
// A nil out is allocated with the decided dtype and the input's shape.
func Convert(in *device.Array, dt dtype.DType, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return genericConvert("convert", in, dt, out, deviceVisible, convertKernels)
}

var (
	roundKernels = roundingKernels("round", math.Round)
	ceilKernels  = roundingKernels("ceil", math.Ceil)
	floorKernels = roundingKernels("floor", math.Floor)
	truncKernels = roundingKernels("trunc", math.Trunc)
)

// Round converts to the nearest integer per element, rounding halfway
// cases away from zero.
func Round(in *device.Array, dt dtype.DType, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return genericConvert("round", in, dt, out, deviceVisible, roundKernels)
}

// Ceil converts to the smallest integer value not less than the input.
func Ceil(in *device.Array, dt dtype.DType, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return genericConvert("ceil", in, dt, out, deviceVisible, ceilKernels)
}

// Floor converts to the largest integer value not greater than the input.
func Floor(in *device.Array, dt dtype.DType, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return genericConvert("floor", in, dt, out, deviceVisible, floorKernels)
}

// Trunc converts to the nearest integer not greater in magnitude than
// the input.
func Trunc(in *device.Array, dt dtype.DType, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return genericConvert("trunc", in, dt, out, deviceVisible, truncKernels)
}

// genericConvert implements the argument contract shared by the five
// conversion ops, then runs the family's two-level dispatch. The input
// dtype is resolved against the table before any allocation so an
// unsupported dtype never allocates an output buffer.
func genericConvert(op string, in *device.Array, dt dtype.DType, out *device.Array, deviceVisible bool, kernels *KernelSet[convertFn]) (*device.Array, error) {
	if dt == dtype.Invalid {
		if out != nil {
			dt = out.DType()
		} else {
			dt = in.DType()
		}
	} else if out != nil && out.DType() != dt {
		return nil, errInvalid(op, "if both dtype and out are specified, they must match")
	}
	if out != nil && !device.SameShape(out.Shape(), in.Shape()) {
		return nil, errInvalid(op, "out array shape %v does not match input shape %v", out.Shape(), in.Shape())
	}

	fn, err := kernels.Dispatch(in.DType())
	if err != nil {
		return nil, err
	}

	allocated := out == nil
	if allocated {
		out = device.Allocate(in.Context(), in.Shape(), dt, deviceVisible)
	}
	if err := fn(in, dt, out); err != nil {
		if allocated {
			out.Release()
		}
		return nil, err
	}
	return out, nil
}

// convertFrom is the convert body at input type Src: a nested store
// dispatch on the output dtype performs the cast.
func convertFrom[Src device.Elem](in *device.Array, dt dtype.DType, out *device.Array) error {
	src := device.View[Src](in)
	switch dt {
	case dtype.Float16:
		castStore[float16.Num](src, out)
	case dtype.Float8E4M3FNUZ:
		castStore[floatx.Float8E4M3FNUZ](src, out)
	case dtype.Float8E4M3FN:
		castStore[floatx.Float8E4M3FN](src, out)
	case dtype.BFloat16:
		castStore[floatx.BFloat16](src, out)
	case dtype.Float32:
		castStore[float32](src, out)
	case dtype.Float64:
		castStore[float64](src, out)
	case dtype.Uint8:
		castStore[uint8](src, out)
	case dtype.Int8:
		castStore[int8](src, out)
	case dtype.Uint16:
		castStore[uint16](src, out)
	case dtype.Int16:
		castStore[int16](src, out)
	case dtype.Uint32:
		castStore[uint32](src, out)
	case dtype.Int32:
		castStore[int32](src, out)
	case dtype.Uint64:
		castStore[uint64](src, out)
	case dtype.Int64:
		castStore[int64](src, out)
	default:
		return errInvalid("convert", "invalid output dtype %s for convert op", dt)
	}
	return nil
}

func castStore[Dst, Src device.Elem](src []Src, out *device.Array) {
	dst := device.View[Dst](out)
	for i, v := range src {
		dst[i] = castElem[Dst](v)
	}
}

// roundingKernels builds the dispatch table of one nearest-integer op.
// Inputs are floating point only; float64 is deliberately outside the
// supported subset.
func roundingKernels(op string, mathFn func(float64) float64) *KernelSet[convertFn] {
	return NewKernelSet[convertFn](op).
		On(dtype.Float8E4M3FNUZ, roundFrom[floatx.Float8E4M3FNUZ](op, mathFn)).
		On(dtype.Float8E4M3FN, roundFrom[floatx.Float8E4M3FN](op, mathFn)).
		On(dtype.Float16, roundFrom[float16.Num](op, mathFn)).
		On(dtype.BFloat16, roundFrom[floatx.BFloat16](op, mathFn)).
		On(dtype.Float32, roundFrom[float32](op, mathFn))
}

// roundFrom is the nearest-integer body at input type Src. Rounding
// happens in the input's floating representation; a differing output
// dtype must be an 8 to 32 bit integer, and the store path casts the
// already-rounded value.
func roundFrom[Src device.Elem](op string, mathFn func(float64) float64) convertFn {
	return func(in *device.Array, dt dtype.DType, out *device.Array) error {
		src := device.View[Src](in)
		if dt == in.DType() {
			dst := device.View[Src](out)
			for i, v := range src {
				dst[i] = elemFromFloat64[Src](mathFn(elemToFloat64(v)))
			}
			return nil
		}
		switch dt {
		case dtype.Uint8:
			roundStore[uint8](src, out, mathFn)
		case dtype.Int8:
			roundStore[int8](src, out, mathFn)
		case dtype.Uint16:
			roundStore[uint16](src, out, mathFn)
		case dtype.Int16:
			roundStore[int16](src, out, mathFn)
		case dtype.Uint32:
			roundStore[uint32](src, out, mathFn)
		case dtype.Int32:
			roundStore[int32](src, out, mathFn)
		default:
			return errInvalid(op, "invalid output dtype %s for converting nearest integer op", dt)
		}
		return nil
	}
}

func roundStore[Dst, Src device.Elem](src []Src, out *device.Array, mathFn func(float64) float64) {
	dst := device.View[Dst](out)
	for i, v := range src {
		dst[i] = elemFromFloat64[Dst](mathFn(elemToFloat64(v)))
	}
}
