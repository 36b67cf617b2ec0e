package hostops

import (
	"github.com/apache/arrow-go/v18/arrow/float16"

	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/dtype"
	"github.com/23skdu/longbow-bodkin/internal/floatx"
	"github.com/23skdu/longbow-bodkin/internal/metrics"
)

// Operand is one side of an elementwise binary op: either a typed
// array or a bare host scalar. A scalar carries no dtype and never
// forces a promotion.
type Operand struct {
	arr    *device.Array
	scalar any
}

// ArrayOperand wraps an array operand.
func ArrayOperand(a *device.Array) Operand { return Operand{arr: a} }

// Scalar wraps a bare host scalar (any Go integer or float).
func Scalar(v any) Operand { return Operand{scalar: v} }

func (o Operand) dt() dtype.DType {
	if o.arr != nil {
		return o.arr.DType()
	}
	return dtype.Invalid
}

// Add computes lhs + rhs elementwise in the promoted dtype.
func Add(lhs, rhs Operand, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return elementwise("add", opAdd, lhs, rhs, out, deviceVisible)
}

// Subtract computes lhs - rhs elementwise in the promoted dtype.
func Subtract(lhs, rhs Operand, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return elementwise("subtract", opSub, lhs, rhs, out, deviceVisible)
}

// Multiply computes lhs * rhs elementwise in the promoted dtype.
func Multiply(lhs, rhs Operand, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return elementwise("multiply", opMul, lhs, rhs, out, deviceVisible)
}

// Divide computes lhs / rhs elementwise in the promoted dtype. Integer
// division truncates toward zero.
func Divide(lhs, rhs Operand, out *device.Array, deviceVisible bool) (*device.Array, error) {
	return elementwise("divide", opDiv, lhs, rhs, out, deviceVisible)
}

type elementwiseFn func(op binOp, opName string, lhs, rhs Operand, out *device.Array) error

var elementwiseKernels = NewKernelSet[elementwiseFn]("elementwise").
	On(dtype.Float8E4M3FNUZ, elementwiseBody[floatx.Float8E4M3FNUZ]).
	On(dtype.Float8E4M3FN, elementwiseBody[floatx.Float8E4M3FN]).
	On(dtype.Float16, elementwiseBody[float16.Num]).
	On(dtype.BFloat16, elementwiseBody[floatx.BFloat16]).
	On(dtype.Float32, elementwiseBody[float32]).
	On(dtype.Float64, elementwiseBody[float64]).
	On(dtype.Uint8, elementwiseBody[uint8]).
	On(dtype.Int8, elementwiseBody[int8]).
	On(dtype.Uint16, elementwiseBody[uint16]).
	On(dtype.Int16, elementwiseBody[int16]).
	On(dtype.Uint32, elementwiseBody[uint32]).
	On(dtype.Int32, elementwiseBody[int32]).
	On(dtype.Uint64, elementwiseBody[uint64]).
	On(dtype.Int64, elementwiseBody[int64])

// elementwise runs one binary operator: promote, convert mismatched
// array operands into transient host-only intermediates, then dispatch
// the loop at the promoted dtype. All argument validation happens
// before the output is written.
func elementwise(opName string, op binOp, lhs, rhs Operand, out *device.Array, deviceVisible bool) (*device.Array, error) {
	dt, err := dtype.Promote(lhs.dt(), rhs.dt())
	if err != nil {
		return nil, errInvalid(opName, "%v", err)
	}

	if lhs.arr != nil && lhs.arr.DType() != dt {
		conv, err := Convert(lhs.arr, dt, nil, false)
		if err != nil {
			return nil, err
		}
		defer conv.Release()
		lhs = Operand{arr: conv}
	}
	if rhs.arr != nil && rhs.arr.DType() != dt {
		conv, err := Convert(rhs.arr, dt, nil, false)
		if err != nil {
			return nil, err
		}
		defer conv.Release()
		rhs = Operand{arr: conv}
	}

	ref := lhs.arr
	if ref == nil {
		ref = rhs.arr
	}
	if lhs.arr != nil && rhs.arr != nil && !device.SameShape(lhs.arr.Shape(), rhs.arr.Shape()) {
		return nil, errInvalid(opName, "operand shapes %v and %v do not match", lhs.arr.Shape(), rhs.arr.Shape())
	}
	if out != nil {
		if out.DType() != dt {
			return nil, errInvalid(opName, "out array must have dtype=%s but got %s", dt, out.DType())
		}
		if !device.SameShape(out.Shape(), ref.Shape()) {
			return nil, errInvalid(opName, "out array shape %v does not match result shape %v", out.Shape(), ref.Shape())
		}
	}

	fn, err := elementwiseKernels.Dispatch(dt)
	if err != nil {
		return nil, err
	}

	allocated := out == nil
	if allocated {
		out = device.Allocate(ref.Context(), ref.Shape(), dt, deviceVisible)
	}
	if err := fn(op, opName, lhs, rhs, out); err != nil {
		if allocated {
			out.Release()
		}
		return nil, err
	}
	metrics.HostOpElements.WithLabelValues(opName).Observe(float64(out.Len()))
	return out, nil
}

// elementwiseBody is the kernel at the promoted element type T. A bare
// scalar operand is decoded into T first; arrays are iterated in step.
func elementwiseBody[T device.Elem](op binOp, opName string, lhs, rhs Operand, out *device.Array) error {
	dst := device.View[T](out)
	switch {
	case rhs.arr == nil:
		s, err := scalarToElem[T](opName, rhs.scalar)
		if err != nil {
			return err
		}
		src := device.View[T](lhs.arr)
		for i, v := range src {
			dst[i] = applyBinary(op, v, s)
		}
	case lhs.arr == nil:
		s, err := scalarToElem[T](opName, lhs.scalar)
		if err != nil {
			return err
		}
		src := device.View[T](rhs.arr)
		for i, v := range src {
			dst[i] = applyBinary(op, s, v)
		}
	default:
		a := device.View[T](lhs.arr)
		b := device.View[T](rhs.arr)
		for i := range a {
			dst[i] = applyBinary(op, a[i], b[i])
		}
	}
	return nil
}
