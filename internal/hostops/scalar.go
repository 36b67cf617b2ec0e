package hostops

import (
	"github.com/apache/arrow-go/v18/arrow/float16"

	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/floatx"
)

// Scalar conversion layer. Kernel bodies are generic over the closed
// element set, so every arithmetic or casting step bottoms out in these
// per-type conversion functions. Narrow floats always decode and
// re-encode through float32; integers stay on 64-bit integer paths so
// int-to-int casts are exact.

// elemToFloat64 decodes any supported element to float64.
func elemToFloat64[T device.Elem](v T) float64 {
	switch x := any(v).(type) {
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case float16.Num:
		return float64(x.Float32())
	case floatx.BFloat16:
		return float64(x.Float32())
	case floatx.Float8E4M3FN:
		return float64(x.Float32())
	case floatx.Float8E4M3FNUZ:
		return float64(x.Float32())
	}
	return 0
}

// elemFromFloat64 encodes a float64 into T with static-cast semantics:
// float to integer truncates toward zero, narrow floats round per their
// encode rule.
func elemFromFloat64[T device.Elem](f float64) T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return any(int8(f)).(T)
	case int16:
		return any(int16(f)).(T)
	case int32:
		return any(int32(f)).(T)
	case int64:
		return any(int64(f)).(T)
	case uint8:
		return any(uint8(f)).(T)
	case uint16:
		return any(uint16(f)).(T)
	case uint32:
		return any(uint32(f)).(T)
	case uint64:
		return any(uint64(f)).(T)
	case float32:
		return any(float32(f)).(T)
	case float64:
		return any(f).(T)
	case float16.Num:
		return any(float16.New(float32(f))).(T)
	case floatx.BFloat16:
		return any(floatx.BFloat16FromFloat64(f)).(T)
	case floatx.Float8E4M3FN:
		return any(floatx.Float8E4M3FNFromFloat64(f)).(T)
	case floatx.Float8E4M3FNUZ:
		return any(floatx.Float8E4M3FNUZFromFloat64(f)).(T)
	}
	return zero
}

// elemFromInt64 encodes a signed 64-bit integer into T. Integer targets
// use plain Go conversions (two's complement wrap), which matches a
// static cast.
func elemFromInt64[T device.Elem](i int64) T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return any(int8(i)).(T)
	case int16:
		return any(int16(i)).(T)
	case int32:
		return any(int32(i)).(T)
	case int64:
		return any(i).(T)
	case uint8:
		return any(uint8(i)).(T)
	case uint16:
		return any(uint16(i)).(T)
	case uint32:
		return any(uint32(i)).(T)
	case uint64:
		return any(uint64(i)).(T)
	default:
		return elemFromFloat64[T](float64(i))
	}
}

// elemFromUint64 is the unsigned source path; it differs from
// elemFromInt64 only for values above 1<<63.
func elemFromUint64[T device.Elem](u uint64) T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return any(int8(u)).(T)
	case int16:
		return any(int16(u)).(T)
	case int32:
		return any(int32(u)).(T)
	case int64:
		return any(int64(u)).(T)
	case uint8:
		return any(uint8(u)).(T)
	case uint16:
		return any(uint16(u)).(T)
	case uint32:
		return any(uint32(u)).(T)
	case uint64:
		return any(u).(T)
	default:
		return elemFromFloat64[T](float64(u))
	}
}

// castElem converts between any two supported element types with
// static-cast semantics.
func castElem[Dst, Src device.Elem](v Src) Dst {
	switch x := any(v).(type) {
	case int8:
		return elemFromInt64[Dst](int64(x))
	case int16:
		return elemFromInt64[Dst](int64(x))
	case int32:
		return elemFromInt64[Dst](int64(x))
	case int64:
		return elemFromInt64[Dst](x)
	case uint8:
		return elemFromUint64[Dst](uint64(x))
	case uint16:
		return elemFromUint64[Dst](uint64(x))
	case uint32:
		return elemFromUint64[Dst](uint64(x))
	case uint64:
		return elemFromUint64[Dst](x)
	default:
		return elemFromFloat64[Dst](elemToFloat64(v))
	}
}

// scalarToElem decodes a bare host scalar into the promoted element
// type. It is total over the supported element set; only non-numeric Go
// values are rejected.
func scalarToElem[T device.Elem](op string, v any) (T, error) {
	switch s := v.(type) {
	case int:
		return elemFromInt64[T](int64(s)), nil
	case int8:
		return elemFromInt64[T](int64(s)), nil
	case int16:
		return elemFromInt64[T](int64(s)), nil
	case int32:
		return elemFromInt64[T](int64(s)), nil
	case int64:
		return elemFromInt64[T](s), nil
	case uint:
		return elemFromUint64[T](uint64(s)), nil
	case uint8:
		return elemFromUint64[T](uint64(s)), nil
	case uint16:
		return elemFromUint64[T](uint64(s)), nil
	case uint32:
		return elemFromUint64[T](uint64(s)), nil
	case uint64:
		return elemFromUint64[T](s), nil
	case float32:
		return elemFromFloat64[T](float64(s)), nil
	case float64:
		return elemFromFloat64[T](s), nil
	default:
		var zero T
		return zero, errInvalid(op, "unsupported scalar type %T for elementwise op", v)
	}
}

// binOp selects the operator applied inside the elementwise kernels.
type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
)

func evalInt(op binOp, a, b int64) int64 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	default:
		return a / b
	}
}

func evalUint(op binOp, a, b uint64) uint64 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	default:
		return a / b
	}
}

func evalFloat32(op binOp, a, b float32) float32 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	default:
		return a / b
	}
}

func evalFloat64(op binOp, a, b float64) float64 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	default:
		return a / b
	}
}

// applyBinary performs op on two elements of the promoted type.
// Integers wrap and divide truncating toward zero, float32/float64
// compute natively, and the emulated floats follow their
// decode-compute-reencode contract in float32.
func applyBinary[T device.Elem](op binOp, a, b T) T {
	switch x := any(a).(type) {
	case int8:
		return any(int8(evalInt(op, int64(x), int64(any(b).(int8))))).(T)
	case int16:
		return any(int16(evalInt(op, int64(x), int64(any(b).(int16))))).(T)
	case int32:
		return any(int32(evalInt(op, int64(x), int64(any(b).(int32))))).(T)
	case int64:
		return any(evalInt(op, x, any(b).(int64))).(T)
	case uint8:
		return any(uint8(evalUint(op, uint64(x), uint64(any(b).(uint8))))).(T)
	case uint16:
		return any(uint16(evalUint(op, uint64(x), uint64(any(b).(uint16))))).(T)
	case uint32:
		return any(uint32(evalUint(op, uint64(x), uint64(any(b).(uint32))))).(T)
	case uint64:
		return any(evalUint(op, x, any(b).(uint64))).(T)
	case float32:
		return any(evalFloat32(op, x, any(b).(float32))).(T)
	case float64:
		return any(evalFloat64(op, x, any(b).(float64))).(T)
	case float16.Num:
		y := any(b).(float16.Num)
		return any(float16.New(evalFloat32(op, x.Float32(), y.Float32()))).(T)
	case floatx.BFloat16:
		y := any(b).(floatx.BFloat16)
		return any(floatx.BFloat16FromFloat32(evalFloat32(op, x.Float32(), y.Float32()))).(T)
	case floatx.Float8E4M3FN:
		y := any(b).(floatx.Float8E4M3FN)
		return any(floatx.Float8E4M3FNFromFloat32(evalFloat32(op, x.Float32(), y.Float32()))).(T)
	case floatx.Float8E4M3FNUZ:
		y := any(b).(floatx.Float8E4M3FNUZ)
		return any(floatx.Float8E4M3FNUZFromFloat32(evalFloat32(op, x.Float32(), y.Float32()))).(T)
	}
	return a
}
