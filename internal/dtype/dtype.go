// Package dtype describes runtime element types of host arrays and
// implements the arithmetic type promotion rules used by the host ops.
package dtype

// DType is a runtime tag for the element type of an array. The zero
// value Invalid doubles as "absent" for promotion purposes (a bare host
// scalar carries no dtype).
type DType int32

const (
	Invalid DType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float8E4M3FN
	Float8E4M3FNUZ
	Float16
	BFloat16
	Float32
	Float64
	Complex64
	Complex128
)

func (d DType) String() string {
	switch d {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float8E4M3FN:
		return "float8_e4m3fn"
	case Float8E4M3FNUZ:
		return "float8_e4m3fnuz"
	case Float16:
		return "float16"
	case BFloat16:
		return "bfloat16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	default:
		return "invalid"
	}
}

// IsBoolean reports whether d is the boolean dtype.
func (d DType) IsBoolean() bool { return d == Bool }

// IsInteger reports whether d is a fixed-width integer dtype.
func (d DType) IsInteger() bool {
	switch d {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// IsFloat reports whether d is a floating point dtype, including the
// emulated narrow formats.
func (d DType) IsFloat() bool {
	switch d {
	case Float8E4M3FN, Float8E4M3FNUZ, Float16, BFloat16, Float32, Float64:
		return true
	}
	return false
}

// IsComplex reports whether d is a complex dtype.
func (d DType) IsComplex() bool {
	return d == Complex64 || d == Complex128
}

// IsSigned reports whether d is a signed integer dtype.
func (d DType) IsSigned() bool {
	switch d {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// IsUnsigned reports whether d is an unsigned integer dtype.
func (d DType) IsUnsigned() bool {
	switch d {
	case Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// BitCount returns the number of bits in one element of d.
func (d DType) BitCount() int {
	switch d {
	case Bool, Int8, Uint8, Float8E4M3FN, Float8E4M3FNUZ:
		return 8
	case Int16, Uint16, Float16, BFloat16:
		return 16
	case Int32, Uint32, Float32:
		return 32
	case Int64, Uint64, Float64, Complex64:
		return 64
	case Complex128:
		return 128
	default:
		return 0
	}
}

// IsByteAligned reports whether one element occupies a whole number of
// bytes. Every dtype defined here is byte aligned; sub-byte formats
// would report false.
func (d DType) IsByteAligned() bool {
	return d != Invalid && d.BitCount()%8 == 0
}

// DenseByteCount returns the in-memory footprint of one element.
func (d DType) DenseByteCount() int {
	return d.BitCount() / 8
}

// Alignment returns the required byte alignment for one element.
func (d DType) Alignment() int {
	switch d {
	case Complex64:
		return 4
	case Complex128:
		return 8
	default:
		return d.DenseByteCount()
	}
}
