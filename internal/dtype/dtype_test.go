package dtype

import "testing"

func TestDTypeNames(t *testing.T) {
	testCases := []struct {
		dt   DType
		want string
	}{
		{Float8E4M3FN, "float8_e4m3fn"},
		{Float8E4M3FNUZ, "float8_e4m3fnuz"},
		{BFloat16, "bfloat16"},
		{Float16, "float16"},
		{Int32, "int32"},
		{Uint64, "uint64"},
		{Bool, "bool"},
		{Complex128, "complex128"},
	}
	for _, tc := range testCases {
		if got := tc.dt.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.dt, got, tc.want)
		}
	}
}

func TestDenseByteCount(t *testing.T) {
	testCases := []struct {
		dt   DType
		want int
	}{
		{Float8E4M3FN, 1},
		{BFloat16, 2},
		{Float16, 2},
		{Float32, 4},
		{Float64, 8},
		{Int8, 1},
		{Int64, 8},
		{Complex64, 8},
		{Complex128, 16},
	}
	for _, tc := range testCases {
		if got := tc.dt.DenseByteCount(); got != tc.want {
			t.Errorf("%s.DenseByteCount() = %d, want %d", tc.dt, got, tc.want)
		}
	}
}

func TestClassPredicates(t *testing.T) {
	if !BFloat16.IsFloat() || BFloat16.IsInteger() {
		t.Error("bfloat16 must classify as float")
	}
	if !Uint32.IsUnsigned() || Uint32.IsSigned() {
		t.Error("uint32 must classify as unsigned integer")
	}
	if !Int8.IsSigned() {
		t.Error("int8 must classify as signed")
	}
	if !Complex64.IsComplex() {
		t.Error("complex64 must classify as complex")
	}
	if !Bool.IsBoolean() {
		t.Error("bool must classify as boolean")
	}
	if !Float8E4M3FN.IsByteAligned() {
		t.Error("8-bit floats are byte aligned")
	}
}
