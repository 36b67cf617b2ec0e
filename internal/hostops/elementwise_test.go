package hostops

import (
	"errors"
	"testing"

	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/dtype"
	"github.com/23skdu/longbow-bodkin/internal/floatx"
)

func TestAddArrayScalar(t *testing.T) {
	ctx := device.NewContext()
	in := makeArray(t, ctx, []int{2}, dtype.Float32, []float32{1, 2})
	defer in.Release()

	out, err := Add(ArrayOperand(in), Scalar(3), nil, false)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	defer out.Release()

	if out.DType() != dtype.Float32 {
		t.Fatalf("result dtype = %s, want float32", out.DType())
	}
	got := device.View[float32](out)
	if got[0] != 4 || got[1] != 5 {
		t.Errorf("got %v, want [4 5]", got)
	}
}

func TestScalarMinusArray(t *testing.T) {
	ctx := device.NewContext()
	in := makeArray(t, ctx, []int{3}, dtype.Int32, []int32{1, 5, 10})
	defer in.Release()

	out, err := Subtract(Scalar(7), ArrayOperand(in), nil, false)
	if err != nil {
		t.Fatalf("Subtract failed: %v", err)
	}
	defer out.Release()

	want := []int32{6, 2, -3}
	got := device.View[int32](out)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAddPromotesMixedSignedness(t *testing.T) {
	ctx := device.NewContext()
	lhs := makeArray(t, ctx, []int{3}, dtype.Int8, []int8{100, -100, 0})
	defer lhs.Release()
	rhs := makeArray(t, ctx, []int{3}, dtype.Uint8, []uint8{200, 1, 255})
	defer rhs.Release()

	out, err := Add(ArrayOperand(lhs), ArrayOperand(rhs), nil, false)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	defer out.Release()

	if out.DType() != dtype.Int16 {
		t.Fatalf("result dtype = %s, want int16", out.DType())
	}
	want := []int16{300, -99, 255}
	got := device.View[int16](out)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMultiplyNarrowFloat(t *testing.T) {
	ctx := device.NewContext()
	src := []floatx.BFloat16{
		floatx.BFloat16FromFloat32(1.5),
		floatx.BFloat16FromFloat32(-2),
	}
	in := makeArray(t, ctx, []int{2}, dtype.BFloat16, src)
	defer in.Release()

	out, err := Multiply(ArrayOperand(in), Scalar(2), nil, false)
	if err != nil {
		t.Fatalf("Multiply failed: %v", err)
	}
	defer out.Release()

	got := device.View[floatx.BFloat16](out)
	if got[0].Float32() != 3 || got[1].Float32() != -4 {
		t.Errorf("got [%v %v], want [3 -4]", got[0].Float32(), got[1].Float32())
	}
}

func TestDivideIntegerTruncates(t *testing.T) {
	ctx := device.NewContext()
	lhs := makeArray(t, ctx, []int{3}, dtype.Int32, []int32{7, -7, 9})
	defer lhs.Release()

	out, err := Divide(ArrayOperand(lhs), Scalar(2), nil, false)
	if err != nil {
		t.Fatalf("Divide failed: %v", err)
	}
	defer out.Release()

	want := []int32{3, -3, 4}
	got := device.View[int32](out)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAddMixedDTypeConverts(t *testing.T) {
	ctx := device.NewContext()
	lhs := makeArray(t, ctx, []int{2}, dtype.Float32, []float32{0.5, 1.5})
	defer lhs.Release()
	rhs := makeArray(t, ctx, []int{2}, dtype.Int32, []int32{1, 2})
	defer rhs.Release()

	out, err := Add(ArrayOperand(lhs), ArrayOperand(rhs), nil, false)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	defer out.Release()

	if out.DType() != dtype.Float32 {
		t.Fatalf("result dtype = %s, want float32", out.DType())
	}
	got := device.View[float32](out)
	if got[0] != 1.5 || got[1] != 3.5 {
		t.Errorf("got %v, want [1.5 3.5]", got)
	}
}

func TestElementwiseShapeMismatch(t *testing.T) {
	ctx := device.NewContext()
	lhs := makeArray(t, ctx, []int{2}, dtype.Float32, []float32{1, 2})
	defer lhs.Release()
	rhs := makeArray(t, ctx, []int{3}, dtype.Float32, []float32{1, 2, 3})
	defer rhs.Release()

	_, err := Add(ArrayOperand(lhs), ArrayOperand(rhs), nil, false)
	var invalid InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("want InvalidArgumentError, got %v", err)
	}
}

func TestElementwiseTwoScalars(t *testing.T) {
	_, err := Add(Scalar(1), Scalar(2), nil, false)
	if err == nil {
		t.Fatal("two bare scalars must not dispatch")
	}
}

func TestElementwiseOutValidation(t *testing.T) {
	ctx := device.NewContext()
	in := makeArray(t, ctx, []int{2}, dtype.Float32, []float32{1, 2})
	defer in.Release()

	t.Run("wrong dtype", func(t *testing.T) {
		out := device.Allocate(ctx, []int{2}, dtype.Float64, false)
		defer out.Release()
		_, err := Add(ArrayOperand(in), Scalar(1), out, false)
		var invalid InvalidArgumentError
		if !errors.As(err, &invalid) {
			t.Fatalf("want InvalidArgumentError, got %v", err)
		}
	})
	t.Run("wrong shape", func(t *testing.T) {
		out := device.Allocate(ctx, []int{3}, dtype.Float32, false)
		defer out.Release()
		_, err := Add(ArrayOperand(in), Scalar(1), out, false)
		var invalid InvalidArgumentError
		if !errors.As(err, &invalid) {
			t.Fatalf("want InvalidArgumentError, got %v", err)
		}
	})
	t.Run("matching out is written", func(t *testing.T) {
		out := device.Allocate(ctx, []int{2}, dtype.Float32, false)
		defer out.Release()
		got, err := Add(ArrayOperand(in), Scalar(1), out, false)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if got != out {
			t.Fatal("Add must return the caller's out array")
		}
		v := device.View[float32](out)
		if v[0] != 2 || v[1] != 3 {
			t.Errorf("got %v, want [2 3]", v)
		}
	})
}

func TestElementwiseRejectsBadScalarKind(t *testing.T) {
	ctx := device.NewContext()
	in := makeArray(t, ctx, []int{1}, dtype.Float32, []float32{1})
	defer in.Release()

	_, err := Add(ArrayOperand(in), Scalar("nope"), nil, false)
	var invalid InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("want InvalidArgumentError, got %v", err)
	}
}
