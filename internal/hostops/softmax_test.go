package hostops

import (
	"errors"
	"math"
	"testing"

	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/dtype"
)

func TestSoftmaxSumsToOne(t *testing.T) {
	ctx := device.NewContext()
	in := makeArray(t, ctx, []int{2, 3}, dtype.Float32, []float32{
		1, 2, 3,
		0, 0, 0,
	})
	defer in.Release()

	out, err := Softmax(in, -1, nil, false)
	if err != nil {
		t.Fatalf("Softmax failed: %v", err)
	}
	defer out.Release()

	got := device.View[float32](out)
	for lane := 0; lane < 2; lane++ {
		sum := 0.0
		for j := 0; j < 3; j++ {
			sum += float64(got[lane*3+j])
		}
		if math.Abs(sum-1) > 1e-6 {
			t.Errorf("lane %d sums to %v, want 1", lane, sum)
		}
	}
	// Uniform logits give uniform probabilities.
	for j := 0; j < 3; j++ {
		if math.Abs(float64(got[3+j])-1.0/3) > 1e-6 {
			t.Errorf("uniform lane element %d = %v, want 1/3", j, got[3+j])
		}
	}
	// Larger logit, larger probability.
	if !(got[0] < got[1] && got[1] < got[2]) {
		t.Errorf("probabilities %v not increasing with logits", got[:3])
	}
}

func TestSoftmaxStableForLargeLogits(t *testing.T) {
	ctx := device.NewContext()
	in := makeArray(t, ctx, []int{2}, dtype.Float32, []float32{1000, 1001})
	defer in.Release()

	out, err := Softmax(in, 0, nil, false)
	if err != nil {
		t.Fatalf("Softmax failed: %v", err)
	}
	defer out.Release()

	got := device.View[float32](out)
	want := 1 / (1 + math.E)
	if math.Abs(float64(got[0])-want) > 1e-6 {
		t.Errorf("got %v, want %v; large logits must not overflow", got[0], want)
	}
}

func TestLogSoftmaxMatchesLogOfSoftmax(t *testing.T) {
	ctx := device.NewContext()
	data := []float32{0.5, -1, 2, 0}
	in := makeArray(t, ctx, []int{4}, dtype.Float32, data)
	defer in.Release()

	ls, err := LogSoftmax(in, 0, nil, false)
	if err != nil {
		t.Fatalf("LogSoftmax failed: %v", err)
	}
	defer ls.Release()
	sm, err := Softmax(in, 0, nil, false)
	if err != nil {
		t.Fatalf("Softmax failed: %v", err)
	}
	defer sm.Release()

	a := device.View[float32](ls)
	b := device.View[float32](sm)
	for i := range a {
		if math.Abs(float64(a[i])-math.Log(float64(b[i]))) > 1e-5 {
			t.Errorf("element %d: log_softmax %v vs log(softmax) %v", i, a[i], math.Log(float64(b[i])))
		}
	}
}

func TestSoftmaxRejectsBFloat16(t *testing.T) {
	ctx := device.NewContext()
	in := device.Allocate(ctx, []int{2}, dtype.BFloat16, false)
	defer in.Release()

	_, err := Softmax(in, 0, nil, false)
	var unsupported UnsupportedDTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("want UnsupportedDTypeError, got %v", err)
	}
}

func TestSoftmaxAxisOutOfRange(t *testing.T) {
	ctx := device.NewContext()
	in := device.Allocate(ctx, []int{2, 2}, dtype.Float32, false)
	defer in.Release()

	_, err := Softmax(in, -3, nil, false)
	var rng AxisRangeError
	if !errors.As(err, &rng) {
		t.Fatalf("want AxisRangeError, got %v", err)
	}
}

func TestExpAndLogInverse(t *testing.T) {
	ctx := device.NewContext()
	data := []float32{0.25, 1, 4}
	in := makeArray(t, ctx, []int{3}, dtype.Float32, data)
	defer in.Release()

	e, err := Exp(in, nil, false)
	if err != nil {
		t.Fatalf("Exp failed: %v", err)
	}
	defer e.Release()
	back, err := Log(e, nil, false)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	defer back.Release()

	got := device.View[float32](back)
	for i, w := range data {
		if math.Abs(float64(got[i]-w)) > 1e-5 {
			t.Errorf("element %d: log(exp(%v)) = %v", i, w, got[i])
		}
	}
}

func TestExpOutDTypeMustMatch(t *testing.T) {
	ctx := device.NewContext()
	in := makeArray(t, ctx, []int{2}, dtype.Float32, []float32{0, 1})
	defer in.Release()
	out := device.Allocate(ctx, []int{2}, dtype.Float64, false)
	defer out.Release()

	_, err := Exp(in, out, false)
	var invalid InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("want InvalidArgumentError, got %v", err)
	}
}

func TestExpRejectsInteger(t *testing.T) {
	ctx := device.NewContext()
	in := makeArray(t, ctx, []int{2}, dtype.Int32, []int32{0, 1})
	defer in.Release()

	_, err := Exp(in, nil, false)
	var unsupported UnsupportedDTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("want UnsupportedDTypeError, got %v", err)
	}
}
