package hostops

import (
	"errors"
	"math"
	"testing"

	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/dtype"
)

func TestFillRandnDeterministicPerSeed(t *testing.T) {
	ctx := device.NewContext()
	a := device.Allocate(ctx, []int{64}, dtype.Float32, false)
	defer a.Release()
	b := device.Allocate(ctx, []int{64}, dtype.Float32, false)
	defer b.Release()

	if err := FillRandn(a, NewRandomGenerator(42)); err != nil {
		t.Fatalf("FillRandn failed: %v", err)
	}
	if err := FillRandn(b, NewRandomGenerator(42)); err != nil {
		t.Fatalf("FillRandn failed: %v", err)
	}

	va := device.View[float32](a)
	vb := device.View[float32](b)
	for i := range va {
		if va[i] != vb[i] {
			t.Fatalf("element %d differs across identical seeds: %v vs %v", i, va[i], vb[i])
		}
	}
}

func TestFillRandnDistribution(t *testing.T) {
	ctx := device.NewContext()
	const n = 4096
	a := device.Allocate(ctx, []int{n}, dtype.Float32, false)
	defer a.Release()

	if err := FillRandn(a, NewRandomGenerator(7)); err != nil {
		t.Fatalf("FillRandn failed: %v", err)
	}

	v := device.View[float32](a)
	sum, sumSq := 0.0, 0.0
	for _, x := range v {
		sum += float64(x)
		sumSq += float64(x) * float64(x)
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	// Loose moment checks; standard normal has mean 0, variance 1.
	if math.Abs(mean) > 0.1 {
		t.Errorf("sample mean %v too far from 0", mean)
	}
	if math.Abs(variance-1) > 0.15 {
		t.Errorf("sample variance %v too far from 1", variance)
	}
}

func TestFillRandnDefaultGenerator(t *testing.T) {
	ctx := device.NewContext()
	a := device.Allocate(ctx, []int{8}, dtype.Float16, false)
	defer a.Release()

	if err := FillRandn(a, nil); err != nil {
		t.Fatalf("FillRandn with default generator failed: %v", err)
	}
}

func TestFillRandnRejectsInteger(t *testing.T) {
	ctx := device.NewContext()
	a := device.Allocate(ctx, []int{8}, dtype.Int32, false)
	defer a.Release()

	err := FillRandn(a, nil)
	var unsupported UnsupportedDTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("want UnsupportedDTypeError, got %v", err)
	}
}
