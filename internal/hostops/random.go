package hostops

import (
	"math/rand/v2"
	"sync"

	"github.com/apache/arrow-go/v18/arrow/float16"

	"github.com/23skdu/longbow-bodkin/internal/device"
	"github.com/23skdu/longbow-bodkin/internal/dtype"
	"github.com/23skdu/longbow-bodkin/internal/floatx"
	"github.com/23skdu/longbow-bodkin/internal/metrics"
)

// RandomGenerator is an explicitly seeded source for the fill ops.
// Ops that take a nil generator fall back to a process-wide default
// with a fixed seed, so runs are reproducible unless the caller opts
// into their own seeding.
type RandomGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// DefaultRandomSeed seeds the process-wide generator used when an op
// receives no explicit generator.
const DefaultRandomSeed uint64 = 0x853c49e6748fea9b

// NewRandomGenerator creates a generator from seed.
func NewRandomGenerator(seed uint64) *RandomGenerator {
	return &RandomGenerator{rng: rand.New(rand.NewPCG(seed, seed))}
}

var defaultGenerator = NewRandomGenerator(DefaultRandomSeed)

// NormFloat64 draws one standard normal sample. Safe for concurrent
// callers.
func (g *RandomGenerator) NormFloat64() float64 {
	g.mu.Lock()
	v := g.rng.NormFloat64()
	g.mu.Unlock()
	return v
}

type fillRandnFn func(out *device.Array, gen *RandomGenerator)

var fillRandnKernels = NewKernelSet[fillRandnFn]("fill_randn").
	On(dtype.Float8E4M3FNUZ, fillRandnBody[floatx.Float8E4M3FNUZ]).
	On(dtype.Float8E4M3FN, fillRandnBody[floatx.Float8E4M3FN]).
	On(dtype.Float16, fillRandnBody[float16.Num]).
	On(dtype.BFloat16, fillRandnBody[floatx.BFloat16]).
	On(dtype.Float32, fillRandnBody[float32])

// FillRandn overwrites out in place with samples from the standard
// normal distribution, encoded at out's dtype. A nil gen uses the
// fixed-seed default generator.
func FillRandn(out *device.Array, gen *RandomGenerator) error {
	const op = "fill_randn"
	if out == nil {
		return errInvalid(op, "out array is required")
	}
	if gen == nil {
		gen = defaultGenerator
	}
	fn, err := fillRandnKernels.Dispatch(out.DType())
	if err != nil {
		return err
	}
	fn(out, gen)
	metrics.HostOpElements.WithLabelValues(op).Observe(float64(out.Len()))
	return nil
}

func fillRandnBody[T device.Elem](out *device.Array, gen *RandomGenerator) {
	dst := device.View[T](out)
	for i := range dst {
		dst[i] = elemFromFloat64[T](gen.NormFloat64())
	}
}
