package hostops

import (
	"github.com/23skdu/longbow-bodkin/internal/dtype"
	"github.com/23skdu/longbow-bodkin/internal/metrics"
)

// KernelSet is the closed dispatch table of one kernel family: each
// supported dtype maps to exactly one kernel instantiation. Families
// support different subsets on purpose (round handles fewer dtypes than
// convert); a dtype missing from the table is an unsupported-dtype
// error, not a fallback.
//
// F is the kernel shape. Value-returning families use
// func() (*device.Array, error); side-effecting families use
// func() error or a function over pre-resolved views.
type KernelSet[F any] struct {
	op      string
	entries map[dtype.DType]F
}

func NewKernelSet[F any](op string) *KernelSet[F] {
	return &KernelSet[F]{op: op, entries: make(map[dtype.DType]F)}
}

// On registers the kernel instantiation for dt. Tables are built once
// at package init; On is not safe for concurrent use.
func (s *KernelSet[F]) On(dt dtype.DType, fn F) *KernelSet[F] {
	s.entries[dt] = fn
	return s
}

// Dispatch translates the runtime dtype tag into the registered kernel
// instantiation.
func (s *KernelSet[F]) Dispatch(dt dtype.DType) (F, error) {
	fn, ok := s.entries[dt]
	if !ok {
		var zero F
		return zero, errUnsupported(s.op, dt)
	}
	metrics.HostOpsTotal.WithLabelValues(s.op, dt.String()).Inc()
	return fn, nil
}

// WidthKernel holds the movement bodies for the byte-width dispatch
// shape, one per element width, instantiated at the unsigned integer
// type of that width.
type WidthKernel struct {
	W1 func() error // uint8
	W2 func() error // uint16
	W4 func() error // uint32
	W8 func() error // uint64
}

// DispatchWidth dispatches a pure data movement op on element byte
// width instead of logical dtype. Non-byte-aligned dtypes and widths
// outside 1/2/4/8 are invalid arguments, not unsupported dtypes: the
// request is malformed for any movement op.
func DispatchWidth(dt dtype.DType, op string, k WidthKernel) error {
	if !dt.IsByteAligned() {
		return errInvalid(op, "data movement ops are only defined for byte aligned dtypes")
	}
	var fn func() error
	switch dt.DenseByteCount() {
	case 1:
		fn = k.W1
	case 2:
		fn = k.W2
	case 4:
		fn = k.W4
	case 8:
		fn = k.W8
	}
	if fn == nil {
		return errInvalid(op, "data movement ops are only defined for dtypes of size 1, 2, 4, 8")
	}
	metrics.HostOpsTotal.WithLabelValues(op, dt.String()).Inc()
	return fn()
}
