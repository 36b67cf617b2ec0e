// Package hostops implements the typed-dtype dispatch engine and the
// host array operations built on it: dtype conversion and rounding,
// the elementwise binary operators, reductions and data movement.
//
// Every operation validates its arguments fully before the first write
// to any output buffer, and reports one of three error kinds:
// InvalidArgumentError for malformed requests, UnsupportedDTypeError
// for well-formed dtypes outside an operation's dispatch table, and
// AxisRangeError for out of bounds axis/index arguments.
package hostops

import (
	"fmt"

	"github.com/23skdu/longbow-bodkin/internal/dtype"
	"github.com/23skdu/longbow-bodkin/internal/logger"
	"github.com/23skdu/longbow-bodkin/internal/metrics"
)

// InvalidArgumentError reports a malformed request detectable without
// touching array data.
type InvalidArgumentError struct {
	Reason string
}

func (e InvalidArgumentError) Error() string { return e.Reason }

// UnsupportedDTypeError reports a dtype outside the subset a kernel
// family implements. The message names both the dtype and the op.
type UnsupportedDTypeError struct {
	Op    string
	DType dtype.DType
}

func (e UnsupportedDTypeError) Error() string {
	return fmt.Sprintf("unsupported dtype(%s) for operator %s", e.DType, e.Op)
}

// AxisRangeError reports an axis argument outside [0, rank).
type AxisRangeError struct {
	Axis int
	Rank int
}

func (e AxisRangeError) Error() string {
	return fmt.Sprintf("axis out of range: must be [0, %d) but got %d", e.Rank, e.Axis)
}

func errInvalid(op, format string, args ...interface{}) error {
	metrics.HostOpErrors.WithLabelValues(op, "invalid_argument").Inc()
	return InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}

func errUnsupported(op string, dt dtype.DType) error {
	metrics.HostOpErrors.WithLabelValues(op, "unsupported_dtype").Inc()
	logger.Op(op, dt.String()).Msg("dispatch miss")
	return UnsupportedDTypeError{Op: op, DType: dt}
}

func errAxisRange(op string, axis, rank int) error {
	metrics.HostOpErrors.WithLabelValues(op, "range").Inc()
	return AxisRangeError{Axis: axis, Rank: rank}
}
