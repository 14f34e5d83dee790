package extsort

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition indicates invalid input before any I/O was attempted:
	// a missing input or output file, or an input length that is not a
	// multiple of 4.
	ErrPrecondition = errors.New("precondition failed")

	// ErrIO indicates a read, write, open or close failure during sorting.
	// The underlying cause is wrapped alongside it.
	ErrIO = errors.New("i/o failure")
)

// ioError classifies err as ErrIO, adding op as context. Errors that are
// already classified only gain the context.
func ioError(op string, err error) error {
	if errors.Is(err, ErrIO) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

func preconditionError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}
