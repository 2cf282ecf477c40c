package utils

import (
	"errors"
	"fmt"
)

const (
	NODETOL = 1.e-12
)

// Failure classes shared by every package in the module. Callers test with
// errors.Is; the concrete messages carry the offending values.
var (
	ErrPreconditionViolation = errors.New("precondition violation")
	ErrNotImplemented        = errors.New("not implemented")
	ErrInternal              = errors.New("internal invariant violated")
	ErrDimensionMismatch     = fmt.Errorf("dimension mismatch: %w",
		ErrPreconditionViolation)
)

func Preconditionf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...),
		ErrPreconditionViolation)
}

func NotImplementedf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...),
		ErrNotImplemented)
}

func DimensionMismatch(have, want int) error {
	return fmt.Errorf("have %d, want %d: %w", have, want,
		ErrDimensionMismatch)
}

// OptionalDimensionMismatch is for buffers that may also be left empty
func OptionalDimensionMismatch(have, want int) error {
	return fmt.Errorf("have %d, want 0 or %d: %w", have, want,
		ErrDimensionMismatch)
}

func Internalf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInternal)
}
