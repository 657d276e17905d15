package strscan

import (
	"errors"
	"fmt"
)

var (
	// ErrUninitialized is returned by every operation on a Scanner that has
	// no buffer bound to it.
	ErrUninitialized = errors.New("strscan: uninitialized scanner")

	// ErrNoSuchCapture is matched by CaptureNameError.
	ErrNoSuchCapture = errors.New("strscan: no such capture")

	ErrIncompatibleEncoding = errors.New("strscan: incompatible encoding")
	ErrNothingToUnscan      = errors.New("strscan: nothing to unscan")
	ErrInvalidArgument      = errors.New("strscan: invalid argument")
	ErrOutOfRange           = errors.New("strscan: out of range")
)

// CaptureNameError reports a named capture lookup for a name the last match
// does not define.
type CaptureNameError struct {
	Name string
}

func (e *CaptureNameError) Error() string {
	return fmt.Sprintf("strscan: undefined group name reference: %s", e.Name)
}

func (e *CaptureNameError) Is(target error) bool {
	return target == ErrNoSuchCapture
}

func incompatible(buf, pat Encoding) error {
	return fmt.Errorf("%w: %s pattern with %s buffer", ErrIncompatibleEncoding, pat, buf)
}
