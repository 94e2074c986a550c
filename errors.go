package cstack

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrContextOverwrite matches, via errors.Is, the error returned by TryOpen
// when the value is already open on a unique stream.
var ErrContextOverwrite = errors.New("context is already open")

type OverwriteError struct {
	Stream StreamInfo
	Value  any
}

func (e *OverwriteError) Error() string {
	return fmt.Sprintf("context %v is already open on stream %s", e.Value, e.Stream.Name())
}

func (e *OverwriteError) Is(target error) bool {
	return target == ErrContextOverwrite
}
