package cast

import (
	"github.com/pkg/errors"
)

// Must converts v to T and panics if it cannot. The panic describes what
// was being converted so that a mismatched stream registration is easy
// to spot.
func Must[T any](v any, what string) T {
	c, ok := v.(T)
	if ok {
		return c
	}
	var zero T
	panic(errors.Errorf("could not convert data of %s (%T) to a %T", what, v, zero))
}
