package cstack

import (
	"reflect"

	"github.com/pkg/errors"
)

type streamInfo struct {
	name  string
	equal func(a, b any) bool
}

// StreamInfo is the type-erased identity of a Stream. It is comparable
// and can be used as a map key.
type StreamInfo struct {
	s *streamInfo
}

func (i StreamInfo) Name() string {
	if i.s == nil {
		return ""
	}
	return i.s.name
}

func (i StreamInfo) String() string { return i.Name() }
func (i StreamInfo) IsZero() bool   { return i.s == nil }

// Unique reports if the stream was created with NewUniqueStream.
func (i StreamInfo) Unique() bool { return i.s != nil && i.s.equal != nil }

func (i StreamInfo) mustBeDeclared() {
	if i.s == nil {
		panic(errors.New("cstack: stream was not created with NewStream"))
	}
}

// Stream is a named channel whose entries are of type T. The identity
// of a stream is the value returned by NewStream: two streams with the
// same name are still different streams.
type Stream[T any] struct {
	info StreamInfo
}

func NewStream[T any](name string) Stream[T] {
	return Stream[T]{
		info: StreamInfo{s: &streamInfo{name: name}},
	}
}

// NewUniqueStream creates a stream where TryOpen refuses to open a
// scope whose value equals one that is already open on the stream.
func NewUniqueStream[T comparable](name string) Stream[T] {
	return Stream[T]{
		info: StreamInfo{s: &streamInfo{
			name:  name,
			equal: equalValues,
		}},
	}
}

// equalValues is == that treats values it cannot compare as different.
// T may be an interface type whose dynamic values are not comparable.
func equalValues(a, b any) (equal bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta != nil && !ta.Comparable() {
		return false
	}
	// comparable structs and arrays may still hold uncomparable
	// values in interface fields
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()
	return a == b
}

func (s Stream[T]) Name() string     { return s.info.Name() }
func (s Stream[T]) Info() StreamInfo { return s.info }
func (s Stream[T]) String() string   { return s.info.Name() }
