package cstack

import (
	"fmt"
)

type FramePredicate struct {
	f    func(Frame) bool
	desc string
}

func (p FramePredicate) String() string { return p.desc }

func WriteStreamIs[T any](s Stream[T]) FramePredicate {
	return FramePredicate{
		f: func(f Frame) bool {
			return f.write.stream == s.info
		},
		desc: "write stream is " + s.Name(),
	}
}

func WriteEquals[T comparable](s Stream[T], v T) FramePredicate {
	return FramePredicate{
		f: func(f Frame) bool {
			got, ok := Value(f, s)
			return ok && got == v
		},
		desc: fmt.Sprintf("write to %s equals %v", s.Name(), v),
	}
}

func HasScope[T any](s Stream[T]) FramePredicate {
	return FramePredicate{
		f: func(f Frame) bool {
			return len(f.open[s.info]) > 0
		},
		desc: "has scope " + s.Name(),
	}
}

// ScopeEquals matches frames where any open scope of s has the value v.
func ScopeEquals[T comparable](s Stream[T], v T) FramePredicate {
	return FramePredicate{
		f: func(f Frame) bool {
			for _, got := range Scopes(f, s) {
				if got == v {
					return true
				}
			}
			return false
		},
		desc: fmt.Sprintf("scope %s equals %v", s.Name(), v),
	}
}

func Not(p FramePredicate) FramePredicate {
	return FramePredicate{
		f: func(f Frame) bool {
			return !p.f(f)
		},
		desc: "not " + p.desc,
	}
}

func (rec *Recorder) FindFrames(predicates ...FramePredicate) []Frame {
	var found []Frame
Frame:
	for it := rec.Iter(); it.Next(); {
		frame := it.Frame()
		for _, predicate := range predicates {
			if !predicate.f(frame) {
				continue Frame
			}
		}
		found = append(found, frame)
	}
	return found
}

func (rec *Recorder) CountFrames(predicates ...FramePredicate) int {
	return len(rec.FindFrames(predicates...))
}
