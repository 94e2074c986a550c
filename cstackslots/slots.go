/*
Package cstackslots allocates duplicate slots: small integers that tell
apart the concurrently open scopes of one stream.

Slots below Reserved are never handed out. Slot 0 (Plain) belongs to
the plain, unscoped writes of a stream.
*/
package cstackslots

import (
	"container/heap"

	"github.com/muir/list"
)

type Slot int

const (
	Plain    Slot = 0
	Reserved      = 1
)

// Slots is not thread-safe. Each stream has its own.
type Slots struct {
	counter Slot
	holes   holes
}

func New() *Slots {
	return &Slots{
		counter: Reserved,
	}
}

// Allocate returns the smallest slot that is not outstanding.
func (s *Slots) Allocate() Slot {
	if len(s.holes) > 0 {
		return heap.Pop(&s.holes).(Slot)
	}
	slot := s.counter
	s.counter++
	return slot
}

// Deallocate returns a slot from Allocate to the pool. Releasing the
// most recently issued slot shrinks the counter instead of leaving a
// hole, which keeps sequential open/close patterns at a single slot.
func (s *Slots) Deallocate(slot Slot) {
	if slot == s.counter-1 {
		s.counter--
		return
	}
	heap.Push(&s.holes, slot)
}

// Outstanding is the number of slots currently allocated.
func (s *Slots) Outstanding() int {
	return int(s.counter) - Reserved - len(s.holes)
}

func (s *Slots) Copy() *Slots {
	return &Slots{
		counter: s.counter,
		holes:   list.Copy(s.holes),
	}
}

func IsReserved(slot Slot) bool { return slot < Reserved }

type holes []Slot

func (h holes) Len() int            { return len(h) }
func (h holes) Less(i, j int) bool  { return h[i] < h[j] }
func (h holes) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *holes) Push(x interface{}) { *h = append(*h, x.(Slot)) }
func (h *holes) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
