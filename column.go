package cstack

import (
	"github.com/Yehuda-blip/contextual-stack/cstackslots"
	"github.com/Yehuda-blip/contextual-stack/internal/util/cast"
	"github.com/Yehuda-blip/contextual-stack/internal/util/generic"

	"github.com/muir/list"
	"github.com/pkg/errors"
)

// column is the type-erased storage of one stream.
type column interface {
	get(slot Slot, index int) any
	copy() column
}

// columnOf holds the entries of one stream, one append-only sequence
// per duplicate slot. Indexes into a sequence never change.
type columnOf[T any] struct {
	name    string
	entries map[Slot][]T
}

func (c *columnOf[T]) push(slot Slot, v T) int {
	c.entries[slot] = append(c.entries[slot], v)
	return len(c.entries[slot]) - 1
}

func (c *columnOf[T]) at(slot Slot, index int) T {
	entries := c.entries[slot]
	if index < 0 || index >= len(entries) {
		panic(errors.Errorf("index %d is out of bounds for stream %s slot %d", index, c.name, slot))
	}
	return entries[index]
}

func (c *columnOf[T]) get(slot Slot, index int) any { return c.at(slot, index) }

func (c *columnOf[T]) copy() column {
	n := &columnOf[T]{
		name:    c.name,
		entries: make(map[Slot][]T, len(c.entries)),
	}
	for slot, entries := range c.entries {
		n.entries[slot] = list.Copy(entries)
	}
	return n
}

// streamState is everything the recorder keeps for one stream.
type streamState struct {
	col   column
	slots *cstackslots.Slots
	// open maps each currently open slot to the index of its entry
	open map[Slot]int
}

func (st *streamState) copy() *streamState {
	return &streamState{
		col:   st.col.copy(),
		slots: st.slots.Copy(),
		open:  generic.CopyMap(st.open),
	}
}

// state returns the storage for a stream, creating it on first use.
func state[T any](rec *Recorder, s Stream[T]) (*streamState, *columnOf[T]) {
	if st, ok := rec.streams[s.info]; ok {
		return st, cast.Must[*columnOf[T]](st.col, s.info.Name())
	}
	s.info.mustBeDeclared()
	col := &columnOf[T]{
		name:    s.info.Name(),
		entries: make(map[Slot][]T),
	}
	st := &streamState{
		col:   col,
		slots: cstackslots.New(),
		open:  make(map[Slot]int),
	}
	rec.streams[s.info] = st
	return st, col
}

// columnFor is used on the read side where the stream must already exist.
func columnFor[T any](rec *Recorder, s Stream[T]) *columnOf[T] {
	st, ok := rec.streams[s.info]
	if !ok {
		panic(errors.Errorf("no storage for stream %s", s.info.Name()))
	}
	return cast.Must[*columnOf[T]](st.col, s.info.Name())
}

func (rec *Recorder) entry(s StreamInfo, slot Slot, index int) any {
	st, ok := rec.streams[s]
	if !ok {
		panic(errors.Errorf("no storage for stream %s", s.Name()))
	}
	return st.col.get(slot, index)
}
