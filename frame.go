package cstack

import (
	"sort"

	"github.com/Yehuda-blip/contextual-stack/internal/util/generic"

	"github.com/pkg/errors"
)

type openRef struct {
	index int // entry index within the (stream, slot) sequence
	seq   int // position of the OpenScope event
}

type slotKey struct {
	stream StreamInfo
	slot   Slot
}

type writeRef struct {
	stream StreamInfo
	index  int
}

// Frame is the reconstructed state at one RecordValue event: the value
// that was written and every scope that was open at the time. A Frame
// reads from its Recorder, so it must not be used concurrently with
// writes to that Recorder.
type Frame struct {
	rec   *Recorder
	seq   int
	write writeRef
	open  map[StreamInfo]map[Slot]openRef
}

// Entry is a type-erased stored value.
type Entry struct {
	Stream StreamInfo
	Slot   Slot
	Value  any
}

// Seq is the position of the RecordValue event in the log.
func (f Frame) Seq() int { return f.seq }

// Stream is the stream that was written.
func (f Frame) Stream() StreamInfo { return f.write.stream }

func (f Frame) IsZero() bool { return f.rec == nil }

func (f Frame) Write() Entry {
	return Entry{
		Stream: f.write.stream,
		Slot:   Plain,
		Value:  f.rec.entry(f.write.stream, Plain, f.write.index),
	}
}

type slotRef struct {
	slot Slot
	openRef
}

func sortedRefs(refs map[Slot]openRef) []slotRef {
	ordered := make([]slotRef, 0, len(refs))
	for slot, ref := range refs {
		ordered = append(ordered, slotRef{slot: slot, openRef: ref})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })
	return ordered
}

// Context returns every open scope entry, ordered by when the scope
// was opened.
func (f Frame) Context() []Entry {
	type seqEntry struct {
		Entry
		seq int
	}
	var all []seqEntry
	for stream, refs := range f.open {
		for slot, ref := range refs {
			all = append(all, seqEntry{
				Entry: Entry{Stream: stream, Slot: slot, Value: f.rec.entry(stream, slot, ref.index)},
				seq:   ref.seq,
			})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })
	entries := make([]Entry, len(all))
	for i, e := range all {
		entries[i] = e.Entry
	}
	return entries
}

// Depth is the number of open scopes across all streams.
func (f Frame) Depth() int {
	var n int
	for _, refs := range f.open {
		n += len(refs)
	}
	return n
}

// Value returns the written value if the frame's write went to s.
func Value[T any](f Frame, s Stream[T]) (T, bool) {
	if f.rec == nil || f.write.stream != s.info {
		var zero T
		return zero, false
	}
	return columnFor(f.rec, s).at(Plain, f.write.index), true
}

// Scopes returns the entries of every open scope of s, oldest first.
// More than one is returned when the stream was open several times at
// once.
func Scopes[T any](f Frame, s Stream[T]) []T {
	refs := f.open[s.info]
	if len(refs) == 0 {
		return nil
	}
	col := columnFor(f.rec, s)
	values := make([]T, 0, len(refs))
	for _, ref := range sortedRefs(refs) {
		values = append(values, col.at(ref.slot, ref.index))
	}
	return values
}

// Innermost returns the most recently opened scope entry of s.
func Innermost[T any](f Frame, s Stream[T]) (T, bool) {
	values := Scopes(f, s)
	if len(values) == 0 {
		var zero T
		return zero, false
	}
	return values[len(values)-1], true
}

// Resolved is a Frame with all values read out of storage. Unlike a
// Frame it does not refer back to its Recorder.
type Resolved struct {
	Seq     int
	Context []Entry
	Write   Entry
}

func (f Frame) Resolve() Resolved {
	return Resolved{
		Seq:     f.seq,
		Context: f.Context(),
		Write:   f.Write(),
	}
}

// FrameIter replays the event log once, producing a Frame for every
// RecordValue event. The log is captured when the iterator is created:
// events recorded afterwards are never seen by it.
//
//	for it := rec.Iter(); it.Next(); {
//		f := it.Frame()
//	}
type FrameIter struct {
	rec    *Recorder
	events []Event
	pos    int
	open   map[StreamInfo]map[Slot]openRef
	counts map[slotKey]int
	frame  Frame
}

func (rec *Recorder) Iter() *FrameIter {
	n := len(rec.events)
	return &FrameIter{
		rec:    rec,
		events: rec.events[:n:n],
		open:   make(map[StreamInfo]map[Slot]openRef),
		counts: make(map[slotKey]int),
	}
}

// Next advances to the next frame. It returns false when the captured
// log is exhausted.
func (it *FrameIter) Next() bool {
	for it.pos < len(it.events) {
		seq := it.pos
		event := it.events[seq]
		it.pos++
		key := slotKey{stream: event.Stream, slot: event.Slot}
		switch event.Kind {
		case OpenScope:
			slots, ok := it.open[event.Stream]
			if !ok {
				slots = make(map[Slot]openRef)
				it.open[event.Stream] = slots
			}
			if _, ok := slots[event.Slot]; ok {
				panic(errors.Errorf("event %d opens stream %s slot %d which is already open", seq, event.Stream.Name(), event.Slot))
			}
			slots[event.Slot] = openRef{index: it.counts[key], seq: seq}
			it.counts[key]++
		case CloseScope:
			slots := it.open[event.Stream]
			if _, ok := slots[event.Slot]; !ok {
				panic(errors.Errorf("event %d closes stream %s slot %d which has no matching open", seq, event.Stream.Name(), event.Slot))
			}
			delete(slots, event.Slot)
			if len(slots) == 0 {
				delete(it.open, event.Stream)
			}
		case RecordValue:
			it.frame = Frame{
				rec:   it.rec,
				seq:   seq,
				write: writeRef{stream: event.Stream, index: it.counts[key]},
				open:  generic.CopyNestedMap(it.open),
			}
			it.counts[key]++
			return true
		default:
			panic(errors.Errorf("event %d has unknown kind %s", seq, event.Kind))
		}
	}
	it.frame = Frame{}
	return false
}

// Frame is the frame produced by the last successful call to Next.
func (it *FrameIter) Frame() Frame { return it.frame }

// Frames replays the whole log.
func (rec *Recorder) Frames() []Frame {
	var frames []Frame
	for it := rec.Iter(); it.Next(); {
		frames = append(frames, it.Frame())
	}
	return frames
}
