package cstack

import (
	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
	"github.com/muir/list"
	"github.com/pkg/errors"
)

// Recorder owns the stream storage and the event log. It is not
// thread-safe: use it from one logical flow or guard it externally
// (see cstackglobal).
type Recorder struct {
	id      string
	config  Config
	streams map[StreamInfo]*streamState
	events  []Event
}

func New(mods ...ConfigModifier) *Recorder {
	config := DefaultConfig
	for _, mod := range mods {
		mod(&config)
	}
	return &Recorder{
		id:      "cstack-" + uuid.New().String(),
		config:  config,
		streams: make(map[StreamInfo]*streamState),
		events:  make([]Event, 0, config.EventCapacity),
	}
}

func (rec *Recorder) ID() string { return rec.id }

// Len is the number of events in the log.
func (rec *Recorder) Len() int { return len(rec.events) }

// Events returns a copy of the event log.
func (rec *Recorder) Events() []Event { return list.Copy(rec.events) }

// OpenCount is the number of scopes of the stream that are open right now.
func (rec *Recorder) OpenCount(s StreamInfo) int {
	st, ok := rec.streams[s]
	if !ok {
		return 0
	}
	return len(st.open)
}

// Snapshot returns an independent recorder with a copy of the log and
// storage as of now. Frames of the snapshot can be read while the
// original keeps recording.
func (rec *Recorder) Snapshot() *Recorder {
	n := &Recorder{
		id:      rec.id,
		config:  rec.config,
		streams: make(map[StreamInfo]*streamState, len(rec.streams)),
		events:  list.Copy(rec.events),
	}
	for s, st := range rec.streams {
		n.streams[s] = st.copy()
	}
	return n
}

func copyValue[T any](rec *Recorder, v T) T {
	if !rec.config.CopyValues {
		return v
	}
	if c, ok := deepcopy.Copy(v).(T); ok {
		return c
	}
	return v
}

// Record writes a value that is not itself context.
func Record[T any](rec *Recorder, s Stream[T], v T) {
	_, col := state(rec, s)
	col.push(Plain, copyValue(rec, v))
	rec.events = append(rec.events, Event{Kind: RecordValue, Stream: s.info, Slot: Plain})
}

// Open opens a scope. The value is part of the context of every write
// until the returned Handle is closed. Open never fails: a stream may be
// open any number of times at once.
func Open[T any](rec *Recorder, s Stream[T], v T) *Handle {
	st, col := state(rec, s)
	slot := st.slots.Allocate()
	st.open[slot] = col.push(slot, copyValue(rec, v))
	rec.events = append(rec.events, Event{Kind: OpenScope, Stream: s.info, Slot: slot})
	return &Handle{
		rec:    rec,
		stream: s.info,
		slot:   slot,
	}
}

// TryOpen is Open with collision detection for streams created by
// NewUniqueStream: if an equal value is already open on the stream, no
// scope is opened and an *OverwriteError is returned. For other streams
// TryOpen always succeeds.
func TryOpen[T any](rec *Recorder, s Stream[T], v T) (*Handle, error) {
	if s.info.Unique() {
		if st, ok := rec.streams[s.info]; ok {
			for slot, index := range st.open {
				if s.info.s.equal(st.col.get(slot, index), v) {
					return nil, &OverwriteError{Stream: s.info, Value: v}
				}
			}
		}
	}
	return Open(rec, s, v), nil
}

// With runs f inside a scope. The scope is closed when f returns or
// panics.
func With[T any](rec *Recorder, s Stream[T], v T, f func()) {
	h := Open(rec, s, v)
	defer h.Close()
	f()
}

func (rec *Recorder) closeScope(s StreamInfo, slot Slot) {
	st, ok := rec.streams[s]
	if !ok {
		panic(errors.Errorf("close of stream %s which was never opened", s.Name()))
	}
	if _, ok := st.open[slot]; !ok {
		panic(errors.Errorf("close of stream %s slot %d which is not open", s.Name(), slot))
	}
	delete(st.open, slot)
	rec.events = append(rec.events, Event{Kind: CloseScope, Stream: s, Slot: slot})
	st.slots.Deallocate(slot)
}

// Handle is returned by Open. Closing it is the only way to close the
// scope, so it should be closed on every exit path, usually with defer.
// A Handle must not be copied.
type Handle struct {
	rec    *Recorder
	stream StreamInfo
	slot   Slot
}

// Close closes the scope. Calls after the first do nothing.
func (h *Handle) Close() {
	if h == nil || h.rec == nil {
		return
	}
	rec := h.rec
	h.rec = nil
	rec.closeScope(h.stream, h.slot)
}

func (h *Handle) Stream() StreamInfo { return h.stream }
func (h *Handle) Slot() Slot         { return h.slot }
func (h *Handle) Closed() bool       { return h.rec == nil }
