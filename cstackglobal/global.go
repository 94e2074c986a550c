/*
Package cstackglobal provides process-wide recorders guarded by a mutex,
for code that does not pass a cstack.Recorder down its call chain.

	var Requests = cstackglobal.Named("requests")

	func handle(id string) {
		h := cstackglobal.Open(Requests, requestID, id)
		defer h.Close()
		cstackglobal.Record(Requests, logLine, "handling")
	}

The lock is held only for the duration of each call. A Handle does not
hold the lock while its scope is open, so two goroutines writing into
the same Global at once will see each other's scopes in their frames.
A Global is meant for one logical flow at a time.

If a panic happens while the lock is held, the Global is poisoned and
every later call on it panics.
*/
package cstackglobal

import (
	"sync"

	"github.com/Yehuda-blip/contextual-stack"

	"github.com/pkg/errors"
)

type Global struct {
	name     string
	mods     []cstack.ConfigModifier
	once     sync.Once
	mu       sync.Mutex
	rec      *cstack.Recorder
	poisoned bool
}

var registry sync.Map

// New creates a Global. The underlying recorder is created on first use.
func New(name string, mods ...cstack.ConfigModifier) *Global {
	return &Global{
		name: name,
		mods: mods,
	}
}

// Named returns the process-wide Global with the given name, creating it
// if needed. The modifiers are only used when it is created.
func Named(name string, mods ...cstack.ConfigModifier) *Global {
	if g, ok := registry.Load(name); ok {
		return g.(*Global)
	}
	g, _ := registry.LoadOrStore(name, New(name, mods...))
	return g.(*Global)
}

func (g *Global) Name() string { return g.name }

func (g *Global) Poisoned() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.poisoned
}

func (g *Global) locked(f func(rec *cstack.Recorder)) {
	g.once.Do(func() {
		g.rec = cstack.New(g.mods...)
	})
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.poisoned {
		panic(errors.Errorf("global contexter %s mutex is poisoned", g.name))
	}
	var done bool
	defer func() {
		if !done {
			g.poisoned = true
		}
	}()
	f(g.rec)
	done = true
}

func Record[T any](g *Global, s cstack.Stream[T], v T) {
	g.locked(func(rec *cstack.Recorder) {
		cstack.Record(rec, s, v)
	})
}

func Open[T any](g *Global, s cstack.Stream[T], v T) *Handle {
	var h *cstack.Handle
	g.locked(func(rec *cstack.Recorder) {
		h = cstack.Open(rec, s, v)
	})
	return &Handle{g: g, h: h, slot: h.Slot()}
}

func TryOpen[T any](g *Global, s cstack.Stream[T], v T) (*Handle, error) {
	var h *cstack.Handle
	var err error
	g.locked(func(rec *cstack.Recorder) {
		h, err = cstack.TryOpen(rec, s, v)
	})
	if err != nil {
		return nil, err
	}
	return &Handle{g: g, h: h, slot: h.Slot()}, nil
}

// With runs f inside a scope. The lock is not held while f runs.
func With[T any](g *Global, s cstack.Stream[T], v T, f func()) {
	h := Open(g, s, v)
	defer h.Close()
	f()
}

// Handle closes its scope under the Global's lock.
type Handle struct {
	g    *Global
	h    *cstack.Handle
	slot cstack.Slot
}

func (h *Handle) Close() {
	if h == nil || h.h == nil {
		return
	}
	inner := h.h
	h.h = nil
	h.g.locked(func(*cstack.Recorder) {
		inner.Close()
	})
}

func (h *Handle) Slot() cstack.Slot { return h.slot }

// View holds the lock while f reads the frames, so writers block until
// f returns. f must not call back into g. Frames read from the live
// recorder and must not be used after f returns: keep Frame.Resolve
// results instead, or use Values or Snapshot.
func (g *Global) View(f func(it *cstack.FrameIter) error) error {
	var err error
	g.locked(func(rec *cstack.Recorder) {
		err = f(rec.Iter())
	})
	return err
}

// Values resolves every frame under the lock.
func (g *Global) Values() []cstack.Resolved {
	var values []cstack.Resolved
	_ = g.View(func(it *cstack.FrameIter) error {
		for it.Next() {
			values = append(values, it.Frame().Resolve())
		}
		return nil
	})
	return values
}

// Snapshot copies the recorder under the lock. The copy can be read
// without blocking writers.
func (g *Global) Snapshot() *cstack.Recorder {
	var snap *cstack.Recorder
	g.locked(func(rec *cstack.Recorder) {
		snap = rec.Snapshot()
	})
	return snap
}

// Len is the number of events recorded so far.
func (g *Global) Len() int {
	var n int
	g.locked(func(rec *cstack.Recorder) {
		n = rec.Len()
	})
	return n
}
