/*
Package cstack records values together with the scopes that were open
when they were written.

A Stream is a named channel with a fixed entry type. Streams are
declared once, usually as package variables:

	var RequestID = cstack.NewStream[string]("request_id")
	var Log = cstack.NewStream[string]("log")

Call sites open scopes on entry to a unit of work and write values while
inside it:

	rec := cstack.New()
	h := cstack.Open(rec, RequestID, "42")
	defer h.Close()
	cstack.Record(rec, Log, "request failed")

Nothing is attached to the values at write time. The Recorder keeps one
append-only event log of scope opens, scope closes, and writes. A
FrameIter replays that log and produces, for every write, a Frame that
knows which scope entries were open at that moment:

	for it := rec.Iter(); it.Next(); {
		f := it.Frame()
		ids := cstack.Scopes(f, RequestID)
		msg, _ := cstack.Value(f, Log)
	}

The same stream may be open several times at once (recursion, a loop
that opens before the previous iteration closes). Each open instance
gets its own duplicate slot so the instances never collide.

A Recorder is not safe for concurrent use. Use cstackglobal for a
process-wide, locked instance, or pass a Recorder down the call chain
with IntoContext.
*/
package cstack
