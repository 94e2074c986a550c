package cstack

import (
	"context"
)

type contextKeyType struct{}

var contextKey = contextKeyType{}

// IntoContext attaches a recorder to a context so that it can be passed
// down one logical flow without a global instance.
func IntoContext(ctx context.Context, rec *Recorder) context.Context {
	return context.WithValue(ctx, contextKey, rec)
}

func FromContext(ctx context.Context) (*Recorder, bool) {
	v := ctx.Value(contextKey)
	if v == nil {
		return nil, false
	}
	return v.(*Recorder), true
}

func FromContextOrPanic(ctx context.Context) *Recorder {
	rec, ok := FromContext(ctx)
	if !ok {
		panic("Could not find recorder in context")
	}
	return rec
}

// FromContextOrNew returns the recorder from the context. If there is
// none, a new one is created and attached to the returned context.
func FromContextOrNew(ctx context.Context, mods ...ConfigModifier) (context.Context, *Recorder) {
	if rec, ok := FromContext(ctx); ok {
		return ctx, rec
	}
	rec := New(mods...)
	return IntoContext(ctx, rec), rec
}
