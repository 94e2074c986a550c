package cstack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntoContext(t *testing.T) {
	rec := New()
	ctx := context.Background()
	ctxWithRec := IntoContext(ctx, rec)
	assert.Equal(t, rec, ctxWithRec.Value(contextKey))
}

func TestFromContext(t *testing.T) {
	rec := New()
	ctx := context.Background()
	ctxRec, ok := FromContext(ctx)
	assert.False(t, ok)
	assert.Nil(t, ctxRec)
	ctxRec, ok = FromContext(IntoContext(ctx, rec))
	assert.True(t, ok)
	assert.Same(t, rec, ctxRec)
}

func TestFromContextOrPanic(t *testing.T) {
	ctx := context.Background()
	assert.Panics(t, func() { _ = FromContextOrPanic(ctx) })
	rec := New()
	assert.Same(t, rec, FromContextOrPanic(IntoContext(ctx, rec)))
}

func TestFromContextOrNew(t *testing.T) {
	ctx, rec := FromContextOrNew(context.Background())
	assert.NotNil(t, rec)
	ctx2, rec2 := FromContextOrNew(ctx)
	assert.Same(t, rec, rec2)
	assert.Equal(t, ctx, ctx2)
}
