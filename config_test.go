package cstack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Yehuda-blip/contextual-stack"
)

type payload struct {
	Tags []string
}

func TestConfigModifiers(t *testing.T) {
	rec := cstack.New(cstack.WithConfigChanges(
		cstack.WithCopyValues(true),
		cstack.WithEventCapacity(64),
	))
	assert.Equal(t, cstack.Config{CopyValues: true, EventCapacity: 64}, rec.Config())

	rec = cstack.New(cstack.WithCopyValues(true), cstack.WithConfig(cstack.Config{EventCapacity: 3}))
	assert.Equal(t, cstack.Config{EventCapacity: 3}, rec.Config(), "WithConfig replaces")
}

func TestCopyValues(t *testing.T) {
	stream := cstack.NewStream[*payload]("payload")
	for _, copyValues := range []bool{true, false} {
		rec := cstack.New(cstack.WithCopyValues(copyValues))
		p := &payload{Tags: []string{"a"}}
		cstack.Record(rec, stream, p)
		p.Tags[0] = "changed"
		frames := rec.Frames()
		if assert.Len(t, frames, 1) {
			got, ok := cstack.Value(frames[0], stream)
			assert.True(t, ok)
			if copyValues {
				assert.Equal(t, "a", got.Tags[0], "copied value is unaffected")
			} else {
				assert.Equal(t, "changed", got.Tags[0], "reference is kept")
			}
		}
	}
}
