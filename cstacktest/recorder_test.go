package cstacktest_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yehuda-blip/contextual-stack"
	"github.com/Yehuda-blip/contextual-stack/cstacktest"
)

var (
	requestID = cstack.NewStream[string]("request")
	logLine   = cstack.NewStream[string]("log")
)

type fakeT struct {
	name     string
	logged   []string
	cleanups []func()
}

func (f *fakeT) Log(args ...interface{}) { f.logged = append(f.logged, fmt.Sprint(args...)) }
func (f *fakeT) Name() string            { return f.name }
func (f *fakeT) Cleanup(fn func())       { f.cleanups = append(f.cleanups, fn) }

func TestFramesLoggedAtCleanup(t *testing.T) {
	ft := &fakeT{name: "fake"}
	rec := cstacktest.New(ft)
	cstack.With(rec.Recorder, requestID, "42", func() {
		cstack.Record(rec.Recorder, logLine, "hello")
	})
	assert.Empty(t, ft.logged, "nothing logged before cleanup")
	require.Len(t, ft.cleanups, 1)
	ft.cleanups[0]()
	require.Len(t, ft.logged, 2)
	assert.Contains(t, ft.logged[0], "fake: frames of cstack-")
	assert.Equal(t, "{request:42} -> log=hello", ft.logged[1])
}

func TestPrefixAndLines(t *testing.T) {
	ft := &fakeT{name: "fake"}
	rec := cstacktest.New(ft)
	rec.SetPrefix("> ")
	cstack.Record(rec.Recorder, logLine, "a")
	assert.Equal(t, []string{"{} -> log=a"}, rec.Lines())
	assert.Equal(t, 1, rec.Print())
	assert.Equal(t, []string{"> {} -> log=a"}, ft.logged)
}

func TestEventHelpers(t *testing.T) {
	rec := cstacktest.New(t, cstack.WithEventCapacity(8))
	h := cstack.Open(rec.Recorder, requestID, "1")
	cstack.Record(rec.Recorder, logLine, "x")
	cstack.Record(rec.Recorder, logLine, "y")
	h.Close()
	assert.Equal(t, 1, cstacktest.EventCount(rec.Recorder, cstack.OpenScope))
	assert.Equal(t, 1, cstacktest.EventCount(rec.Recorder, cstack.CloseScope))
	assert.Equal(t, 2, cstacktest.EventCount(rec.Recorder, cstack.RecordValue))

	ft := &fakeT{name: "fake"}
	cstacktest.DumpEvents(ft, rec.Recorder)
	require.Len(t, ft.logged, 1)
	assert.Contains(t, ft.logged[0], "0: open request[1]\n1: record log\n2: record log\n3: close request[1]")
}
