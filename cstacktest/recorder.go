/*
Package cstacktest binds a recorder to a test. When the test finishes,
every reconstructed frame is written to the test log.
*/
package cstacktest

import (
	"fmt"
	"strings"

	"github.com/Yehuda-blip/contextual-stack"
	"github.com/Yehuda-blip/contextual-stack/cstackcon"
)

type testingT interface {
	Log(...interface{})
	Name() string
	Cleanup(func())
}

type tPassthrough struct{ t testingT }

func (t tPassthrough) Write(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if b[len(b)-1] == '\n' {
		t.t.Log(string(b[0 : len(b)-1]))
	} else {
		t.t.Log(string(b))
	}
	return len(b), nil
}

// Recorder is a cstack.Recorder that prints its frames to the test log
// during test cleanup.
type Recorder struct {
	*cstack.Recorder
	t       testingT
	console *cstackcon.Printer
}

func New(t testingT, mods ...cstack.ConfigModifier) *Recorder {
	rec := &Recorder{
		Recorder: cstack.New(mods...),
		t:        t,
		console: cstackcon.New(
			cstackcon.WithWriter(tPassthrough{t}),
			cstackcon.WithStreamNames(true),
		),
	}
	t.Cleanup(func() {
		rec.t.Log(fmt.Sprintf("%s: frames of %s", rec.t.Name(), rec.ID()))
		rec.Print()
	})
	return rec
}

// Print writes all frames recorded so far to the test log.
func (rec *Recorder) Print() int {
	return rec.console.Print(rec.Recorder)
}

func (rec *Recorder) SetPrefix(p string) {
	rec.console.SetPrefix(p)
}

// Lines formats every frame the way they are printed.
func (rec *Recorder) Lines() []string {
	var lines []string
	for _, f := range rec.Frames() {
		lines = append(lines, rec.console.Format(f.Resolve()))
	}
	return lines
}

// DumpEvents writes the raw event log to the test log.
func DumpEvents(t testingT, rec *cstack.Recorder) {
	var o []string
	for i, event := range rec.Events() {
		o = append(o, fmt.Sprintf("%d: %s", i, event))
	}
	t.Log(fmt.Sprintf("events of %s:\n%s", rec.ID(), strings.Join(o, "\n")))
}

func EventCount(rec *cstack.Recorder, kind cstack.EventKind) int {
	var got int
	for _, event := range rec.Events() {
		if event.Kind == kind {
			got++
		}
	}
	return got
}
