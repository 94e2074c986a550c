/*
Package cstackcon prints reconstructed frames for humans, one line per
recorded value:

	{request:42, attempt:1} -> try

Context entries are listed in the order their scopes were opened.
*/
package cstackcon

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Yehuda-blip/contextual-stack"
	"github.com/Yehuda-blip/contextual-stack/cstackdump"

	"github.com/google/uuid"
)

type Opt func(*Printer)

func WithWriter(w io.Writer) Opt {
	return func(p *Printer) {
		p.out = w
	}
}

// WithPrefix sets a string written before every line.
func WithPrefix(prefix string) Opt {
	return func(p *Printer) {
		p.linePrefix = prefix
	}
}

// WithStreamNames adds the name of the written stream to each line:
//
//	{request:42} -> log=start
func WithStreamNames(b bool) Opt {
	return func(p *Printer) {
		p.streamNames = b
	}
}

func WithErrorReporter(f func(error)) Opt {
	return func(p *Printer) {
		p.errorReporter = f
	}
}

type Printer struct {
	out           io.Writer
	id            string
	linePrefix    string
	streamNames   bool
	errorReporter func(error)
}

func New(opts ...Opt) *Printer {
	p := &Printer{
		out:           os.Stdout,
		id:            "cstackcon-" + uuid.New().String(),
		errorReporter: func(error) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Printer) ID() string { return p.id }

func (p *Printer) SetPrefix(prefix string) {
	p.linePrefix = prefix
}

func (p *Printer) output(s string) {
	_, err := io.WriteString(p.out, p.linePrefix+s+"\n")
	if err != nil {
		p.errorReporter(err)
	}
}

type pair struct {
	key   string
	value interface{}
}

func (p *Printer) format(context []pair, write pair) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, c := range context {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.key)
		b.WriteByte(':')
		fmt.Fprint(&b, c.value)
	}
	b.WriteString("} -> ")
	if p.streamNames {
		b.WriteString(write.key)
		b.WriteByte('=')
	}
	fmt.Fprint(&b, write.value)
	return b.String()
}

// Format renders a resolved frame without printing it.
func (p *Printer) Format(r cstack.Resolved) string {
	context := make([]pair, len(r.Context))
	for i, e := range r.Context {
		context[i] = pair{key: e.Stream.Name(), value: e.Value}
	}
	return p.format(context, pair{key: r.Write.Stream.Name(), value: r.Write.Value})
}

// FormatRecord renders a frame read back from a dump.
func (p *Printer) FormatRecord(r cstackdump.FrameRecord) string {
	context := make([]pair, len(r.Context))
	for i, e := range r.Context {
		context[i] = pair{key: e.Stream, value: e.Value}
	}
	return p.format(context, pair{key: r.Stream, value: r.Value})
}

func (p *Printer) PrintFrame(f cstack.Frame) {
	p.output(p.Format(f.Resolve()))
}

// PrintIter prints the remaining frames of an iterator and returns how
// many were printed.
func (p *Printer) PrintIter(it *cstack.FrameIter) int {
	var n int
	for it.Next() {
		p.PrintFrame(it.Frame())
		n++
	}
	return n
}

func (p *Printer) Print(rec *cstack.Recorder) int {
	return p.PrintIter(rec.Iter())
}

func (p *Printer) PrintDump(d *cstackdump.Dump) int {
	for _, r := range d.Frames {
		p.output(p.FormatRecord(r))
	}
	return len(d.Frames)
}
