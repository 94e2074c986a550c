/*
Package cstackdump writes reconstructed frames in a form that can be
stored and read back by tools, as JSON or YAML:

	{
		"version": "1.0.0",
		"recorder": "cstack-8c2c...",
		"frames": [
			{
				"seq": 2,
				"stream": "log",
				"value": "start",
				"context": [
					{"stream": "request", "slot": 1, "value": "42"}
				]
			}
		]
	}

"seq" is the position of the write in the event log. Context entries
are ordered by when their scopes were opened.

Values come back from Decode with the types of the encoding that was
read: numbers in a JSON dump decode as json.Number, while numbers in a
YAML dump decode as int or float64.
*/
package cstackdump

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/Yehuda-blip/contextual-stack"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FormatVersion is written into every dump. Decode accepts dumps with
// the same major version.
const FormatVersion = "1.0.0"

var currentVersion = func() *semver.Version {
	v, err := semver.StrictNewVersion(FormatVersion)
	if err != nil {
		panic(err)
	}
	return v
}()

type EntryRecord struct {
	Stream string      `json:"stream" yaml:"stream"`
	Slot   int         `json:"slot,omitempty" yaml:"slot,omitempty"`
	Value  interface{} `json:"value" yaml:"value"`
}

type FrameRecord struct {
	Seq     int           `json:"seq" yaml:"seq"`
	Stream  string        `json:"stream" yaml:"stream"`
	Value   interface{}   `json:"value" yaml:"value"`
	Context []EntryRecord `json:"context,omitempty" yaml:"context,omitempty"`
}

type Dump struct {
	Version  string        `json:"version" yaml:"version"`
	Recorder string        `json:"recorder,omitempty" yaml:"recorder,omitempty"`
	Frames   []FrameRecord `json:"frames" yaml:"frames"`
}

func Record(r cstack.Resolved) FrameRecord {
	fr := FrameRecord{
		Seq:    r.Seq,
		Stream: r.Write.Stream.Name(),
		Value:  r.Write.Value,
	}
	for _, e := range r.Context {
		fr.Context = append(fr.Context, EntryRecord{
			Stream: e.Stream.Name(),
			Slot:   int(e.Slot),
			Value:  e.Value,
		})
	}
	return fr
}

// FromResolved builds a dump out of frames that were already resolved,
// for example by cstackglobal.Global.Values.
func FromResolved(recorderID string, resolved []cstack.Resolved) *Dump {
	d := &Dump{
		Version:  FormatVersion,
		Recorder: recorderID,
		Frames:   make([]FrameRecord, 0, len(resolved)),
	}
	for _, r := range resolved {
		d.Frames = append(d.Frames, Record(r))
	}
	return d
}

// Build replays a recorder into a dump.
func Build(rec *cstack.Recorder) *Dump {
	d := &Dump{
		Version:  FormatVersion,
		Recorder: rec.ID(),
		Frames:   []FrameRecord{},
	}
	for it := rec.Iter(); it.Next(); {
		d.Frames = append(d.Frames, Record(it.Frame().Resolve()))
	}
	return d
}

func (d *Dump) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return errors.Wrap(enc.Encode(d), "encode json dump")
}

func (d *Dump) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, "encode yaml dump")
	}
	return errors.Wrap(enc.Close(), "encode yaml dump")
}

// Decode reads a dump written by EncodeJSON or EncodeYAML.
func Decode(r io.Reader) (*Dump, error) {
	br := bufio.NewReader(r)
	first, err := firstNonSpace(br)
	if err != nil {
		return nil, errors.Wrap(err, "read dump")
	}
	var d Dump
	if first == '{' {
		dec := json.NewDecoder(br)
		dec.UseNumber()
		err = errors.Wrap(dec.Decode(&d), "decode json dump")
	} else {
		err = errors.Wrap(yaml.NewDecoder(br).Decode(&d), "decode yaml dump")
	}
	if err != nil {
		return nil, err
	}
	if err := CheckVersion(d.Version); err != nil {
		return nil, err
	}
	return &d, nil
}

func firstNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsAny(b, " \t\r\n") {
			return b[0], nil
		}
		if _, err := br.ReadByte(); err != nil {
			return 0, err
		}
	}
}

// CheckVersion returns an error unless version is a semver with the same
// major version as FormatVersion.
func CheckVersion(version string) error {
	if version == "" {
		return errors.New("dump has no version")
	}
	v, err := semver.StrictNewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "dump version '%s' is not valid", version)
	}
	if v.Major() != currentVersion.Major() {
		return errors.Errorf("dump version %s is not supported, expected %d.x.x", version, currentVersion.Major())
	}
	return nil
}
