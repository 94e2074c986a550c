package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yehuda-blip/contextual-stack"
	"github.com/Yehuda-blip/contextual-stack/cstackdump"
)

func dumpJSON(t *testing.T) string {
	requestID := cstack.NewStream[string]("request")
	logLine := cstack.NewStream[string]("log")
	rec := cstack.New()
	cstack.With(rec, requestID, "42", func() {
		cstack.Record(rec, logLine, "start")
	})
	cstack.Record(rec, logLine, "done")
	var buf bytes.Buffer
	require.NoError(t, cstackdump.Build(rec).EncodeJSON(&buf))
	return buf.String()
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTextFromStdin(t *testing.T) {
	out, err := run(t, dumpJSON(t))
	require.NoError(t, err)
	assert.Equal(t, "{request:42} -> start\n{} -> done\n", out)
}

func TestTextOptions(t *testing.T) {
	out, err := run(t, dumpJSON(t), "--stream-names", "--prefix", "| ")
	require.NoError(t, err)
	assert.Equal(t, "| {request:42} -> log=start\n| {} -> log=done\n", out)
}

func TestYAMLFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(path, []byte(dumpJSON(t)), 0o600))
	out, err := run(t, "", "--format", "yaml", path)
	require.NoError(t, err)
	assert.Contains(t, out, "stream: request")

	d, err := cstackdump.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, d.Frames, 2)
}

func TestJSON(t *testing.T) {
	out, err := run(t, dumpJSON(t), "--format", "json")
	require.NoError(t, err)
	d, err := cstackdump.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "done", d.Frames[1].Value)
}

func TestErrors(t *testing.T) {
	_, err := run(t, dumpJSON(t), "--format", "xml")
	assert.Error(t, err)
	_, err = run(t, `{"version":"3.0.0","frames":[]}`)
	assert.Error(t, err)
	_, err = run(t, "", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
