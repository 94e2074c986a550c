// cstackview reads a frame dump written by cstackdump and prints it as
// text, json, or yaml.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Yehuda-blip/contextual-stack/cstackcon"
	"github.com/Yehuda-blip/contextual-stack/cstackdump"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	Format      string
	StreamNames bool
	Prefix      string
}

var validFormats = []string{"text", "json", "yaml"}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "cstackview [dump-file]",
		Short: "Print a cstack frame dump",
		Long:  "Reads a JSON or YAML frame dump from a file, or from stdin when no file is given, and prints it.",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "open dump")
				}
				defer f.Close()
				in = f
			}
			return view(in, cmd.OutOrStdout(), opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.Flags().BoolVar(&opts.StreamNames, "stream-names", false, "include the written stream name in text output")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "prefix for every text line")
	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range validFormats {
		if f == format {
			return true
		}
	}
	return false
}

func view(in io.Reader, out io.Writer, opts *rootOptions) error {
	d, err := cstackdump.Decode(in)
	if err != nil {
		return err
	}
	switch opts.Format {
	case "json":
		return d.EncodeJSON(out)
	case "yaml":
		return d.EncodeYAML(out)
	}
	var writeErr error
	cstackcon.New(
		cstackcon.WithWriter(out),
		cstackcon.WithPrefix(opts.Prefix),
		cstackcon.WithStreamNames(opts.StreamNames),
		cstackcon.WithErrorReporter(func(err error) {
			if writeErr == nil {
				writeErr = err
			}
		}),
	).PrintDump(d)
	return errors.Wrap(writeErr, "write output")
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
