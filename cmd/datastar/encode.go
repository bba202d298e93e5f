package main

import (
	stderrors "errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/datastar/internal/errors"
	"github.com/vango-dev/datastar/pkg/testsuite"
)

func encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [file]",
		Short: "Print the SSE bytes for a test-suite document",
		Long: `Read a test-suite JSON document from a file, or stdin when no file
is given, and print the exact server-sent event stream a server
replays for it.

Examples:
  datastar encode case.json
  echo '{"events":[{"type":"patchSignals","signals":{"a":1}}]}' | datastar encode`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.New("DS203").Wrap(err)
				}
				defer f.Close()
				in = f
			}
			return encode(cmd.OutOrStdout(), in)
		},
	}
}

// encode renders the test-suite document read from in to out.
func encode(out io.Writer, in io.Reader) error {
	tc, err := testsuite.Decode(in)
	if err != nil {
		if stderrors.Is(err, testsuite.ErrUnknownType) {
			return errors.New("DS302").Wrap(err)
		}
		return errors.New("DS301").Wrap(err)
	}

	data, err := testsuite.Render(tc)
	if err != nil {
		return errors.FromError(err, "DS301")
	}
	_, err = out.Write(data)
	return err
}
