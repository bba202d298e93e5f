package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/datastar/internal/errors"
)

func exampleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "example <" + strings.Join(exampleNames, "|") + ">",
		Short:     "Run a single example app",
		ValidArgs: exampleNames,
		Args:      cobra.ExactArgs(1),
		Long: `Run one example app at the root of the listen address.

  hello          "Hello, world!" streamed one character at a time
  activity-feed  status events appended to a feed with live counters
  live-reload    hello with pages reloaded when watched files change

Examples:
  datastar example hello
  datastar example live-reload --addr=:3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !isExample(name) {
				return errors.New("DS202").
					WithDetail(fmt.Sprintf("No example named %q", name)).
					WithSuggestion("Use one of: " + strings.Join(exampleNames, ", ")).
					WithExample("datastar example " + exampleHello)
			}

			a, err := newApp(opts.cfg, name == exampleLiveReload)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.run(ctx, a.exampleHandler(name))
		},
	}
}
