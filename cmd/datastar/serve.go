package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func serveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the test-suite endpoint and the example apps",
		Long: `Serve the Datastar SDK test-suite endpoint, the example apps,
metrics and a health check.

Routes:
  GET|POST /test                   replay a test-suite document over SSE
  GET      /examples/hello/        hello-world example
  GET      /examples/activity-feed/ activity-feed example
  GET      /examples/live-reload/  hello-world with live reload
  GET      /metrics                Prometheus metrics (if enabled)
  GET      /healthz                stream counters

Examples:
  datastar serve
  datastar serve --addr=:3000
  DATASTAR_ADDR=127.0.0.1:9000 datastar serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg, true)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.run(ctx, a.serveHandler())
		},
	}
}

// commandContext returns ctx, or a background context when cobra was
// executed without one.
func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
