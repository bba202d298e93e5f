package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/datastar/internal/config"
	"github.com/vango-dev/datastar/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	addr       string

	cfg *config.Config
}

func main() {
	if os.Getenv("NO_COLOR") != "" {
		errors.SetColors(false)
	}
	opts := &options{}
	if err := newRootCmd(opts).Execute(); err != nil {
		errors.PrintError(os.Stderr, err, opts.errorOutput())
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "datastar",
		Short: "Datastar server-sent event tooling",
		Long: `datastar serves and inspects Datastar hypermedia streams.

  • serve the SDK test-suite endpoint and the example apps
  • encode a test-suite document to the exact SSE bytes
  • expose Prometheus metrics and OpenTelemetry spans`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Configuration file (default: search datastar.{json,yaml,yml,toml} upward)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")
	flags.StringVarP(&opts.addr, "addr", "a", "", "Listen address (overrides config and "+config.EnvAddr+")")

	rootCmd.AddCommand(
		serveCmd(opts),
		encodeCmd(),
		exampleCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration, applies overrides in the order file,
// environment, flags, and installs the root logger.
func (o *options) load(logOut io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err == nil {
			cfg, err = config.Discover(wd)
		}
	}
	if err != nil {
		return err
	}

	cfg.ApplyEnv(os.LookupEnv)
	if o.addr != "" {
		cfg.Addr = o.addr
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(logOut, cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if cfg.Path() != "" {
		logger.Debug("configuration loaded", "path", cfg.Path())
	}
	o.cfg = cfg
	return nil
}

// errorOutput matches error output to the log format, so JSON logs are
// not followed by a text error.
func (o *options) errorOutput() errors.Output {
	format := o.logFormat
	if format == "" && o.cfg != nil {
		format = o.cfg.Log.Format
	}
	if format == "json" {
		return errors.OutputJSON
	}
	return errors.OutputText
}

// newLogger builds the root logger described by cfg.
func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	case "text", "":
		handler = slog.NewTextHandler(w, handlerOpts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return slog.New(handler), nil
}
