package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/datastar/internal/errors"
)

const (
	// DefaultAddr is the default listen address for `datastar serve`.
	DefaultAddr = ":8080"

	// DefaultMaxBodyBytes caps request bodies read for signals.
	DefaultMaxBodyBytes int64 = 1 << 20

	// DefaultMetricsPath is where Prometheus metrics are exposed.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace prefixes every metric name.
	DefaultNamespace = "datastar"

	// EnvAddr overrides Addr when set.
	EnvAddr = "DATASTAR_ADDR"
)

// FileNames lists the configuration file names searched for, in order.
var FileNames = []string{"datastar.json", "datastar.yaml", "datastar.yml", "datastar.toml"}

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText writes the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the configuration of the datastar command.
type Config struct {
	// Addr is the listen address.
	Addr string `json:"addr" yaml:"addr" toml:"addr"`

	Log      LogConfig      `json:"log" yaml:"log" toml:"log"`
	SSE      SSEConfig      `json:"sse" yaml:"sse" toml:"sse"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics" toml:"metrics"`
	Tracing  TracingConfig  `json:"tracing" yaml:"tracing" toml:"tracing"`
	Examples ExamplesConfig `json:"examples" yaml:"examples" toml:"examples"`

	path string
}

// LogConfig configures the root logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" toml:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format" toml:"format"`
}

// SSEConfig configures streams and signal extraction.
type SSEConfig struct {
	// Heartbeat is the interval between ": ping" comments. Zero disables.
	Heartbeat Duration `json:"heartbeat" yaml:"heartbeat" toml:"heartbeat"`

	// MaxBodyBytes caps request bodies read for signals.
	MaxBodyBytes int64 `json:"maxBodyBytes" yaml:"maxBodyBytes" toml:"maxBodyBytes"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	Path      string `json:"path" yaml:"path" toml:"path"`
	Namespace string `json:"namespace" yaml:"namespace" toml:"namespace"`
}

// TracingConfig configures OpenTelemetry request spans.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	TracerName string `json:"tracerName" yaml:"tracerName" toml:"tracerName"`
}

// ExamplesConfig configures the bundled example apps.
type ExamplesConfig struct {
	// FeedInterval is the delay between generated activity-feed events.
	FeedInterval Duration `json:"feedInterval" yaml:"feedInterval" toml:"feedInterval"`

	// FeedEvents is the default number of events per generate request.
	FeedEvents int `json:"feedEvents" yaml:"feedEvents" toml:"feedEvents"`

	// HelloDelay is the default delay between characters of the hello
	// example.
	HelloDelay Duration `json:"helloDelay" yaml:"helloDelay" toml:"helloDelay"`

	// Watch lists the paths the live-reload example watches.
	Watch []string `json:"watch" yaml:"watch" toml:"watch"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Addr: DefaultAddr,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		SSE: SSEConfig{
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      DefaultMetricsPath,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			Enabled:    true,
			TracerName: "datastar",
		},
		Examples: ExamplesConfig{
			FeedInterval: Duration(100 * time.Millisecond),
			FeedEvents:   10,
			HelloDelay:   Duration(100 * time.Millisecond),
			Watch:        []string{"."},
		},
	}
}

// Load reads the configuration file at path. The format follows the file
// extension. Values missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("DS101").
				WithDetail("No configuration file at " + path).
				WithSuggestion("Check the --config flag or create " + FileNames[0])
		}
		return nil, errors.New("DS102").Wrap(err)
	}

	cfg := Default()
	if err := decode(path, data, cfg); err != nil {
		return nil, err
	}
	cfg.path = path
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			de := errors.New("DS102").Wrap(err)
			var syn *json.SyntaxError
			if stderrors.As(err, &syn) {
				line, col := position(data, syn.Offset)
				de.WithLocation(path, line, col)
			}
			return de.WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
		}

	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
			de := errors.New("DS102").Wrap(err)
			var line int
			if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr == nil {
				de.WithLocation(path, line, 0)
			}
			return de.WithSuggestion("Check the indentation of " + filepath.Base(path))
		}

	case ".toml":
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			de := errors.New("DS102").Wrap(err)
			var perr toml.ParseError
			if stderrors.As(err, &perr) {
				de.WithLocation(path, perr.Position.Line, 0)
			}
			return de.WithSuggestion("Quote string values and durations")
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return errors.New("DS103").
				WithDetail(fmt.Sprintf("Unknown key %q in %s", undecoded[0].String(), filepath.Base(path)))
		}

	default:
		return errors.New("DS104").
			WithDetail("Cannot load " + path).
			WithExample("datastar serve --config " + FileNames[1])
	}
	return nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line = bytes.Count(prefix, []byte("\n")) + 1
	col = int(offset) - (bytes.LastIndexByte(prefix, '\n') + 1)
	return line, col
}

// Find walks up from startDir and returns the first configuration file
// found. It returns a DS101 error when there is none.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("DS101").
				WithDetail("No configuration file found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// Discover loads the configuration file found from startDir upward, or
// the defaults when there is none.
func Discover(startDir string) (*Config, error) {
	path, err := Find(startDir)
	if err != nil {
		var de *errors.DatastarError
		if stderrors.As(err, &de) && de.Code == "DS101" {
			return Default(), nil
		}
		return nil, err
	}
	return Load(path)
}

// ApplyEnv applies environment overrides read through lookup, which is
// os.LookupEnv outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Addr = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(detail string) error {
		if c.path != "" {
			detail += " (" + c.path + ")"
		}
		return errors.New("DS103").WithDetail(detail)
	}

	if c.Addr == "" {
		return invalid("addr must not be empty")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return invalid(err.Error())
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid(fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.SSE.Heartbeat < 0 {
		return invalid("sse.heartbeat must not be negative")
	}
	if c.SSE.MaxBodyBytes <= 0 {
		return invalid("sse.maxBodyBytes must be positive")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid(fmt.Sprintf("metrics.path must start with /, got %q", c.Metrics.Path))
	}
	if c.Examples.FeedEvents < 0 {
		return invalid("examples.feedEvents must not be negative")
	}
	if c.Examples.FeedInterval < 0 || c.Examples.HelloDelay < 0 {
		return invalid("example intervals must not be negative")
	}
	return nil
}

// SlogLevel returns the slog level named by Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level must be debug, info, warn or error, got %q", l.Level)
	}
	return level, nil
}

// Path returns the path the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}
