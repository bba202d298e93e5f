package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// StreamConfig holds configuration for SSE streams and WebSocket
// connections.
type StreamConfig struct {
	// HeartbeatInterval is the time between ": ping" comments on an SSE
	// stream. Zero disables heartbeats.
	// Default: 0 (disabled).
	HeartbeatInterval time.Duration

	// WriteTimeout is the maximum time to wait when writing a WebSocket
	// message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// WebSocket buffer sizes

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// EnableCompression enables WebSocket per-message compression.
	// Default: false.
	EnableCompression bool

	// CheckOrigin is called to validate the WebSocket request origin.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// Observer receives stream lifecycle and event callbacks.
	// Default: nil (no observer).
	Observer Observer

	// Logger receives debug records for sent events and errors.
	// Default: slog.Default() with component=server.
	Logger *slog.Logger
}

// DefaultStreamConfig returns a StreamConfig with sensible defaults.
func DefaultStreamConfig() *StreamConfig {
	return &StreamConfig{
		WriteTimeout:    10 * time.Second,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     SameOriginCheck,
		Logger:          slog.Default().With("component", "server"),
	}
}

// Clone returns a copy of the StreamConfig.
func (c *StreamConfig) Clone() *StreamConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// Option configures a stream.
type Option func(*StreamConfig)

// WithConfig replaces the whole configuration. Options after it still
// apply.
func WithConfig(cfg *StreamConfig) Option {
	return func(c *StreamConfig) {
		if cfg != nil {
			*c = *cfg
		}
	}
}

// WithHeartbeat enables ": ping" comments on an SSE stream.
func WithHeartbeat(interval time.Duration) Option {
	return func(c *StreamConfig) {
		c.HeartbeatInterval = interval
	}
}

// WithWriteTimeout sets the WebSocket write deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *StreamConfig) {
		c.WriteTimeout = d
	}
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(c *StreamConfig) {
		c.Observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *StreamConfig) {
		c.Logger = logger
	}
}

// WithCheckOrigin sets the WebSocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(c *StreamConfig) {
		c.CheckOrigin = fn
	}
}

func buildConfig(opts []Option) *StreamConfig {
	cfg := DefaultStreamConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default().With("component", "server")
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	if cfg.CheckOrigin == nil {
		cfg.CheckOrigin = SameOriginCheck
	}
	return cfg
}

// SameOriginCheck validates that the WebSocket request origin matches the
// host. Requests without an Origin header are allowed.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}

	// Host includes the port if present.
	return originURL.Host == host
}
