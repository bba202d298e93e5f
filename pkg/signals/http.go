package signals

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// DefaultMaxBodyBytes caps request bodies read by Read. Default: 1 MiB.
const DefaultMaxBodyBytes int64 = 1 << 20

// Config configures a Reader.
type Config struct {
	// MaxBodyBytes caps the request body. Zero or negative means
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// DisallowUnknownFields rejects signal objects with undeclared keys.
	DisallowUnknownFields bool

	// Logger receives a debug record for every rejected request.
	Logger *slog.Logger

	// OnReject is called for every request whose signals were rejected.
	OnReject func(r *http.Request, err *Error)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxBodyBytes: DefaultMaxBodyBytes,
		Logger:       slog.Default().With("component", "signals"),
	}
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// Reader extracts signals from *http.Request values.
type Reader struct {
	maxBody  int64
	opts     DecodeOptions
	logger   *slog.Logger
	onReject func(r *http.Request, err *Error)
}

// NewReader creates a Reader. A nil config uses DefaultConfig.
func NewReader(cfg *Config) *Reader {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	r := &Reader{
		maxBody:  cfg.MaxBodyBytes,
		opts:     DecodeOptions{DisallowUnknownFields: cfg.DisallowUnknownFields},
		logger:   cfg.Logger,
		onReject: cfg.OnReject,
	}
	if r.maxBody <= 0 {
		r.maxBody = DefaultMaxBodyBytes
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "signals")
	}
	return r
}

var defaultReader = NewReader(nil)

// Read decodes the signals of r into v using the default Reader.
func Read(r *http.Request, v any) error {
	return defaultReader.Read(r, v)
}

// ReadOptional decodes the signals of r into v when r is a Datastar
// request, using the default Reader. It reports whether r was a Datastar
// request.
func ReadOptional(r *http.Request, v any) (bool, error) {
	return defaultReader.ReadOptional(r, v)
}

// IsDatastarRequest reports whether r carries the datastar-request header.
func IsDatastarRequest(r *http.Request) bool {
	return hasRequestHeader(r.Header)
}

// Read decodes the signals of r into v. The body is only read for
// non-GET requests.
func (rd *Reader) Read(r *http.Request, v any) error {
	src, err := rd.source(r)
	if err == nil {
		err = DecodeWithOptions(src, v, rd.opts)
	}
	if err != nil {
		rd.reject(r, err)
	}
	return err
}

// ReadOptional is Read gated on the datastar-request header. Without the
// header it returns false and leaves the body untouched.
func (rd *Reader) ReadOptional(r *http.Request, v any) (bool, error) {
	if !IsDatastarRequest(r) {
		return false, nil
	}
	return true, rd.Read(r, v)
}

func (rd *Reader) source(r *http.Request) (Source, error) {
	if r.Method == http.MethodGet {
		return ResolveSource(r.Method, r.URL.RawQuery, nil)
	}
	body, err := rd.readBody(r)
	if err != nil {
		return Source{}, err
	}
	return ResolveSource(r.Method, "", body)
}

func (rd *Reader) readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, rd.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, newError(KindBodyTooLarge, "Request body too large", err)
		}
		return nil, newError(KindBodyRead, "Failed to read request body", err)
	}
	return body, nil
}

func (rd *Reader) reject(r *http.Request, err error) {
	attrs := []any{"method", r.Method, "path", r.URL.Path, "error", err}
	var se *Error
	if errors.As(err, &se) {
		attrs = append(attrs, "kind", se.Kind.String())
		if rd.onReject != nil {
			rd.onReject(r, se)
		}
	}
	rd.logger.Debug("signals rejected", attrs...)
}

// WriteError writes the HTTP response for an error returned by Read or
// ReadOptional. Signal rejections become 400 with the rejection message
// as a plain-text body; any other error becomes 500.
func WriteError(w http.ResponseWriter, err error) {
	var se *Error
	if errors.As(err, &se) {
		http.Error(w, se.Message, se.Status())
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
