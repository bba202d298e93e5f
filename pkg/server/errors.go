package server

import (
	"errors"
	"fmt"
)

// Sentinel errors for stream conditions.
var (
	// ErrStreamClosed is returned when sending on a stream whose client
	// went away or that was closed.
	ErrStreamClosed = errors.New("server: stream closed")

	// ErrStreamingUnsupported is returned when the ResponseWriter cannot
	// flush.
	ErrStreamingUnsupported = errors.New("server: streaming unsupported")

	// ErrNoConnection is returned when attempting to send on a nil
	// connection.
	ErrNoConnection = errors.New("server: no connection")
)

// StreamError wraps an error with transport context for debugging.
type StreamError struct {
	Transport string // "sse" or "websocket"
	Op        string // Operation that failed
	Err       error  // Underlying error
}

// Error returns the error message with transport context.
func (e *StreamError) Error() string {
	return fmt.Sprintf("server: %s: %s: %v", e.Transport, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StreamError) Unwrap() error {
	return e.Err
}
