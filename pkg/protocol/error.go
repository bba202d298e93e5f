package protocol

import (
	"errors"
	"fmt"
)

// Decoding errors.
var (
	ErrWrongEventType    = errors.New("protocol: wrong event type")
	ErrUnknownDataLine   = errors.New("protocol: unknown data line")
	ErrInvalidMode       = errors.New("protocol: invalid element patch mode")
	ErrInvalidBool       = errors.New("protocol: invalid boolean value")
	ErrMissingEventType  = errors.New("protocol: event has no type")
	ErrLineTooLong       = errors.New("protocol: line exceeds limit")
	ErrTooManyDataLines  = errors.New("protocol: data line count exceeds limit")
	ErrUnterminatedEvent = errors.New("protocol: stream ended inside an event")
)

// SyntaxError records the stream line at which decoding failed.
type SyntaxError struct {
	Line int   // 1-based line number in the stream
	Err  error // Underlying error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}
