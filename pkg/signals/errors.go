package signals

import (
	"errors"
	"net/http"
)

// Kind classifies why signals could not be extracted. Every kind is a
// client error.
type Kind uint8

const (
	KindMissingParam  Kind = iota + 1 // GET request without the datastar query parameter
	KindInvalidQuery                  // Query string could not be parsed
	KindInvalidJSON                   // Payload is not a JSON document
	KindShapeMismatch                 // JSON does not fit the target type
	KindBodyRead                      // Request body could not be read
	KindBodyTooLarge                  // Request body exceeds the configured limit
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindMissingParam:
		return "missing_param"
	case KindInvalidQuery:
		return "invalid_query"
	case KindInvalidJSON:
		return "invalid_json"
	case KindShapeMismatch:
		return "shape_mismatch"
	case KindBodyRead:
		return "body_read"
	case KindBodyTooLarge:
		return "body_too_large"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrMissingParam  = errors.New("signals: missing datastar query parameter")
	ErrInvalidQuery  = errors.New("signals: invalid query string")
	ErrInvalidJSON   = errors.New("signals: invalid JSON")
	ErrShapeMismatch = errors.New("signals: JSON does not match target type")
	ErrBodyRead      = errors.New("signals: failed to read request body")
	ErrBodyTooLarge  = errors.New("signals: request body too large")
)

func (k Kind) sentinel() error {
	switch k {
	case KindMissingParam:
		return ErrMissingParam
	case KindInvalidQuery:
		return ErrInvalidQuery
	case KindInvalidJSON:
		return ErrInvalidJSON
	case KindShapeMismatch:
		return ErrShapeMismatch
	case KindBodyRead:
		return ErrBodyRead
	case KindBodyTooLarge:
		return ErrBodyTooLarge
	default:
		return nil
	}
}

// Error is returned when a request's signals are rejected.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Message is safe to return to the client.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Status returns the HTTP status code for the rejection. Every rejection
// is a bad request.
func (e *Error) Status() int {
	return http.StatusBadRequest
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
