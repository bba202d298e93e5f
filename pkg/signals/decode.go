package signals

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// DecodeOptions tunes Decode.
type DecodeOptions struct {
	// DisallowUnknownFields rejects objects with keys the target struct
	// does not declare, as a shape mismatch.
	DisallowUnknownFields bool
}

// Decode parses the source as exactly one JSON document into v, which
// must be a non-nil pointer.
//
// Malformed JSON, empty input and trailing data are KindInvalidJSON
// errors. Well-formed JSON that does not fit v is KindShapeMismatch.
// Passing a v that cannot be decoded into returns the json package's
// error unchanged, since that is a programming error rather than a bad
// request.
func Decode(src Source, v any) error {
	return DecodeWithOptions(src, v, DecodeOptions{})
}

// DecodeWithOptions is Decode with explicit options.
func DecodeWithOptions(src Source, v any, opts DecodeOptions) error {
	dec := json.NewDecoder(bytes.NewReader(src.Raw()))
	if opts.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return classify(src, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after JSON value")
		}
		return newError(KindInvalidJSON, invalidJSONMessage(src), err)
	}
	return nil
}

func classify(src Source, err error) error {
	var invalid *json.InvalidUnmarshalError
	if errors.As(err, &invalid) {
		return err
	}

	var syntax *json.SyntaxError
	switch {
	case errors.As(err, &syntax),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return newError(KindInvalidJSON, invalidJSONMessage(src), err)
	default:
		// Type errors, unknown fields and custom UnmarshalJSON failures.
		return newError(KindShapeMismatch, shapeMessage(src), err)
	}
}

func invalidJSONMessage(src Source) string {
	if src.IsQuery() {
		return "Failed to parse JSON value from query"
	}
	return "Failed to parse JSON value from body"
}

func shapeMessage(src Source) string {
	if src.IsQuery() {
		return "Signals in query do not match the expected shape"
	}
	return "Signals in body do not match the expected shape"
}
