package signals

import (
	"net/http"

	"github.com/vango-dev/datastar/pkg/protocol"
)

// Outcome is the result of optional extraction.
type Outcome uint8

const (
	// NotEngaged means the request did not carry the datastar-request
	// header, so nothing was parsed.
	NotEngaged Outcome = iota

	// Extracted means the signals were decoded into the target.
	Extracted

	// Rejected means the request was a Datastar request but its signals
	// could not be decoded. The accompanying error says why.
	Rejected
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case NotEngaged:
		return "not_engaged"
	case Extracted:
		return "extracted"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Extract decodes the signals of a request described by plain values into
// v. It is the decision function shared by every HTTP integration: the
// method selects the source, and the source is decoded as JSON.
//
// The header is not consulted; use ExtractOptional to make extraction
// conditional on the datastar-request header.
func Extract(method string, header http.Header, rawQuery string, body []byte, v any) error {
	src, err := ResolveSource(method, rawQuery, body)
	if err != nil {
		return err
	}
	return Decode(src, v)
}

// ExtractOptional is Extract gated on the datastar-request header. When
// the header is absent it returns NotEngaged without looking at the query
// or body. When present, a failure is Rejected and never downgraded to
// NotEngaged.
func ExtractOptional(method string, header http.Header, rawQuery string, body []byte, v any) (Outcome, error) {
	if !hasRequestHeader(header) {
		return NotEngaged, nil
	}
	if err := Extract(method, header, rawQuery, body, v); err != nil {
		return Rejected, err
	}
	return Extracted, nil
}

// hasRequestHeader reports presence only; any value, including an empty
// one, counts.
func hasRequestHeader(header http.Header) bool {
	if header == nil {
		return false
	}
	_, ok := header[http.CanonicalHeaderKey(protocol.RequestHeader)]
	return ok
}
