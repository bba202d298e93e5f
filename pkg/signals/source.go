package signals

import (
	"net/http"
	"net/url"

	"github.com/vango-dev/datastar/pkg/protocol"
)

// Source is the raw JSON text a request carries its signals in. GET
// requests carry it in the datastar query parameter, every other method
// in the request body.
type Source struct {
	raw       []byte
	fromQuery bool
}

// FromQuery returns a Source holding the decoded value of the datastar
// query parameter.
func FromQuery(raw string) Source {
	return Source{raw: []byte(raw), fromQuery: true}
}

// FromBody returns a Source holding a request body.
func FromBody(raw []byte) Source {
	return Source{raw: raw}
}

// IsQuery reports whether the source came from the query string.
func (s Source) IsQuery() bool {
	return s.fromQuery
}

// Raw returns the JSON text.
func (s Source) Raw() []byte {
	return s.raw
}

// String returns "query" or "body".
func (s Source) String() string {
	if s.fromQuery {
		return "query"
	}
	return "body"
}

// ResolveSource picks where the signals of a request live.
//
// For GET the raw query string is parsed and the first value of the
// datastar parameter is returned. Malformed pairs elsewhere in the query
// are ignored. Without the parameter the error is KindInvalidQuery when
// the query could not be parsed and KindMissingParam otherwise. For any
// other method the body is used as-is, including an empty body.
func ResolveSource(method, rawQuery string, body []byte) (Source, error) {
	if method != http.MethodGet {
		return FromBody(body), nil
	}

	// ParseQuery keeps every well-formed pair even when it reports an error.
	values, err := url.ParseQuery(rawQuery)
	if vals := values[protocol.QueryParam]; len(vals) > 0 {
		return FromQuery(vals[0]), nil
	}
	if err != nil {
		return Source{}, newError(KindInvalidQuery, "Failed to parse query string", err)
	}
	return Source{}, newError(KindMissingParam, "Missing datastar query parameter", nil)
}
