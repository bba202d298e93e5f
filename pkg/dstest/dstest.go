package dstest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/vango-dev/datastar/pkg/protocol"
)

// RequestBuilder allows fluent construction of Datastar requests.
type RequestBuilder struct {
	method   string
	target   string
	signals  []byte
	datastar bool
	header   http.Header
}

// NewRequest creates a builder for a request to target.
//
// Example:
//
//	req := dstest.NewRequest(http.MethodPost, "/counter").
//	    WithSignals(map[string]int{"count": 1}).
//	    Build()
func NewRequest(method, target string) *RequestBuilder {
	return &RequestBuilder{
		method:   method,
		target:   target,
		datastar: true,
		header:   make(http.Header),
	}
}

// Get is a shorthand for NewRequest(http.MethodGet, target).
func Get(target string) *RequestBuilder {
	return NewRequest(http.MethodGet, target)
}

// Post is a shorthand for NewRequest(http.MethodPost, target).
func Post(target string) *RequestBuilder {
	return NewRequest(http.MethodPost, target)
}

// WithSignals serializes v as the signals document. GET requests carry it
// in the datastar query parameter, every other method as the body.
// It panics if v cannot be marshaled.
func (b *RequestBuilder) WithSignals(v any) *RequestBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		panic("dstest: marshal signals: " + err.Error())
	}
	b.signals = data
	return b
}

// WithRawSignals sets the signals document verbatim.
func (b *RequestBuilder) WithRawSignals(raw string) *RequestBuilder {
	b.signals = []byte(raw)
	return b
}

// WithoutDatastarHeader drops the datastar-request header, so the request
// looks like a plain browser request.
func (b *RequestBuilder) WithoutDatastarHeader() *RequestBuilder {
	b.datastar = false
	return b
}

// WithHeader sets an extra request header.
func (b *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	b.header.Set(key, value)
	return b
}

// Build returns the request.
func (b *RequestBuilder) Build() *http.Request {
	target := b.target
	var body io.Reader
	if b.signals != nil {
		if b.method == http.MethodGet {
			sep := "?"
			if strings.Contains(target, "?") {
				sep = "&"
			}
			target += sep + url.Values{protocol.QueryParam: {string(b.signals)}}.Encode()
		} else {
			body = bytes.NewReader(b.signals)
		}
	}

	req := httptest.NewRequest(b.method, target, body)
	for k, v := range b.header {
		req.Header[k] = v
	}
	if b.datastar {
		req.Header.Set(protocol.RequestHeader, "true")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// Stream is a recorded SSE response.
type Stream struct {
	Code   int
	Header http.Header
	Body   []byte
	Events []protocol.Event
}

// Serve runs h on req and records the response. The handler must return
// before Serve does, so endless streams need a request context that ends.
func Serve(t testing.TB, h http.Handler, req *http.Request) *Stream {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	s := &Stream{
		Code:   rec.Code,
		Header: rec.Header(),
		Body:   rec.Body.Bytes(),
	}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "text/event-stream") {
		events, err := protocol.DecodeEvents(s.Body)
		if err != nil {
			t.Fatalf("dstest: decode stream: %v\n%s", err, truncate(string(s.Body), 500))
		}
		s.Events = events
	}
	return s
}

// ExpectEvents asserts the number of events in s.
func ExpectEvents(t testing.TB, s *Stream, n int) {
	t.Helper()
	if len(s.Events) != n {
		t.Fatalf("expected %d events, got %d:\n%s", n, len(s.Events), truncate(string(s.Body), 500))
	}
}

// ExpectPatchElements asserts that event i is an element patch and
// returns it.
func ExpectPatchElements(t testing.TB, s *Stream, i int) protocol.PatchElements {
	t.Helper()
	ev := eventAt(t, s, i, protocol.EventTypePatchElements)
	p, err := protocol.ParsePatchElements(ev)
	if err != nil {
		t.Fatalf("event %d: %v", i, err)
	}
	return p
}

// ExpectPatchSignals asserts that event i is a signal patch and decodes
// its signals into v when v is not nil.
func ExpectPatchSignals(t testing.TB, s *Stream, i int, v any) protocol.PatchSignals {
	t.Helper()
	ev := eventAt(t, s, i, protocol.EventTypePatchSignals)
	p, err := protocol.ParsePatchSignals(ev)
	if err != nil {
		t.Fatalf("event %d: %v", i, err)
	}
	if v != nil {
		if err := json.Unmarshal([]byte(p.Signals), v); err != nil {
			t.Fatalf("event %d: signals %q: %v", i, p.Signals, err)
		}
	}
	return p
}

// ExpectContains asserts that the raw stream contains substr.
func ExpectContains(t testing.TB, s *Stream, substr string) {
	t.Helper()
	if !bytes.Contains(s.Body, []byte(substr)) {
		t.Errorf("expected stream to contain %q, got:\n%s", substr, truncate(string(s.Body), 500))
	}
}

func eventAt(t testing.TB, s *Stream, i int, typ protocol.EventType) protocol.Event {
	t.Helper()
	if i < 0 || i >= len(s.Events) {
		t.Fatalf("event %d out of range, stream has %d", i, len(s.Events))
	}
	ev := s.Events[i]
	if ev.Type != typ {
		t.Fatalf("event %d: expected %s, got %s", i, typ, ev.Type)
	}
	return ev
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
