package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/datastar/pkg/server"
)

func TestOpenTelemetryStoresSpan(t *testing.T) {
	called := false
	mw := OpenTelemetry(
		WithTracerName("test"),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		span := SpanFromRequest(r)
		if span == nil {
			t.Fatal("expected SpanFromRequest to return a span during execution")
		}
		if !trace.SpanContextFromContext(r.Context()).Equal(span.SpanContext()) {
			t.Error("span should also be the context's current span")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("datastar-request", "true")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Fatal("expected next to be called")
	}
}

func TestOpenTelemetryFilterSkipsTracing(t *testing.T) {
	called := false
	h := OpenTelemetry(
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if SpanFromRequest(r) != nil {
			t.Fatal("expected no span when filter skips tracing")
		}
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if !called {
		t.Fatal("expected next to be called")
	}
}

func TestOpenTelemetryKeepsStreaming(t *testing.T) {
	h := OpenTelemetry()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sse, err := server.NewSSE(w, r)
		if err != nil {
			t.Fatalf("NewSSE() behind middleware error = %v", err)
		}
		defer sse.Close()
		if err := sse.PatchSignals(`{"ok":true}`); err != nil {
			t.Errorf("Send() error = %v", err)
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))

	if got, want := rec.Body.String(), "event: datastar-patch-signals\ndata: signals {\"ok\":true}\n\n"; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestSpanFromRequestNoSpan(t *testing.T) {
	if SpanFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)) != nil {
		t.Fatal("expected nil span when the request was not traced")
	}
}

func TestFormatSpanName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	if got, want := formatSpanName(req), "datastar POST /test"; got != want {
		t.Errorf("formatSpanName() = %q, want %q", got, want)
	}
}
