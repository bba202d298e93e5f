package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/datastar/pkg/protocol"
	"github.com/vango-dev/datastar/pkg/server"
)

func TestPrometheusHandlerRecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg))

	ok := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	bad := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	}))

	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/a", nil))
	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/a", nil))
	bad.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/b", nil))

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/a", "200")); got != 2 {
		t.Errorf("requests{/a,200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/b", "400")); got != 1 {
		t.Errorf("requests{/b,400} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.requestDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestPrometheusPathLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg), WithPathLabel(func(*http.Request) string { return "/items/{id}" }))

	h := m.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/2", nil))

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/items/{id}", "200")); got != 2 {
		t.Errorf("requests{/items/{id},200} = %v, want 2", got)
	}
}

func TestPrometheusObservesStreams(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg), WithNamespace("test"))

	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sse, err := server.NewSSE(w, r, server.WithObserver(m))
		if err != nil {
			t.Errorf("NewSSE() error = %v", err)
			return
		}
		defer sse.Close()

		sse.PatchElements(`<div id="a"></div>`)
		sse.PatchSignals(`{"a":1}`)
		sse.PatchSignals(`{"a":2}`)

		if got := testutil.ToFloat64(m.activeStreams); got != 1 {
			t.Errorf("active_streams during stream = %v, want 1", got)
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))

	if got := testutil.ToFloat64(m.activeStreams); got != 0 {
		t.Errorf("active_streams after close = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.eventsSent.WithLabelValues(string(protocol.EventTypePatchSignals))); got != 2 {
		t.Errorf("events_sent{patch-signals} = %v, want 2", got)
	}
	patch := protocol.NewPatchElements(`<div id="a"></div>`).DatastarEvent()
	if got := testutil.ToFloat64(m.eventBytes.WithLabelValues(string(protocol.EventTypePatchElements))); got != float64(len(patch.Encode())) {
		t.Errorf("event_bytes{patch-elements} = %v, want %d", got, len(patch.Encode()))
	}

	expected := `
# HELP test_active_streams Number of open SSE and WebSocket streams
# TYPE test_active_streams gauge
test_active_streams 0
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_active_streams"); err != nil {
		t.Error(err)
	}
}

func TestPrometheusRecordRejection(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg))

	m.RecordRejection("invalid_json")
	m.RecordRejection("invalid_json")
	m.RecordRejection("missing_param")

	if got := testutil.ToFloat64(m.signalRejections.WithLabelValues("invalid_json")); got != 2 {
		t.Errorf("rejections{invalid_json} = %v, want 2", got)
	}
}

func TestStatusWriterKeepsStreamingInterfaces(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := newStatusWriter(rec)

	var w http.ResponseWriter = sw
	if _, ok := w.(http.Flusher); !ok {
		t.Fatal("statusWriter should implement http.Flusher")
	}
	if _, ok := w.(http.Hijacker); !ok {
		t.Fatal("statusWriter should implement http.Hijacker")
	}

	sw.Flush()
	if !rec.Flushed {
		t.Error("Flush should reach the wrapped writer")
	}
	if sw.Status() != http.StatusOK {
		t.Errorf("Status() = %d, want 200", sw.Status())
	}
	if _, _, err := sw.Hijack(); err != http.ErrNotSupported {
		t.Errorf("Hijack() on a recorder = %v, want ErrNotSupported", err)
	}
	if sw.Unwrap() != rec {
		t.Error("Unwrap should return the wrapped writer")
	}
}
