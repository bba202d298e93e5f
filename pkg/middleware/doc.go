// Package middleware provides net/http middleware for Datastar servers.
//
// This package includes:
//   - OpenTelemetry distributed tracing middleware
//   - Prometheus metrics middleware that doubles as a server.Observer
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware starts a server span for every request. SSE
// and WebSocket streams opened by pkg/server add a span event for each
// Datastar event they send, so a trace shows the whole stream.
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// # Prometheus Metrics
//
// The Prometheus metrics cover requests, streams, events and rejected
// signals:
//   - datastar_http_requests_total: Requests by path and status
//   - datastar_active_streams: Current number of open streams
//   - datastar_events_sent_total: Events sent by type
//   - datastar_signal_rejections_total: Rejected signal payloads by kind
//
//	m := middleware.Prometheus()
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.Handler())
//
// Pass the same value to streams to count events:
//
//	sse, err := server.NewSSE(w, r, server.WithObserver(m))
//
// # Response Writers
//
// Both middlewares wrap the ResponseWriter to record the status code. The
// wrapper forwards Flush and Hijack, so streaming and WebSocket upgrades
// keep working.
package middleware
