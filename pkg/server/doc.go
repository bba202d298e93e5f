// Package server provides the transports that deliver Datastar events to a
// browser.
//
// The server package turns the event values of pkg/protocol into bytes on
// a live connection. It owns ordering, flushing and connection lifecycle;
// it never changes what an event encodes to.
//
// # Architecture
//
// The transports share one interface:
//
//   - Generator: Send(protocol.Eventer) plus the stream's Context
//   - SSE: a text/event-stream response, one flush per event
//   - WebSocket: one text message per event, same bytes as SSE
//   - WriteHTML, WriteSignals, WriteScript: single non-streaming responses
//     carrying patch options in datastar-* headers
//
// # Ordering
//
// Send holds the stream's lock while encoding and writing, so events from
// concurrent goroutines never interleave and arrive in the order Send was
// entered. Once the client disconnects or Close is called, Send returns
// ErrStreamClosed.
//
// # Usage
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    sse, err := server.NewSSE(w, r)
//	    if err != nil {
//	        http.Error(w, err.Error(), http.StatusInternalServerError)
//	        return
//	    }
//	    sse.PatchElements(`<div id="status">Ready</div>`)
//	    sse.MarshalAndPatchSignals(map[string]any{"loading": false})
//	}
//
// # Observability
//
// An Observer receives StreamOpened, StreamClosed and EventSent callbacks.
// StatsCollector keeps in-process counters; pkg/middleware exports the
// same callbacks to Prometheus. Every sent event is also recorded as a
// "datastar.event" span event on the request's OpenTelemetry span.
//
// # Framing
//
// Message and FormatMessage frame arbitrary server-sent events. For
// Datastar events they produce the same bytes as protocol.Event.Encode;
// SSE uses them for heartbeat comments and SendMessage.
package server
