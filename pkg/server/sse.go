package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/datastar/pkg/protocol"
)

// SSE streams Datastar events over a text/event-stream response.
type SSE struct {
	helpers

	w       http.ResponseWriter
	flusher http.Flusher
	ctx     context.Context
	cancel  context.CancelFunc
	span    trace.Span

	mu     sync.Mutex // Protects writes and closed
	closed bool
	buf    []byte
	sent   int
	opened time.Time

	stopAfter func() bool
	closeOnce sync.Once

	observer Observer
	logger   *slog.Logger
}

// NewSSE prepares w for streaming and flushes the response headers.
//
// The stream closes when the request context is done or Close is called;
// Send then returns ErrStreamClosed.
func NewSSE(w http.ResponseWriter, r *http.Request, opts ...Option) (*SSE, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	cfg := buildConfig(opts)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	if r.ProtoMajor == 1 {
		h.Set("Connection", "keep-alive")
	}
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx, cancel := context.WithCancel(r.Context())
	s := &SSE{
		w:        w,
		flusher:  flusher,
		ctx:      ctx,
		cancel:   cancel,
		span:     trace.SpanFromContext(r.Context()),
		opened:   time.Now(),
		observer: cfg.Observer,
		logger:   cfg.Logger.With("transport", "sse", "path", r.URL.Path),
	}
	s.helpers = helpers{send: s.Send}
	s.stopAfter = context.AfterFunc(ctx, s.markClosed)

	s.observer.StreamOpened()
	s.logger.Debug("stream opened")

	if cfg.HeartbeatInterval > 0 {
		go s.heartbeat(cfg.HeartbeatInterval)
	}
	return s, nil
}

// Context implements Generator.
func (s *SSE) Context() context.Context {
	return s.ctx
}

// Send implements Generator. The event is encoded, written and flushed
// before Send returns.
func (s *SSE) Send(e protocol.Eventer) error {
	ev := e.DatastarEvent()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.ctx.Err() != nil {
		return ErrStreamClosed
	}

	s.buf = ev.AppendTo(s.buf[:0])
	if _, err := s.w.Write(s.buf); err != nil {
		s.logger.Debug("write failed", "error", err)
		go s.Close()
		return &StreamError{Transport: "sse", Op: "write", Err: err}
	}
	s.flusher.Flush()
	s.sent++

	n := len(s.buf)
	s.observer.EventSent(ev.Type, n)
	s.span.AddEvent("datastar.event", trace.WithAttributes(
		attribute.String("datastar.event.type", string(ev.Type)),
		attribute.String("datastar.event.id", ev.ID),
		attribute.Int("datastar.event.bytes", n),
	))
	s.logger.Debug("event sent", "type", ev.Type, "bytes", n)
	return nil
}

// SendMessage writes a raw Message, for events outside the Datastar
// vocabulary.
func (s *SSE) SendMessage(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.ctx.Err() != nil {
		return ErrStreamClosed
	}
	if _, err := s.w.Write(FormatMessage(msg)); err != nil {
		go s.Close()
		return &StreamError{Transport: "sse", Op: "write", Err: err}
	}
	s.flusher.Flush()
	return nil
}

// Sent returns the number of events written so far.
func (s *SSE) Sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

// Close ends the stream. It is safe to call more than once. The
// underlying response is finished when the handler returns.
func (s *SSE) Close() error {
	s.stopAfter()
	s.markClosed()
	return nil
}

func (s *SSE) markClosed() {
	s.closeOnce.Do(func() {
		s.cancel()

		s.mu.Lock()
		s.closed = true
		sent := s.sent
		s.mu.Unlock()

		s.observer.StreamClosed()
		s.logger.Debug("stream closed", "events", sent, "duration", time.Since(s.opened))
	})
}

func (s *SSE) heartbeat(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				return
			}
			_, err := s.w.Write(heartbeat)
			if err == nil {
				s.flusher.Flush()
			}
			s.mu.Unlock()
			if err != nil {
				s.Close()
				return
			}
		}
	}
}
