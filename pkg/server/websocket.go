package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/datastar/pkg/protocol"
)

// WebSocket sends Datastar events over a WebSocket connection. Each event
// is encoded exactly as on an SSE stream and sent as one text message.
type WebSocket struct {
	helpers

	conn         *websocket.Conn
	ctx          context.Context
	cancel       context.CancelFunc
	span         trace.Span
	writeTimeout time.Duration

	mu     sync.Mutex // Protects conn writes
	closed bool
	sent   int

	closeOnce sync.Once
	observer  Observer
	logger    *slog.Logger
}

// Upgrade upgrades the HTTP connection and returns a WebSocket generator.
// On failure the upgrader has already written an HTTP error response.
//
// Inbound messages are read and discarded so control frames are handled;
// the context is done once the peer closes the connection.
func Upgrade(w http.ResponseWriter, r *http.Request, opts ...Option) (*WebSocket, error) {
	cfg := buildConfig(opts)

	upgrader := websocket.Upgrader{
		ReadBufferSize:    cfg.ReadBufferSize,
		WriteBufferSize:   cfg.WriteBufferSize,
		CheckOrigin:       cfg.CheckOrigin,
		EnableCompression: cfg.EnableCompression,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, &StreamError{Transport: "websocket", Op: "upgrade", Err: err}
	}

	ctx, cancel := context.WithCancel(r.Context())
	ws := &WebSocket{
		conn:         conn,
		ctx:          ctx,
		cancel:       cancel,
		span:         trace.SpanFromContext(r.Context()),
		writeTimeout: cfg.WriteTimeout,
		observer:     cfg.Observer,
		logger:       cfg.Logger.With("transport", "websocket", "path", r.URL.Path),
	}
	ws.helpers = helpers{send: ws.Send}

	ws.observer.StreamOpened()
	ws.logger.Debug("stream opened")

	go ws.readLoop()
	return ws, nil
}

// readLoop drains inbound messages until the connection fails.
func (ws *WebSocket) readLoop() {
	defer ws.Close()

	for {
		if _, _, err := ws.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				ws.logger.Warn("read error", "error", err)
			}
			return
		}
	}
}

// Context implements Generator.
func (ws *WebSocket) Context() context.Context {
	return ws.ctx
}

// Send implements Generator.
func (ws *WebSocket) Send(e protocol.Eventer) error {
	if ws == nil || ws.conn == nil {
		return ErrNoConnection
	}
	ev := e.DatastarEvent()
	data := ev.Encode()

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.closed || ws.ctx.Err() != nil {
		return ErrStreamClosed
	}

	if ws.writeTimeout > 0 {
		ws.conn.SetWriteDeadline(time.Now().Add(ws.writeTimeout))
	}
	if err := ws.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		go ws.Close()
		return &StreamError{Transport: "websocket", Op: "write", Err: err}
	}
	ws.sent++

	ws.observer.EventSent(ev.Type, len(data))
	ws.span.AddEvent("datastar.event", trace.WithAttributes(
		attribute.String("datastar.event.type", string(ev.Type)),
		attribute.Int("datastar.event.bytes", len(data)),
	))
	ws.logger.Debug("event sent", "type", ev.Type, "bytes", len(data))
	return nil
}

// Close sends a normal close frame and closes the connection. It is safe
// to call more than once.
func (ws *WebSocket) Close() error {
	var err error
	ws.closeOnce.Do(func() {
		ws.mu.Lock()
		ws.closed = true
		ws.conn.SetWriteDeadline(time.Now().Add(time.Second))
		ws.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		sent := ws.sent
		ws.mu.Unlock()

		err = ws.conn.Close()
		ws.cancel()

		ws.observer.StreamClosed()
		ws.logger.Debug("stream closed", "events", sent)
	})
	return err
}
