// Package livereload serves the hello-world example with development
// live reload: connected pages reload when a watched file changes and on
// the first connection after the process starts.
package livereload

import (
	"html/template"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/datastar/internal/examples/hello"
	"github.com/vango-dev/datastar/pkg/protocol"
	"github.com/vango-dev/datastar/pkg/server"
)

// ReloadScript is executed by the browser to reload the page.
const ReloadScript = "window.location.reload()"

// banner is injected into the hello page. The client reconnects quickly
// so the page comes back as soon as the server does.
const banner template.HTML = `<div id="hotreload" data-on-load="@get('hotreload', {retryMaxCount: 1000, retryInterval: 20, retryMaxWaitMs: 200})">
    <p>live reload is active</p>
  </div>`

// Config configures the example.
type Config struct {
	// Hello configures the page that is reloaded.
	Hello hello.Config

	// Watcher sends change notifications. Nil disables file watching.
	Watcher *Watcher

	// ReloadOnConnect reloads the first page that connects after the
	// process starts, picking up a rebuilt binary.
	ReloadOnConnect bool

	// StreamOptions are passed to server.NewSSE and server.Upgrade.
	StreamOptions []server.Option

	// Logger defaults to slog.Default() with component=livereload.
	Logger *slog.Logger
}

// Reloader serves the reload streams.
type Reloader struct {
	cfg       Config
	logger    *slog.Logger
	connected atomic.Bool
}

// NewReloader creates a Reloader.
func NewReloader(cfg Config) *Reloader {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "livereload")
	}
	return &Reloader{cfg: cfg, logger: logger}
}

// Handler returns the example routes: the hello example with the reload
// banner, plus
//
//	GET /hotreload     SSE reload stream
//	GET /hotreload/ws  WebSocket reload stream
func (rl *Reloader) Handler() http.Handler {
	helloCfg := rl.cfg.Hello
	helloCfg.Banner = banner

	r := chi.NewRouter()
	r.Get("/hotreload", rl.serveSSE)
	r.Get("/hotreload/ws", rl.serveWebSocket)
	r.Mount("/", hello.Handler(helloCfg))
	return r
}

func (rl *Reloader) serveSSE(w http.ResponseWriter, r *http.Request) {
	sse, err := server.NewSSE(w, r, rl.cfg.StreamOptions...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sse.Close()
	rl.stream(sse)
}

func (rl *Reloader) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := server.Upgrade(w, r, rl.cfg.StreamOptions...)
	if err != nil {
		rl.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()
	rl.stream(ws)
}

// stream sends a reload on the first connection (when enabled) and on
// every watcher notification, until the client goes away.
func (rl *Reloader) stream(g server.Generator) {
	reload := protocol.NewExecuteScript(ReloadScript)

	if rl.cfg.ReloadOnConnect && rl.connected.CompareAndSwap(false, true) {
		rl.logger.Debug("reloading first client")
		if err := g.Send(reload); err != nil {
			return
		}
	}

	var changes <-chan struct{}
	if rl.cfg.Watcher != nil {
		ch, cancel := rl.cfg.Watcher.Subscribe()
		defer cancel()
		changes = ch
	}

	ctx := g.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			if err := g.Send(reload); err != nil {
				return
			}
		}
	}
}
