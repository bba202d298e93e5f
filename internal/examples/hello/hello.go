// Package hello serves the hello-world example: "Hello, world!" streamed
// one character at a time with a delay chosen by the client.
package hello

import (
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/datastar/pkg/server"
	"github.com/vango-dev/datastar/pkg/signals"
)

// Message is the text streamed to the client.
const Message = "Hello, world!"

// DefaultDelay is used when neither the client nor Config sets a delay.
const DefaultDelay = 100 * time.Millisecond

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// Config configures the example.
type Config struct {
	// Delay is the initial delay between characters.
	Delay time.Duration

	// Banner is extra markup placed on the index page.
	Banner template.HTML

	// StreamOptions are passed to server.NewSSE.
	StreamOptions []server.Option

	// Signals reads the client signals. Default: signals.NewReader(nil).
	Signals *signals.Reader

	// Logger defaults to slog.Default() with component=example.hello.
	Logger *slog.Logger
}

// Signals are the client signals of the example.
type Signals struct {
	// Delay between characters, in milliseconds.
	Delay *uint64 `json:"delay"`
}

type example struct {
	cfg    Config
	delay  *delayWatch
	logger *slog.Logger
}

// Handler returns the example routes:
//
//	GET /                     index page
//	GET /hello-world          stream with the delay from the request signals
//	GET /set-delay            update the shared delay
//	GET /hello-world-channel  endless stream following the shared delay
func Handler(cfg Config) http.Handler {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Signals == nil {
		cfg.Signals = signals.NewReader(nil)
	}
	e := &example{
		cfg:    cfg,
		delay:  newDelayWatch(cfg.Delay),
		logger: cfg.Logger,
	}
	if e.logger == nil {
		e.logger = slog.Default().With("component", "example.hello")
	}

	r := chi.NewRouter()
	r.Get("/", e.index)
	r.Get("/hello-world", e.helloWorld)
	r.Get("/set-delay", e.setDelay)
	r.Get("/hello-world-channel", e.helloWorldChannel)
	return r
}

func (e *example) index(w http.ResponseWriter, r *http.Request) {
	stream := "hello-world"
	if r.URL.Query().Get("channel") != "" {
		stream = "hello-world-channel"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, map[string]any{
		"DelayMillis": e.cfg.Delay.Milliseconds(),
		"Banner":      e.cfg.Banner,
		"Stream":      stream,
	})
	if err != nil {
		e.logger.Error("render index", "error", err)
	}
}

// frame returns the element patch showing the first n characters.
func frame(n int) string {
	return fmt.Sprintf("<div id='message'>%s</div>", Message[:n])
}

func (e *example) helloWorld(w http.ResponseWriter, r *http.Request) {
	var sig Signals
	if err := e.cfg.Signals.Read(r, &sig); err != nil {
		signals.WriteError(w, err)
		return
	}
	delay := e.cfg.Delay
	if sig.Delay != nil {
		delay = time.Duration(*sig.Delay) * time.Millisecond
	}

	sse, err := server.NewSSE(w, r, e.cfg.StreamOptions...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sse.Close()

	for i := 1; i <= len(Message); i++ {
		if err := sse.PatchElements(frame(i)); err != nil {
			return
		}
		if !sleep(sse, delay) {
			return
		}
	}
}

func (e *example) setDelay(w http.ResponseWriter, r *http.Request) {
	var sig Signals
	if err := e.cfg.Signals.Read(r, &sig); err != nil {
		signals.WriteError(w, err)
		return
	}
	if sig.Delay != nil {
		d := time.Duration(*sig.Delay) * time.Millisecond
		e.delay.Set(d)
		e.logger.Debug("delay changed", "delay", d)
	}
	w.WriteHeader(http.StatusNoContent)
}

// helloWorldChannel loops the animation forever. A delay change restarts
// the animation; after a full pass it waits for the next change.
func (e *example) helloWorldChannel(w http.ResponseWriter, r *http.Request) {
	sse, err := server.NewSSE(w, r, e.cfg.StreamOptions...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sse.Close()
	ctx := sse.Context()

animation:
	for {
		delay, changed := e.delay.Get()

		for i := 0; i <= len(Message); i++ {
			if err := sse.PatchElements(frame(i)); err != nil {
				return
			}
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-changed:
				timer.Stop()
				continue animation
			case <-timer.C:
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-changed:
		}
	}
}

// sleep waits for d or until the stream ends. It reports whether the
// stream is still open.
func sleep(g server.Generator, d time.Duration) bool {
	if d <= 0 {
		return g.Context().Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-g.Context().Done():
		return false
	case <-timer.C:
		return true
	}
}
