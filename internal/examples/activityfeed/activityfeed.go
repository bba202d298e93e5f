// Package activityfeed serves the activity-feed example: a feed of status
// events appended with element patches while signal patches keep the
// counters in sync.
package activityfeed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/datastar/pkg/protocol"
	"github.com/vango-dev/datastar/pkg/server"
	"github.com/vango-dev/datastar/pkg/signals"
)

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// TimestampLayout formats entry timestamps.
const TimestampLayout = "2006-01-02 15:04:05.000"

// Signals are the data-signals of the page.
type Signals struct {
	// Form inputs
	Interval uint64 `json:"interval"`
	Events   uint64 `json:"events"`

	// Activity flag
	Generating bool `json:"generating"`

	// Counters
	Total uint64 `json:"total"`
	Done  uint64 `json:"done"`
	Warn  uint64 `json:"warn"`
	Fail  uint64 `json:"fail"`
	Info  uint64 `json:"info"`
}

// Config configures the example.
type Config struct {
	// Interval is the initial delay between generated events.
	Interval time.Duration

	// Events is the initial number of events per generate request.
	Events int

	// Now returns the entry timestamp. Default: time.Now.
	Now func() time.Time

	// StreamOptions are passed to server.NewSSE.
	StreamOptions []server.Option

	// Signals reads the client signals. Default: signals.NewReader(nil).
	Signals *signals.Reader

	// Logger defaults to slog.Default() with component=example.activityfeed.
	Logger *slog.Logger
}

type example struct {
	cfg    Config
	logger *slog.Logger
}

// Handler returns the example routes:
//
//	GET  /                index page
//	POST /event/generate  append a run of done events
//	POST /event/{status}  append one event with the given status
func Handler(cfg Config) http.Handler {
	if cfg.Interval < 0 {
		cfg.Interval = 0
	}
	if cfg.Events <= 0 {
		cfg.Events = 10
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Signals == nil {
		cfg.Signals = signals.NewReader(nil)
	}
	e := &example{cfg: cfg, logger: cfg.Logger}
	if e.logger == nil {
		e.logger = slog.Default().With("component", "example.activityfeed")
	}

	r := chi.NewRouter()
	r.Get("/", e.index)
	r.Post("/event/generate", e.generate)
	r.Post("/event/{status}", e.event)
	return r
}

func (e *example) index(w http.ResponseWriter, r *http.Request) {
	initial, err := json.Marshal(Signals{
		Interval: uint64(e.cfg.Interval.Milliseconds()),
		Events:   uint64(e.cfg.Events),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = indexTemplate.Execute(w, map[string]any{
		"Signals":  string(initial),
		"Statuses": Statuses,
	})
	if err != nil {
		e.logger.Error("render index", "error", err)
	}
}

// generate appends signals.Events done entries, one every
// signals.Interval milliseconds.
func (e *example) generate(w http.ResponseWriter, r *http.Request) {
	var sig Signals
	if err := e.cfg.Signals.Read(r, &sig); err != nil {
		signals.WriteError(w, err)
		return
	}

	sse, err := server.NewSSE(w, r, e.cfg.StreamOptions...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sse.Close()

	if err := sse.PatchSignals(`{"generating": true}`); err != nil {
		return
	}

	total, done := sig.Total, sig.Done
	interval := time.Duration(sig.Interval) * time.Millisecond
	for i := uint64(0); i < sig.Events; i++ {
		total++
		done++
		if err := sse.PatchElementsInto("#feed", protocol.ModeAfter, e.entry(StatusDone, total, "Auto")); err != nil {
			return
		}
		if err := sse.PatchSignals(fmt.Sprintf(`{"total": %d, "done": %d}`, total, done)); err != nil {
			return
		}
		if !wait(sse, interval) {
			return
		}
	}

	_ = sse.PatchSignals(`{"generating": false}`)
}

// event appends one entry and bumps the counter of its status.
func (e *example) event(w http.ResponseWriter, r *http.Request) {
	status, err := ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var sig Signals
	if err := e.cfg.Signals.Read(r, &sig); err != nil {
		signals.WriteError(w, err)
		return
	}

	total := sig.Total + 1
	var count uint64
	switch status {
	case StatusDone:
		count = sig.Done + 1
	case StatusWarn:
		count = sig.Warn + 1
	case StatusFail:
		count = sig.Fail + 1
	case StatusInfo:
		count = sig.Info + 1
	}

	sse, err := server.NewSSE(w, r, e.cfg.StreamOptions...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sse.Close()

	if err := sse.PatchSignals(fmt.Sprintf(`{"total": %d, "%s": %d}`, total, status, count)); err != nil {
		return
	}
	_ = sse.PatchElementsInto("#feed", protocol.ModeAfter, e.entry(status, total, "Manual"))
}

// entry renders one feed line.
func (e *example) entry(status Status, index uint64, source string) string {
	timestamp := e.cfg.Now().UTC().Format(TimestampLayout)
	return fmt.Sprintf("<div id='event-%d' class='text-%s-500'>%s [ %s ] %s event %d</div>",
		index, status.Color(), timestamp, status.Indicator(), source, index)
}

func wait(g server.Generator, d time.Duration) bool {
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
