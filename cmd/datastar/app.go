package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/datastar/internal/config"
	"github.com/vango-dev/datastar/internal/errors"
	"github.com/vango-dev/datastar/internal/examples/activityfeed"
	"github.com/vango-dev/datastar/internal/examples/hello"
	"github.com/vango-dev/datastar/internal/examples/livereload"
	"github.com/vango-dev/datastar/pkg/middleware"
	"github.com/vango-dev/datastar/pkg/server"
	"github.com/vango-dev/datastar/pkg/signals"
	"github.com/vango-dev/datastar/pkg/testsuite"
)

// Example names accepted by `datastar example`.
const (
	exampleHello        = "hello"
	exampleActivityFeed = "activity-feed"
	exampleLiveReload   = "live-reload"
)

var exampleNames = []string{exampleHello, exampleActivityFeed, exampleLiveReload}

// app holds the shared pieces every route is built from.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *middleware.Metrics
	stats    *server.StatsCollector
	signals  *signals.Reader
	watcher  *livereload.Watcher
	started  time.Time
}

// newApp builds the shared pieces. A watcher is created only when watch
// is true and the configuration names paths to watch.
func newApp(cfg *config.Config, watch bool) (*app, error) {
	a := &app{
		cfg:      cfg,
		logger:   slog.Default().With("component", "cli"),
		registry: prometheus.NewRegistry(),
		stats:    server.NewStatsCollector(),
		started:  time.Now(),
	}
	a.signals = signals.NewReader(&signals.Config{
		MaxBodyBytes: cfg.SSE.MaxBodyBytes,
		OnReject:     a.onReject,
	})

	if cfg.Metrics.Enabled {
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.metrics = middleware.Prometheus(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(a.registry),
			middleware.WithPathLabel(routePattern),
		)
	}

	if watch && len(cfg.Examples.Watch) > 0 {
		w, err := livereload.NewWatcher(livereload.WatcherConfig{Paths: cfg.Examples.Watch})
		if err != nil {
			return nil, errors.New("DS204").Wrap(err).
				WithSuggestion("Check examples.watch in the configuration")
		}
		a.watcher = w
	}
	return a, nil
}

// routePattern labels requests by their chi route pattern so that path
// parameters do not create new series.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// streamOptions returns the options every stream is created with.
func (a *app) streamOptions() []server.Option {
	var observer server.Observer = a.stats
	if a.metrics != nil {
		observer = server.Observers(a.stats, a.metrics)
	}
	return []server.Option{
		server.WithObserver(observer),
		server.WithHeartbeat(a.cfg.SSE.Heartbeat.Std()),
	}
}

// onReject records a signals payload rejected on any route.
func (a *app) onReject(_ *http.Request, err *signals.Error) {
	if a.metrics != nil {
		a.metrics.RecordRejection(err.Kind.String())
	}
}

// router returns the base router with the ambient middleware installed.
func (a *app) router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.Recoverer)
	if a.cfg.Tracing.Enabled {
		r.Use(middleware.OpenTelemetry(middleware.WithTracerName(a.cfg.Tracing.TracerName)))
	}
	if a.metrics != nil {
		r.Use(a.metrics.Handler)
		r.Method(http.MethodGet, a.cfg.Metrics.Path, promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	}
	r.Get("/healthz", a.healthz)
	return r
}

// serveHandler returns the handler of `datastar serve`.
func (a *app) serveHandler() http.Handler {
	r := a.router()

	suite := testsuite.Handler(&testsuite.HandlerConfig{
		Reader:        a.signals,
		StreamOptions: a.streamOptions(),
	})
	r.Method(http.MethodGet, "/test", suite)
	r.Method(http.MethodPost, "/test", suite)

	for _, name := range exampleNames {
		r.Mount("/examples/"+name, a.example(name))
	}
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/examples/"+exampleHello+"/", http.StatusFound)
	})
	return r
}

// exampleHandler returns the handler of `datastar example <name>`.
func (a *app) exampleHandler(name string) http.Handler {
	r := a.router()
	r.Mount("/", a.example(name))
	return r
}

func (a *app) example(name string) http.Handler {
	ex := a.cfg.Examples
	helloCfg := hello.Config{
		Delay:         ex.HelloDelay.Std(),
		StreamOptions: a.streamOptions(),
		Signals:       a.signals,
	}

	switch name {
	case exampleHello:
		return hello.Handler(helloCfg)
	case exampleActivityFeed:
		return activityfeed.Handler(activityfeed.Config{
			Interval:      ex.FeedInterval.Std(),
			Events:        ex.FeedEvents,
			StreamOptions: a.streamOptions(),
			Signals:       a.signals,
		})
	case exampleLiveReload:
		return livereload.NewReloader(livereload.Config{
			Hello:           helloCfg,
			Watcher:         a.watcher,
			ReloadOnConnect: true,
			StreamOptions:   a.streamOptions(),
		}).Handler()
	}
	return http.NotFoundHandler()
}

func isExample(name string) bool {
	for _, n := range exampleNames {
		if n == name {
			return true
		}
	}
	return false
}

type healthResponse struct {
	Status        string           `json:"status"`
	Uptime        string           `json:"uptime"`
	ActiveStreams int64            `json:"activeStreams"`
	TotalStreams  int64            `json:"totalStreams"`
	PeakStreams   int64            `json:"peakStreams"`
	EventsSent    int64            `json:"eventsSent"`
	BytesSent     int64            `json:"bytesSent"`
	EventsByType  map[string]int64 `json:"eventsByType"`
}

func (a *app) healthz(w http.ResponseWriter, r *http.Request) {
	s := a.stats.Snapshot()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        time.Since(a.started).Round(time.Second).String(),
		ActiveStreams: s.ActiveStreams,
		TotalStreams:  s.TotalStreams,
		PeakStreams:   s.PeakStreams,
		EventsSent:    s.EventsSent,
		BytesSent:     s.BytesSent,
		EventsByType:  make(map[string]int64, len(s.EventsByType)),
	}
	for t, n := range s.EventsByType {
		resp.EventsByType[string(t)] = n
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		a.logger.Debug("write healthz", "error", err)
	}
}

// run serves h on the configured address until ctx is done, then shuts
// down gracefully. Request contexts are canceled at shutdown so open
// streams end.
func (a *app) run(ctx context.Context, h http.Handler) error {
	if a.watcher != nil {
		go func() {
			if err := a.watcher.Run(ctx); err != nil && ctx.Err() == nil {
				a.logger.Warn("watcher stopped", "error", err)
			}
		}()
		defer a.watcher.Close()
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.FromError(err, "DS201")
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	cancelBase()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.FromError(err, "DS201")
	}
	return nil
}
