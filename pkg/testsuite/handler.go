package testsuite

import (
	"log/slog"
	"net/http"

	"github.com/vango-dev/datastar/pkg/server"
	"github.com/vango-dev/datastar/pkg/signals"
)

// HandlerConfig configures Handler.
type HandlerConfig struct {
	// Reader extracts the test case from the request. Its OnReject hook
	// sees every rejected test case.
	// Default: signals.NewReader(nil).
	Reader *signals.Reader

	// StreamOptions are passed to server.NewSSE.
	StreamOptions []server.Option

	// Logger receives replay errors.
	// Default: slog.Default() with component=testsuite.
	Logger *slog.Logger
}

// Handler returns the test-suite endpoint. It accepts GET (test case in
// the datastar query parameter) and POST (test case as the body), and
// replays every event of the test case over SSE in order.
func Handler(cfg *HandlerConfig) http.Handler {
	if cfg == nil {
		cfg = &HandlerConfig{}
	}
	reader := cfg.Reader
	if reader == nil {
		reader = signals.NewReader(nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "testsuite")
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tc TestCase
		if err := reader.Read(r, &tc); err != nil {
			signals.WriteError(w, err)
			return
		}

		events, err := tc.Eventers()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		sse, err := server.NewSSE(w, r, cfg.StreamOptions...)
		if err != nil {
			logger.Error("stream setup failed", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sse.Close()

		for _, ev := range events {
			if err := sse.Send(ev); err != nil {
				logger.Debug("replay stopped", "error", err)
				return
			}
		}
	})
}
