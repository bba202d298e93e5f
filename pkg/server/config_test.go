package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDefaultStreamConfig(t *testing.T) {
	config := DefaultStreamConfig()

	if config.HeartbeatInterval != 0 {
		t.Error("HeartbeatInterval should be disabled by default")
	}
	if config.WriteTimeout <= 0 {
		t.Error("WriteTimeout should be positive")
	}
	if config.ReadBufferSize <= 0 {
		t.Error("ReadBufferSize should be positive")
	}
	if config.WriteBufferSize <= 0 {
		t.Error("WriteBufferSize should be positive")
	}
	if config.CheckOrigin == nil {
		t.Error("CheckOrigin should not be nil")
	}
	if config.Logger == nil {
		t.Error("Logger should not be nil")
	}
}

func TestStreamConfigClone(t *testing.T) {
	config := DefaultStreamConfig()
	clone := config.Clone()
	clone.WriteTimeout = time.Minute

	if config.WriteTimeout == time.Minute {
		t.Error("Clone should not share state with the original")
	}
	if (*StreamConfig)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestBuildConfig(t *testing.T) {
	stats := NewStatsCollector()
	base := DefaultStreamConfig()
	base.WriteTimeout = 3 * time.Second

	cfg := buildConfig([]Option{
		WithConfig(base),
		WithHeartbeat(time.Second),
		WithObserver(stats),
		WithLogger(nil),
		WithCheckOrigin(nil),
	})

	if cfg.WriteTimeout != 3*time.Second {
		t.Errorf("WriteTimeout = %v, want 3s", cfg.WriteTimeout)
	}
	if cfg.HeartbeatInterval != time.Second {
		t.Errorf("HeartbeatInterval = %v, want 1s", cfg.HeartbeatInterval)
	}
	if cfg.Observer != stats {
		t.Error("Observer should be the stats collector")
	}
	if cfg.Logger == nil || cfg.CheckOrigin == nil {
		t.Error("nil Logger and CheckOrigin should fall back to defaults")
	}

	if _, ok := buildConfig(nil).Observer.(nopObserver); !ok {
		t.Error("default Observer should be a no-op")
	}
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{"no_origin", "example.com", "", true},
		{"same_origin", "example.com", "https://example.com", true},
		{"same_origin_with_port", "localhost:8080", "http://localhost:8080", true},
		{"different_port", "localhost:8080", "http://localhost:3000", false},
		{"different_host", "example.com", "https://evil.com", false},
		{"bad_origin", "example.com", "://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := SameOriginCheck(r); got != tt.want {
				t.Errorf("SameOriginCheck() = %v, want %v", got, tt.want)
			}
		})
	}
}
