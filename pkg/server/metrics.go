package server

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/datastar/pkg/protocol"
)

// StreamMetrics is a point-in-time view of a StatsCollector.
type StreamMetrics struct {
	// Streams
	ActiveStreams int64
	TotalStreams  int64
	ClosedStreams int64
	PeakStreams   int64

	// Events
	EventsSent int64
	BytesSent  int64

	// Per event type
	EventsByType map[protocol.EventType]int64

	// Timestamp
	CollectedAt time.Time
}

// StatsCollector is an Observer that keeps in-process counters. It backs
// the /healthz endpoint and tests; Prometheus export lives in
// pkg/middleware.
type StatsCollector struct {
	active     atomic.Int64
	total      atomic.Int64
	closed     atomic.Int64
	peak       atomic.Int64
	eventsSent atomic.Int64
	bytesSent  atomic.Int64

	mu     sync.Mutex
	byType map[protocol.EventType]int64
}

// NewStatsCollector creates a new StatsCollector.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{
		byType: make(map[protocol.EventType]int64),
	}
}

// StreamOpened implements Observer.
func (m *StatsCollector) StreamOpened() {
	m.total.Add(1)
	active := m.active.Add(1)
	for {
		peak := m.peak.Load()
		if active <= peak || m.peak.CompareAndSwap(peak, active) {
			return
		}
	}
}

// StreamClosed implements Observer.
func (m *StatsCollector) StreamClosed() {
	m.active.Add(-1)
	m.closed.Add(1)
}

// EventSent implements Observer.
func (m *StatsCollector) EventSent(eventType protocol.EventType, bytes int) {
	m.eventsSent.Add(1)
	m.bytesSent.Add(int64(bytes))

	m.mu.Lock()
	m.byType[eventType]++
	m.mu.Unlock()
}

// Snapshot returns current metrics.
func (m *StatsCollector) Snapshot() *StreamMetrics {
	metrics := &StreamMetrics{
		ActiveStreams: m.active.Load(),
		TotalStreams:  m.total.Load(),
		ClosedStreams: m.closed.Load(),
		PeakStreams:   m.peak.Load(),
		EventsSent:    m.eventsSent.Load(),
		BytesSent:     m.bytesSent.Load(),
		CollectedAt:   time.Now(),
	}

	m.mu.Lock()
	metrics.EventsByType = make(map[protocol.EventType]int64, len(m.byType))
	for k, v := range m.byType {
		metrics.EventsByType[k] = v
	}
	m.mu.Unlock()

	return metrics
}

// Reset resets all counters except the active stream gauge.
func (m *StatsCollector) Reset() {
	m.total.Store(m.active.Load())
	m.closed.Store(0)
	m.peak.Store(m.active.Load())
	m.eventsSent.Store(0)
	m.bytesSent.Store(0)

	m.mu.Lock()
	clear(m.byType)
	m.mu.Unlock()
}
