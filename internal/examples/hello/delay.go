package hello

import (
	"sync"
	"time"
)

// delayWatch holds the shared delay. Readers get the current value and a
// channel that is closed on the next change.
type delayWatch struct {
	mu      sync.Mutex
	value   time.Duration
	changed chan struct{}
}

func newDelayWatch(d time.Duration) *delayWatch {
	return &delayWatch{value: d, changed: make(chan struct{})}
}

func (w *delayWatch) Get() (time.Duration, <-chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value, w.changed
}

func (w *delayWatch) Set(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.value = d
	close(w.changed)
	w.changed = make(chan struct{})
}
