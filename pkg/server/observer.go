package server

import (
	"github.com/vango-dev/datastar/pkg/protocol"
)

// Observer receives callbacks from streams. Implementations must be safe
// for concurrent use; callbacks run on the sending goroutine.
type Observer interface {
	// StreamOpened is called once a stream is ready to send.
	StreamOpened()

	// StreamClosed is called exactly once per opened stream.
	StreamClosed()

	// EventSent is called after an event has been written.
	EventSent(eventType protocol.EventType, bytes int)
}

type nopObserver struct{}

func (nopObserver) StreamOpened() {}
func (nopObserver) StreamClosed() {}
func (nopObserver) EventSent(protocol.EventType, int) {}

// Observers fans callbacks out to several observers. Nil entries are
// skipped.
func Observers(observers ...Observer) Observer {
	list := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) StreamOpened() {
	for _, o := range m {
		o.StreamOpened()
	}
}

func (m multiObserver) StreamClosed() {
	for _, o := range m {
		o.StreamClosed()
	}
}

func (m multiObserver) EventSent(eventType protocol.EventType, bytes int) {
	for _, o := range m {
		o.EventSent(eventType, bytes)
	}
}
