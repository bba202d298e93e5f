package protocol

import (
	"io"
	"strconv"
	"time"
)

// Event is the transport independent form of one Datastar update.
//
// Data holds the payload already split into lines; no element may contain
// a newline. Builders guarantee this, callers constructing an Event by hand
// must pre-split.
type Event struct {
	// Type selects the "event:" line.
	Type EventType

	// ID is the replay identifier. Empty means absent.
	ID string

	// Retry is the reconnect hint. Only written when it differs from
	// DefaultRetryDuration.
	Retry time.Duration

	// Data lines, written in order as "data: <line>".
	Data []string
}

// Eventer is implemented by every event descriptor.
type Eventer interface {
	DatastarEvent() Event
}

// DatastarEvent returns the event itself so that an Event can be passed
// wherever an Eventer is expected.
func (ev Event) DatastarEvent() Event {
	return ev
}

// HasRetry reports whether the retry line is written for this event.
func (ev *Event) HasRetry() bool {
	return ev.Retry != DefaultRetryDuration
}

// RetryMillis returns the retry interval in whole milliseconds.
func (ev *Event) RetryMillis() int64 {
	return ev.Retry.Milliseconds()
}

// AppendTo appends the wire form of the event to buf and returns the
// extended buffer.
//
//	event: <type>
//	id: <id>            (if set)
//	retry: <ms>         (if not default)
//	data: <line>        (per line)
//	<blank line>
func (ev *Event) AppendTo(buf []byte) []byte {
	buf = append(buf, "event: "...)
	buf = append(buf, ev.Type...)
	buf = append(buf, '\n')

	if ev.ID != "" {
		buf = append(buf, "id: "...)
		buf = append(buf, ev.ID...)
		buf = append(buf, '\n')
	}

	if ev.HasRetry() {
		buf = append(buf, "retry: "...)
		buf = strconv.AppendInt(buf, ev.RetryMillis(), 10)
		buf = append(buf, '\n')
	}

	for _, line := range ev.Data {
		buf = append(buf, "data: "...)
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	return append(buf, '\n')
}

// Encode returns the wire form of the event.
func (ev *Event) Encode() []byte {
	return ev.AppendTo(make([]byte, 0, ev.encodedSizeHint()))
}

// String returns the wire form of the event.
func (ev *Event) String() string {
	return string(ev.Encode())
}

// WriteTo writes the wire form of the event to w.
func (ev *Event) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(ev.Encode())
	return int64(n), err
}

func (ev *Event) encodedSizeHint() int {
	n := len("event: \n\n") + len(ev.Type)
	if ev.ID != "" {
		n += len("id: \n") + len(ev.ID)
	}
	if ev.HasRetry() {
		n += len("retry: \n") + 20
	}
	for _, line := range ev.Data {
		n += len("data: \n") + len(line)
	}
	return n
}

// EncodeEvents encodes events back to back, preserving order.
func EncodeEvents(events ...Eventer) []byte {
	var buf []byte
	for _, e := range events {
		ev := e.DatastarEvent()
		buf = ev.AppendTo(buf)
	}
	return buf
}

// dataLine formats "<literal> <value>".
func dataLine(literal, value string) string {
	return literal + " " + value
}
