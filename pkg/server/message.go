package server

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/vango-dev/datastar/pkg/protocol"
)

// Message is a server-sent event in transport form. Data may span
// several lines; FormatMessage writes one data line per line.
type Message struct {
	Comment string // Comment text (optional, written as ": " lines)
	Event   string // Event type (optional, omitted if empty)
	MsgID   string // Event ID for client reconnection (optional)
	Retry   int    // Retry hint in milliseconds (optional, omitted if zero)
	Data    []byte // Event data (can be multi-line)
}

// MessageFromEvent converts a canonical event. The data lines are joined
// with "\n" so FormatMessage can split them again.
//
// A zero retry cannot be expressed as a Message and is dropped.
func MessageFromEvent(ev protocol.Event) Message {
	m := Message{
		Event: string(ev.Type),
		MsgID: ev.ID,
		Data:  []byte(strings.Join(ev.Data, "\n")),
	}
	if ev.HasRetry() {
		m.Retry = int(ev.RetryMillis())
	}
	return m
}

// FormatMessage formats a Message as SSE wire format. For messages built
// with MessageFromEvent the output is byte-identical to Event.Encode.
func FormatMessage(msg Message) []byte {
	var buf bytes.Buffer

	if msg.Comment != "" {
		for _, line := range strings.Split(msg.Comment, "\n") {
			buf.WriteString(": ")
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}

	if msg.Event != "" {
		buf.WriteString("event: ")
		buf.WriteString(msg.Event)
		buf.WriteByte('\n')
	}

	if msg.MsgID != "" {
		buf.WriteString("id: ")
		buf.WriteString(msg.MsgID)
		buf.WriteByte('\n')
	}

	if msg.Retry > 0 {
		buf.WriteString("retry: ")
		buf.WriteString(strconv.Itoa(msg.Retry))
		buf.WriteByte('\n')
	}

	// handle multi-line data
	if len(msg.Data) > 0 {
		for _, line := range bytes.Split(msg.Data, []byte("\n")) {
			buf.WriteString("data: ")
			buf.Write(line)
			buf.WriteByte('\n')
		}
	}

	buf.WriteByte('\n') // end of event
	return buf.Bytes()
}

var heartbeat = FormatMessage(Message{Comment: "ping"})
