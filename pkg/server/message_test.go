package server

import (
	"testing"
	"time"

	"github.com/vango-dev/datastar/pkg/protocol"
)

func TestFormatMessageMatchesEventEncoding(t *testing.T) {
	events := []protocol.Eventer{
		protocol.NewPatchElements("<div>\n  <p>a</p>\n</div>").WithSelector("#a").WithMode(protocol.ModeInner),
		protocol.NewRemoveElements("#x").WithID("7"),
		protocol.NewPatchSignals("{\n\"a\": 1\n}").WithOnlyIfMissing(true).WithRetry(3 * time.Second),
		protocol.NewExecuteScript("a()\nb()").WithAttributes(`type="module"`),
		protocol.NewPatchSignals(""),
	}

	for _, e := range events {
		ev := e.DatastarEvent()
		if got, want := string(FormatMessage(MessageFromEvent(ev))), ev.String(); got != want {
			t.Errorf("FormatMessage() = %q, want %q", got, want)
		}
	}
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "comment",
			msg:  Message{Comment: "ping"},
			want: ": ping\n\n",
		},
		{
			name: "full",
			msg:  Message{Event: "graph", MsgID: "1", Retry: 500, Data: []byte("a\nb")},
			want: "event: graph\nid: 1\nretry: 500\ndata: a\ndata: b\n\n",
		},
		{
			name: "no_data",
			msg:  Message{Event: "tick"},
			want: "event: tick\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(FormatMessage(tt.msg)); got != tt.want {
				t.Errorf("FormatMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessageFromEventDropsDefaultRetry(t *testing.T) {
	ev := protocol.NewPatchSignals(`{}`).DatastarEvent()
	if m := MessageFromEvent(ev); m.Retry != 0 {
		t.Errorf("Retry = %d, want 0 for the default", m.Retry)
	}
}
