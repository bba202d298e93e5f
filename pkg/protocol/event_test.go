package protocol

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestEventEncode(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "type_only",
			event: Event{Type: EventTypePatchSignals, Retry: DefaultRetryDuration},
			want:  "event: datastar-patch-signals\n\n",
		},
		{
			name: "id_and_retry",
			event: Event{
				Type:  EventTypePatchElements,
				ID:    "42",
				Retry: 3 * time.Second,
				Data:  []string{"elements <p>a</p>"},
			},
			want: "event: datastar-patch-elements\nid: 42\nretry: 3000\ndata: elements <p>a</p>\n\n",
		},
		{
			name: "data_order_preserved",
			event: Event{
				Type:  EventTypePatchElements,
				Retry: DefaultRetryDuration,
				Data:  []string{"selector #b", "mode after", "elements x", "elements y"},
			},
			want: "event: datastar-patch-elements\ndata: selector #b\ndata: mode after\ndata: elements x\ndata: elements y\n\n",
		},
		{
			name:  "zero_retry_is_written",
			event: Event{Type: EventTypePatchSignals},
			want:  "event: datastar-patch-signals\nretry: 0\n\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.event.String()
			if got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEventFraming(t *testing.T) {
	events := []Eventer{
		NewPatchElements("a\nb\nc"),
		NewRemoveElements("#gone").WithID("7"),
		NewPatchSignals(`{"x":1}`).WithRetry(10 * time.Second),
		NewExecuteScript("alert(1)"),
		Event{Type: EventTypePatchSignals, Retry: DefaultRetryDuration},
	}

	for _, e := range events {
		ev := e.DatastarEvent()
		out := ev.String()

		if !strings.HasSuffix(out, "\n\n") || strings.HasSuffix(out, "\n\n\n") {
			t.Errorf("%q: must end with exactly one blank line", out)
		}
		if n := strings.Count(out, "event: "); n != 1 {
			t.Errorf("%q: got %d event lines, want 1", out, n)
		}
		if got, want := strings.Contains(out, "\nid: "), ev.ID != ""; got != want {
			t.Errorf("%q: id line present = %v, want %v", out, got, want)
		}
		if got, want := strings.Contains(out, "\nretry: "), ev.Retry != DefaultRetryDuration; got != want {
			t.Errorf("%q: retry line present = %v, want %v", out, got, want)
		}
	}
}

func TestEventWriteTo(t *testing.T) {
	ev := NewPatchSignals(`{"n":1}`).DatastarEvent()

	var buf bytes.Buffer
	n, err := ev.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo() = %d, wrote %d bytes", n, buf.Len())
	}
	if !bytes.Equal(buf.Bytes(), ev.Encode()) {
		t.Errorf("WriteTo() wrote %q, Encode() = %q", buf.String(), ev.Encode())
	}
}

func TestEncodeEvents(t *testing.T) {
	a := NewPatchSignals(`{"a":1}`)
	b := NewPatchElements(`<p id="b"></p>`)

	got := string(EncodeEvents(a, b))
	ea, eb := a.DatastarEvent(), b.DatastarEvent()
	want := ea.String() + eb.String()
	if got != want {
		t.Errorf("EncodeEvents() = %q, want %q", got, want)
	}
}

func TestEventTypeValid(t *testing.T) {
	if !EventTypePatchElements.Valid() || !EventTypePatchSignals.Valid() {
		t.Error("known event types must be valid")
	}
	if EventType("datastar-execute-script").Valid() {
		t.Error("unknown event type must not be valid")
	}
}

func TestParseElementPatchMode(t *testing.T) {
	for _, token := range []string{"outer", "inner", "remove", "replace", "prepend", "append", "before", "after"} {
		mode, err := ParseElementPatchMode(token)
		if err != nil {
			t.Errorf("ParseElementPatchMode(%q) error = %v", token, err)
			continue
		}
		if mode.String() != token {
			t.Errorf("ParseElementPatchMode(%q) = %q", token, mode)
		}
	}

	if _, err := ParseElementPatchMode("morph"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if got := ElementPatchModeFromString("morph"); got != ModeOuter {
		t.Errorf("ElementPatchModeFromString(morph) = %q, want outer", got)
	}
	if got := ElementPatchModeFromString(""); got != ModeOuter {
		t.Errorf("ElementPatchModeFromString(\"\") = %q, want outer", got)
	}
}
