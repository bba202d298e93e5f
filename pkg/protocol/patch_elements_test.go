package protocol

import (
	"reflect"
	"testing"
	"time"
)

func TestPatchElementsEvent(t *testing.T) {
	tests := []struct {
		name  string
		patch PatchElements
		want  []string
	}{
		{
			name:  "multiline_defaults",
			patch: NewPatchElements("a\nb\nc"),
			want:  []string{"elements a", "elements b", "elements c"},
		},
		{
			name:  "remove",
			patch: NewRemoveElements("#x"),
			want:  []string{"selector #x", "mode remove"},
		},
		{
			name:  "empty_markup",
			patch: NewPatchElements(""),
			want:  nil,
		},
		{
			name: "all_fields",
			patch: NewPatchElements(`<li id="n">new</li>`).
				WithSelector("#list").
				WithMode(ModeAppend).
				WithViewTransition(true),
			want: []string{
				"selector #list",
				"mode append",
				"useViewTransition true",
				`elements <li id="n">new</li>`,
			},
		},
		{
			name:  "explicit_outer_is_elided",
			patch: NewPatchElements("<p></p>").WithMode(ModeOuter),
			want:  []string{"elements <p></p>"},
		},
		{
			name:  "zero_value_struct",
			patch: PatchElements{Elements: "<p></p>"},
			want:  []string{"elements <p></p>"},
		},
		{
			name:  "blank_inner_line",
			patch: NewPatchElements("<pre>\n\n</pre>"),
			want:  []string{"elements <pre>", "elements ", "elements </pre>"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := tc.patch.DatastarEvent()
			if ev.Type != EventTypePatchElements {
				t.Errorf("Type = %q, want %q", ev.Type, EventTypePatchElements)
			}
			if ev.Retry != DefaultRetryDuration {
				t.Errorf("Retry = %v, want default", ev.Retry)
			}
			if !reflect.DeepEqual(ev.Data, tc.want) {
				t.Errorf("Data = %q, want %q", ev.Data, tc.want)
			}
		})
	}
}

func TestPatchElementsSettersDoNotMutate(t *testing.T) {
	base := NewPatchElements("<p></p>")
	_ = base.WithSelector("#a").WithMode(ModeInner).WithID("1").WithRetry(time.Second)

	if base.Selector != "" || base.Mode != ModeOuter || base.ID != "" || base.Retry != DefaultRetryDuration {
		t.Errorf("setter mutated the receiver: %+v", base)
	}
}

func TestPatchElementsIDAndRetry(t *testing.T) {
	ev := NewPatchElements("x").WithID("evt").WithRetry(250 * time.Millisecond).DatastarEvent()
	if ev.ID != "evt" {
		t.Errorf("ID = %q, want evt", ev.ID)
	}
	if ev.Retry != 250*time.Millisecond {
		t.Errorf("Retry = %v, want 250ms", ev.Retry)
	}
}

func TestPatchElementsRetry(t *testing.T) {
	tests := []struct {
		name  string
		patch PatchElements
		want  string
	}{
		{
			name:  "explicit_zero_is_written",
			patch: NewPatchElements(`<div id="a"></div>`).WithRetry(0),
			want:  "event: datastar-patch-elements\nretry: 0\ndata: elements <div id=\"a\"></div>\n\n",
		},
		{
			name:  "literal_zero_is_default",
			patch: PatchElements{Elements: `<div id="a"></div>`},
			want:  "event: datastar-patch-elements\ndata: elements <div id=\"a\"></div>\n\n",
		},
		{
			name:  "zero_then_nonzero",
			patch: NewPatchElements(`<div id="a"></div>`).WithRetry(0).WithRetry(time.Second),
			want:  "event: datastar-patch-elements\ndata: elements <div id=\"a\"></div>\n\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := tc.patch.DatastarEvent()
			if got := ev.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}
