package protocol

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
)

func TestWireGolden(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))

	cases := []struct {
		name  string
		event Eventer
	}{
		{
			name: "patch_elements_multiline",
			event: NewPatchElements("<div id=\"a\">\n  hi\n</div>").
				WithSelector("#a").
				WithMode(ModeInner).
				WithViewTransition(true).
				WithID("evt-1").
				WithRetry(2 * time.Second),
		},
		{
			name:  "remove_elements",
			event: NewRemoveElements("#x"),
		},
		{
			name:  "patch_signals_only_if_missing",
			event: NewPatchSignals(`{"a":1}`).WithOnlyIfMissing(true),
		},
		{
			name:  "execute_script_module",
			event: NewExecuteScript("console.log('a')\nconsole.log('b')").WithAttributes(`type="module"`),
		},
	}

	for _, tc := range cases {
		ev := tc.event.DatastarEvent()
		g.Assert(t, tc.name, ev.Encode())
	}
}
