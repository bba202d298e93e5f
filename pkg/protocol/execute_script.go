package protocol

import (
	"strings"
	"time"
)

// ExecuteScript runs JavaScript in the browser.
//
// It has no event type of its own: the script is wrapped in a <script>
// element appended to the document body through a patch-elements event.
type ExecuteScript struct {
	// ID lets the backend replay events after a reconnect.
	ID string

	// Retry is the reconnect hint sent to the browser. Zero means
	// DefaultRetryDuration unless it was set with WithRetry.
	Retry time.Duration

	// Script is the JavaScript source, possibly spanning several lines.
	Script string

	// AutoRemove removes the script element once it has run. Nil leaves
	// the default (true).
	AutoRemove *bool

	// Attributes are added to the script tag verbatim, in order. Each must
	// already be formatted, e.g. `type="module"`.
	Attributes []string

	retryZero bool
}

// NewExecuteScript returns an event executing script.
func NewExecuteScript(script string) ExecuteScript {
	return ExecuteScript{
		Retry:  DefaultRetryDuration,
		Script: script,
	}
}

// WithID returns a copy with the replay id set.
func (s ExecuteScript) WithID(id string) ExecuteScript {
	s.ID = id
	return s
}

// WithRetry returns a copy with the retry hint set.
func (s ExecuteScript) WithRetry(retry time.Duration) ExecuteScript {
	s.Retry = retry
	s.retryZero = retry == 0
	return s
}

// WithAutoRemove returns a copy with auto removal explicitly set.
func (s ExecuteScript) WithAutoRemove(autoRemove bool) ExecuteScript {
	s.AutoRemove = &autoRemove
	return s
}

// WithAttributes returns a copy whose script tag carries attrs.
func (s ExecuteScript) WithAttributes(attrs ...string) ExecuteScript {
	s.Attributes = append([]string(nil), attrs...)
	return s
}

// autoRemove resolves the effective auto removal flag.
func (s ExecuteScript) autoRemove() bool {
	if s.AutoRemove == nil {
		return DefaultExecuteScriptAutoRemove
	}
	return *s.AutoRemove
}

// DatastarEvent converts the script to its canonical event.
func (s ExecuteScript) DatastarEvent() Event {
	data := []string{
		dataLine(SelectorDatalineLiteral, "body"),
		dataLine(ModeDatalineLiteral, ModeAppend.String()),
	}

	var tag strings.Builder
	tag.WriteString(ElementsDatalineLiteral)
	tag.WriteString(" <script")
	if s.autoRemove() {
		tag.WriteByte(' ')
		tag.WriteString(autoRemoveAttribute)
	}
	for _, attr := range s.Attributes {
		tag.WriteByte(' ')
		tag.WriteString(attr)
	}
	tag.WriteByte('>')

	lines := splitLines(s.Script)
	if len(lines) > 0 {
		tag.WriteString(lines[0])
		lines = lines[1:]
	}
	data = append(data, tag.String())

	for _, line := range lines {
		data = append(data, dataLine(ElementsDatalineLiteral, line))
	}
	data[len(data)-1] += "</script>"

	return Event{
		Type:  EventTypePatchElements,
		ID:    s.ID,
		Retry: effectiveRetry(s.Retry, s.retryZero),
		Data:  data,
	}
}

// AsPatchElements returns the element patch equivalent to the script.
//
// DatastarEvent only emits the selector, mode and elements literals with
// ModeAppend, so ParsePatchElements has no error path for the event and
// its error is ignored.
func (s ExecuteScript) AsPatchElements() PatchElements {
	p, _ := ParsePatchElements(s.DatastarEvent())
	return p
}
