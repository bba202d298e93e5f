package testsuite

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vango-dev/datastar/pkg/protocol"
)

// Event types accepted in a test case.
const (
	TypeExecuteScript = "executeScript"
	TypePatchElements = "patchElements"
	TypePatchSignals  = "patchSignals"
)

// ErrUnknownType is returned for a test case event with an unsupported
// type tag.
var ErrUnknownType = errors.New("testsuite: unknown event type")

// TestCase is a list of events to replay, in order.
type TestCase struct {
	Events []Event `json:"events"`
}

// Event is one test case event. Which fields apply depends on Type.
// Pointer fields distinguish "absent" from a zero value.
type Event struct {
	Type string `json:"type"`

	// Shared
	EventID       *string `json:"eventId,omitempty"`
	RetryDuration *uint64 `json:"retryDuration,omitempty"`

	// executeScript
	Script     string     `json:"script,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
	AutoRemove *bool      `json:"autoRemove,omitempty"`

	// patchElements
	Elements          string `json:"elements,omitempty"`
	Selector          string `json:"selector,omitempty"`
	Mode              string `json:"mode,omitempty"`
	UseViewTransition *bool  `json:"useViewTransition,omitempty"`

	// patchSignals
	Signals       json.RawMessage `json:"signals,omitempty"`
	SignalsRaw    *string         `json:"signals-raw,omitempty"`
	OnlyIfMissing *bool           `json:"onlyIfMissing,omitempty"`
}

// snakeFields holds the snake_case spellings accepted as aliases.
type snakeFields struct {
	EventID           *string `json:"event_id"`
	RetryDuration     *uint64 `json:"retry_duration"`
	AutoRemove        *bool   `json:"auto_remove"`
	UseViewTransition *bool   `json:"use_view_transition"`
	SignalsRaw        *string `json:"signals_raw"`
	OnlyIfMissing     *bool   `json:"only_if_missing"`
}

// UnmarshalJSON decodes an event, accepting snake_case aliases for the
// camelCase keys and rejecting unknown types.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var alias snakeFields
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	switch p.Type {
	case TypeExecuteScript, "ExecuteScript":
		p.Type = TypeExecuteScript
	case TypePatchElements, TypePatchSignals:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
	}

	p.EventID = firstNonNil(p.EventID, alias.EventID)
	p.RetryDuration = firstNonNil(p.RetryDuration, alias.RetryDuration)
	p.AutoRemove = firstNonNil(p.AutoRemove, alias.AutoRemove)
	p.UseViewTransition = firstNonNil(p.UseViewTransition, alias.UseViewTransition)
	p.SignalsRaw = firstNonNil(p.SignalsRaw, alias.SignalsRaw)
	p.OnlyIfMissing = firstNonNil(p.OnlyIfMissing, alias.OnlyIfMissing)

	*e = Event(p)
	return nil
}

func firstNonNil[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}

// Eventer builds the protocol event described by e.
func (e Event) Eventer() (protocol.Eventer, error) {
	var ev protocol.Eventer
	switch e.Type {
	case TypeExecuteScript:
		s := protocol.NewExecuteScript(e.Script).WithAttributes(e.Attributes.Render()...)
		if e.AutoRemove != nil {
			s = s.WithAutoRemove(*e.AutoRemove)
		}
		ev = s.WithID(deref(e.EventID)).WithRetry(e.retry())

	case TypePatchElements:
		ev = protocol.NewPatchElements(e.Elements).
			WithSelector(e.Selector).
			WithMode(protocol.ElementPatchModeFromString(e.Mode)).
			WithViewTransition(deref(e.UseViewTransition)).
			WithID(deref(e.EventID)).
			WithRetry(e.retry())

	case TypePatchSignals:
		signals, err := e.signals()
		if err != nil {
			return nil, err
		}
		ev = protocol.NewPatchSignals(signals).
			WithOnlyIfMissing(deref(e.OnlyIfMissing)).
			WithID(deref(e.EventID)).
			WithRetry(e.retry())

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, e.Type)
	}
	return ev, nil
}

func (e Event) retry() time.Duration {
	if e.RetryDuration == nil {
		return protocol.DefaultRetryDuration
	}
	return time.Duration(*e.RetryDuration) * time.Millisecond
}

// signals returns the raw signals text, which wins over the structured
// object. The object is compacted with its key order preserved.
func (e Event) signals() (string, error) {
	if e.SignalsRaw != nil {
		return *e.SignalsRaw, nil
	}
	if len(e.Signals) == 0 || bytes.Equal(e.Signals, []byte("null")) {
		return "", nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, e.Signals); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Decode reads a test case document from r.
func Decode(r io.Reader) (*TestCase, error) {
	var tc TestCase
	if err := json.NewDecoder(r).Decode(&tc); err != nil {
		return nil, err
	}
	return &tc, nil
}

// Eventers builds every event of the test case, in order.
func (tc *TestCase) Eventers() ([]protocol.Eventer, error) {
	out := make([]protocol.Eventer, 0, len(tc.Events))
	for i, e := range tc.Events {
		ev, err := e.Eventer()
		if err != nil {
			return nil, fmt.Errorf("testsuite: event %d: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// Render returns the exact SSE bytes a server writes for tc.
func Render(tc *TestCase) ([]byte, error) {
	events, err := tc.Eventers()
	if err != nil {
		return nil, err
	}
	return protocol.EncodeEvents(events...), nil
}
