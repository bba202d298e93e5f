package protocol

import (
	"strconv"
	"time"
)

// PatchElements patches HTML elements into the DOM.
//
// The zero value of every optional field means "client default": an empty
// Mode is ModeOuter and a zero Retry is DefaultRetryDuration unless it was
// set with WithRetry.
type PatchElements struct {
	// ID lets the backend replay events after a reconnect.
	ID string

	// Retry is the reconnect hint sent to the browser.
	Retry time.Duration

	// Elements is the markup to patch, possibly spanning several lines.
	// Empty when removing elements.
	Elements string

	// Selector is a CSS selector for the patch target. When empty the
	// client matches elements by their id attribute.
	Selector string

	// Mode is how the elements are merged into the DOM.
	Mode ElementPatchMode

	// UseViewTransition wraps the patch in a View Transition.
	UseViewTransition bool

	retryZero bool
}

// NewPatchElements returns a patch for the given markup.
func NewPatchElements(elements string) PatchElements {
	return PatchElements{
		Retry:             DefaultRetryDuration,
		Elements:          elements,
		Mode:              DefaultElementPatchMode,
		UseViewTransition: DefaultElementsUseViewTransitions,
	}
}

// NewRemoveElements returns a patch removing every element matched by
// selector.
func NewRemoveElements(selector string) PatchElements {
	return PatchElements{
		Retry:             DefaultRetryDuration,
		Selector:          selector,
		Mode:              ModeRemove,
		UseViewTransition: DefaultElementsUseViewTransitions,
	}
}

// WithID returns a copy with the replay id set.
func (p PatchElements) WithID(id string) PatchElements {
	p.ID = id
	return p
}

// WithRetry returns a copy with the retry hint set.
func (p PatchElements) WithRetry(retry time.Duration) PatchElements {
	p.Retry = retry
	p.retryZero = retry == 0
	return p
}

// WithSelector returns a copy targeting selector.
func (p PatchElements) WithSelector(selector string) PatchElements {
	p.Selector = selector
	return p
}

// WithMode returns a copy using mode.
func (p PatchElements) WithMode(mode ElementPatchMode) PatchElements {
	p.Mode = mode
	return p
}

// WithViewTransition returns a copy with view transitions toggled.
func (p PatchElements) WithViewTransition(use bool) PatchElements {
	p.UseViewTransition = use
	return p
}

// DatastarEvent converts the patch to its canonical event.
func (p PatchElements) DatastarEvent() Event {
	var data []string

	if p.Selector != "" {
		data = append(data, dataLine(SelectorDatalineLiteral, p.Selector))
	}

	if p.Mode != "" && p.Mode != DefaultElementPatchMode {
		data = append(data, dataLine(ModeDatalineLiteral, p.Mode.String()))
	}

	if p.UseViewTransition != DefaultElementsUseViewTransitions {
		data = append(data, dataLine(UseViewTransitionDatalineLiteral, strconv.FormatBool(p.UseViewTransition)))
	}

	data = prefixLines(data, ElementsDatalineLiteral, p.Elements)

	return Event{
		Type:  EventTypePatchElements,
		ID:    p.ID,
		Retry: effectiveRetry(p.Retry, p.retryZero),
		Data:  data,
	}
}

// effectiveRetry returns the retry to encode. A zero retry is the default
// unless it was set explicitly.
func effectiveRetry(d time.Duration, explicitZero bool) time.Duration {
	if d == 0 && !explicitZero {
		return DefaultRetryDuration
	}
	return d
}
