package protocol

import (
	"fmt"
	"time"
)

// EventType identifies the kind of a Datastar event. It is written verbatim
// on the "event:" line.
type EventType string

const (
	EventTypePatchElements EventType = "datastar-patch-elements"
	EventTypePatchSignals  EventType = "datastar-patch-signals"
)

// String returns the wire token of the event type.
func (t EventType) String() string {
	return string(t)
}

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventTypePatchElements, EventTypePatchSignals:
		return true
	default:
		return false
	}
}

// ElementPatchMode is the DOM merge strategy applied when patching elements.
type ElementPatchMode string

const (
	ModeOuter   ElementPatchMode = "outer"   // Morph the target element (default)
	ModeInner   ElementPatchMode = "inner"   // Morph the target's children
	ModeRemove  ElementPatchMode = "remove"  // Remove the target element
	ModeReplace ElementPatchMode = "replace" // Replace without morphing
	ModePrepend ElementPatchMode = "prepend" // Insert as first child
	ModeAppend  ElementPatchMode = "append"  // Insert as last child
	ModeBefore  ElementPatchMode = "before"  // Insert before the target
	ModeAfter   ElementPatchMode = "after"   // Insert after the target
)

// String returns the wire token of the mode.
func (m ElementPatchMode) String() string {
	return string(m)
}

// Valid reports whether m is a known patch mode.
func (m ElementPatchMode) Valid() bool {
	switch m {
	case ModeOuter, ModeInner, ModeRemove, ModeReplace,
		ModePrepend, ModeAppend, ModeBefore, ModeAfter:
		return true
	default:
		return false
	}
}

// ParseElementPatchMode parses a mode token.
func ParseElementPatchMode(s string) (ElementPatchMode, error) {
	m := ElementPatchMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}

// ElementPatchModeFromString parses a mode token, falling back to the
// default mode for empty or unknown input.
func ElementPatchModeFromString(s string) ElementPatchMode {
	m, err := ParseElementPatchMode(s)
	if err != nil {
		return DefaultElementPatchMode
	}
	return m
}

// Data line literals. Every data line starts with one of these followed by a
// single space.
const (
	SelectorDatalineLiteral          = "selector"
	ModeDatalineLiteral              = "mode"
	UseViewTransitionDatalineLiteral = "useViewTransition"
	ElementsDatalineLiteral          = "elements"
	SignalsDatalineLiteral           = "signals"
	OnlyIfMissingDatalineLiteral     = "onlyIfMissing"
)

// Defaults shared with the client library. Values equal to these are never
// written to the wire.
const (
	DefaultRetryDuration              = 1000 * time.Millisecond
	DefaultElementPatchMode           = ModeOuter
	DefaultElementsUseViewTransitions = false
	DefaultPatchSignalsOnlyIfMissing  = false
	DefaultExecuteScriptAutoRemove    = true
)

// Request side constants.
const (
	// RequestHeader is sent by the client on every Datastar request.
	RequestHeader = "datastar-request"

	// QueryParam carries JSON encoded signals on GET requests.
	QueryParam = "datastar"
)

// Response headers for non-streaming (text/html or application/json)
// responses.
const (
	HeaderSelector          = "datastar-selector"
	HeaderMode              = "datastar-mode"
	HeaderUseViewTransition = "datastar-use-view-transition"
	HeaderOnlyIfMissing     = "datastar-only-if-missing"
	HeaderScriptAttributes  = "datastar-script-attributes"
)

// autoRemoveAttribute is added to script tags that remove themselves once
// executed.
const autoRemoveAttribute = `data-effect="el.remove()"`
