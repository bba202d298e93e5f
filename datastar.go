// Package datastar is the public API for serving the Datastar SSE protocol.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/datastar"
//
// Usage:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var sig struct{ Name string `json:"name"` }
//	    if err := datastar.ReadSignals(r, &sig); err != nil {
//	        datastar.WriteSignalsError(w, err)
//	        return
//	    }
//	    sse, err := datastar.NewSSE(w, r)
//	    if err != nil {
//	        return
//	    }
//	    sse.PatchElements(`<div id="greeting">Hello, ` + sig.Name + `</div>`)
//	}
package datastar

import (
	"net/http"

	"github.com/vango-dev/datastar/pkg/protocol"
	"github.com/vango-dev/datastar/pkg/server"
	"github.com/vango-dev/datastar/pkg/signals"
)

// =============================================================================
// Events (re-export from pkg/protocol)
// =============================================================================

// Event is the canonical form of a Datastar event.
type Event = protocol.Event

// Eventer is implemented by every event builder.
type Eventer = protocol.Eventer

// EventType identifies the kind of an event.
type EventType = protocol.EventType

// ElementPatchMode is the DOM merge strategy of an element patch.
type ElementPatchMode = protocol.ElementPatchMode

// PatchElements patches DOM elements.
type PatchElements = protocol.PatchElements

// PatchSignals patches client signals.
type PatchSignals = protocol.PatchSignals

// ExecuteScript runs a script in the browser.
type ExecuteScript = protocol.ExecuteScript

const (
	EventTypePatchElements = protocol.EventTypePatchElements
	EventTypePatchSignals  = protocol.EventTypePatchSignals
)

const (
	ModeOuter   = protocol.ModeOuter
	ModeInner   = protocol.ModeInner
	ModeRemove  = protocol.ModeRemove
	ModeReplace = protocol.ModeReplace
	ModePrepend = protocol.ModePrepend
	ModeAppend  = protocol.ModeAppend
	ModeBefore  = protocol.ModeBefore
	ModeAfter   = protocol.ModeAfter
)

// NewPatchElements returns an event patching elements.
func NewPatchElements(elements string) PatchElements {
	return protocol.NewPatchElements(elements)
}

// NewRemoveElements returns an event removing the elements matching selector.
func NewRemoveElements(selector string) PatchElements {
	return protocol.NewRemoveElements(selector)
}

// NewPatchSignals returns an event patching signals with a JSON object.
func NewPatchSignals(signals string) PatchSignals {
	return protocol.NewPatchSignals(signals)
}

// MarshalPatchSignals marshals v and returns an event patching it.
func MarshalPatchSignals(v any) (PatchSignals, error) {
	return protocol.MarshalPatchSignals(v)
}

// NewExecuteScript returns an event executing script.
func NewExecuteScript(script string) ExecuteScript {
	return protocol.NewExecuteScript(script)
}

// =============================================================================
// Streams (re-export from pkg/server)
// =============================================================================

// SSE is a server-sent event stream.
type SSE = server.SSE

// WebSocket carries events over a WebSocket connection.
type WebSocket = server.WebSocket

// Generator is implemented by both stream transports.
type Generator = server.Generator

// Option configures a stream.
type Option = server.Option

var (
	WithHeartbeat    = server.WithHeartbeat
	WithWriteTimeout = server.WithWriteTimeout
	WithObserver     = server.WithObserver
	WithLogger       = server.WithLogger
	WithCheckOrigin  = server.WithCheckOrigin
)

// NewSSE starts a server-sent event stream on w.
func NewSSE(w http.ResponseWriter, r *http.Request, opts ...Option) (*SSE, error) {
	return server.NewSSE(w, r, opts...)
}

// Upgrade upgrades the request to a WebSocket event stream.
func Upgrade(w http.ResponseWriter, r *http.Request, opts ...Option) (*WebSocket, error) {
	return server.Upgrade(w, r, opts...)
}

// =============================================================================
// Signals (re-export from pkg/signals)
// =============================================================================

// SignalsError describes a rejected signals payload.
type SignalsError = signals.Error

// ReadSignals decodes the signals carried by r into v.
func ReadSignals(r *http.Request, v any) error {
	return signals.Read(r, v)
}

// ReadSignalsOptional decodes signals only when r is a Datastar request.
// It reports whether signals were read.
func ReadSignalsOptional(r *http.Request, v any) (bool, error) {
	return signals.ReadOptional(r, v)
}

// IsDatastarRequest reports whether r carries the datastar-request header.
func IsDatastarRequest(r *http.Request) bool {
	return signals.IsDatastarRequest(r)
}

// WriteSignalsError writes the response for a rejected signals payload.
func WriteSignalsError(w http.ResponseWriter, err error) {
	signals.WriteError(w, err)
}
