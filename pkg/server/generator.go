package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vango-dev/datastar/pkg/protocol"
)

// Generator sends Datastar events to one client, in order. Both SSE and
// WebSocket implement it.
type Generator interface {
	// Send encodes and writes one event. Events are written in the order
	// Send is called; concurrent calls are serialized.
	Send(ev protocol.Eventer) error

	// Context is done when the client goes away or the stream is closed.
	Context() context.Context
}

// helpers provides the convenience senders shared by every transport.
type helpers struct {
	send func(protocol.Eventer) error
}

// PatchElements morphs elements into the DOM by their id.
func (h helpers) PatchElements(elements string) error {
	return h.send(protocol.NewPatchElements(elements))
}

// PatchElementsInto patches elements relative to the target selected by
// selector, using mode.
func (h helpers) PatchElementsInto(selector string, mode protocol.ElementPatchMode, elements string) error {
	return h.send(protocol.NewPatchElements(elements).WithSelector(selector).WithMode(mode))
}

// RemoveElements removes the elements matched by selector.
func (h helpers) RemoveElements(selector string) error {
	return h.send(protocol.NewRemoveElements(selector))
}

// PatchSignals merges a raw JSON object into the client's signals.
func (h helpers) PatchSignals(signals string) error {
	return h.send(protocol.NewPatchSignals(signals))
}

// MarshalAndPatchSignals encodes v as JSON and patches it into the
// client's signals.
func (h helpers) MarshalAndPatchSignals(v any) error {
	p, err := protocol.MarshalPatchSignals(v)
	if err != nil {
		return err
	}
	return h.send(p)
}

// ExecuteScript runs script on the client. Attributes are added to the
// script tag verbatim, for example `type="module"`.
func (h helpers) ExecuteScript(script string, attributes ...string) error {
	return h.send(protocol.NewExecuteScript(script).WithAttributes(attributes...))
}

// ConsoleLog logs msg in the browser console.
func (h helpers) ConsoleLog(msg string) error {
	quoted, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return h.ExecuteScript(fmt.Sprintf("console.log(%s)", quoted))
}

// Redirect navigates the browser to url.
func (h helpers) Redirect(url string) error {
	quoted, err := json.Marshal(url)
	if err != nil {
		return err
	}
	return h.ExecuteScript(fmt.Sprintf("setTimeout(() => window.location.href = %s)", quoted))
}
