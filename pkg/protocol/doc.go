// Package protocol implements the Datastar server-sent event wire format.
//
// The server describes every update with one of three descriptors. Each
// descriptor converts to a canonical Event, and every Event is written to
// the stream in the same line-oriented framing.
//
// # Wire Format
//
// Every event is a block of lines terminated by a blank line:
//
//	event: datastar-patch-elements
//	id: 42                      (only if an id is set)
//	retry: 5000                 (only if not 1000ms)
//	data: selector #feed
//	data: mode append
//	data: elements <div id="a">
//	data: elements </div>
//
// Values equal to the client's defaults are never written. Multi-line
// payloads are split so that each line is its own data line carrying the
// same literal prefix.
//
// # Descriptors
//
//   - PatchElements: morph, insert or remove DOM elements
//   - PatchSignals: merge a JSON document into the client signal store
//   - ExecuteScript: append a self-removing <script> to the body
//
// ExecuteScript has no event type of its own; it is encoded as a
// datastar-patch-elements event targeting "body" in append mode.
//
// # Data Lines
//
//	selector          CSS selector of the target
//	mode              outer | inner | remove | replace | prepend | append | before | after
//	useViewTransition true when the patch uses a View Transition
//	elements          one line of markup
//	signals           one line of the signals document
//	onlyIfMissing     true when existing signals must not be overwritten
//
// # Usage Example
//
//	// Build and encode an element patch
//	patch := protocol.NewPatchElements(`<div id="feed">Hello</div>`).
//	    WithSelector("#feed").
//	    WithMode(protocol.ModeInner)
//	ev := patch.DatastarEvent()
//	ev.WriteTo(w)
//
//	// Decode a recorded stream
//	events, err := protocol.DecodeEvents(body)
//	if err != nil {
//	    // Handle error
//	}
//	patch, err = protocol.ParsePatchElements(events[0])
//
// # File Structure
//
//   - consts.go: event types, modes, data line literals, defaults
//   - event.go: canonical Event and its encoder
//   - lines.go: line splitting shared by all descriptors
//   - patch_elements.go: PatchElements descriptor
//   - patch_signals.go: PatchSignals descriptor
//   - execute_script.go: ExecuteScript descriptor
//   - decoder.go: stream decoder and descriptor parsers
//   - limits.go: decoder limits
//   - error.go: decoding errors
package protocol
