package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// PatchSignals patches signals into the client's signal store.
type PatchSignals struct {
	// ID lets the backend replay events after a reconnect.
	ID string

	// Retry is the reconnect hint sent to the browser. Zero means
	// DefaultRetryDuration unless it was set with WithRetry.
	Retry time.Duration

	// Signals is a JSON (or JavaScript object literal) document. It may
	// span several lines.
	Signals string

	// OnlyIfMissing only patches signals that do not exist on the client.
	OnlyIfMissing bool

	retryZero bool
}

// NewPatchSignals returns a patch for an already serialized signals
// document.
func NewPatchSignals(signals string) PatchSignals {
	return PatchSignals{
		Retry:         DefaultRetryDuration,
		Signals:       signals,
		OnlyIfMissing: DefaultPatchSignalsOnlyIfMissing,
	}
}

// MarshalPatchSignals serializes v to compact JSON and returns a patch for
// it. Maps are written with sorted keys; pass a json.RawMessage or a struct
// to control key order.
func MarshalPatchSignals(v any) (PatchSignals, error) {
	raw, err := marshalCompact(v)
	if err != nil {
		return PatchSignals{}, err
	}
	return NewPatchSignals(raw), nil
}

// WithID returns a copy with the replay id set.
func (p PatchSignals) WithID(id string) PatchSignals {
	p.ID = id
	return p
}

// WithRetry returns a copy with the retry hint set.
func (p PatchSignals) WithRetry(retry time.Duration) PatchSignals {
	p.Retry = retry
	p.retryZero = retry == 0
	return p
}

// WithOnlyIfMissing returns a copy with the only-if-missing flag set.
func (p PatchSignals) WithOnlyIfMissing(onlyIfMissing bool) PatchSignals {
	p.OnlyIfMissing = onlyIfMissing
	return p
}

// DatastarEvent converts the patch to its canonical event.
func (p PatchSignals) DatastarEvent() Event {
	var data []string

	if p.OnlyIfMissing != DefaultPatchSignalsOnlyIfMissing {
		data = append(data, dataLine(OnlyIfMissingDatalineLiteral, strconv.FormatBool(p.OnlyIfMissing)))
	}

	data = prefixLines(data, SignalsDatalineLiteral, p.Signals)

	return Event{
		Type:  EventTypePatchSignals,
		ID:    p.ID,
		Retry: effectiveRetry(p.Retry, p.retryZero),
		Data:  data,
	}
}

func marshalCompact(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("protocol: marshal signals: %w", err)
	}
	// Encode terminates the document with a newline.
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
