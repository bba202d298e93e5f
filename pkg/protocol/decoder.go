package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Decoder reads Datastar events from a server-sent event stream. It is the
// inverse of Event.WriteTo and is mostly used by tests and tooling.
type Decoder struct {
	sc     *bufio.Scanner
	limits Limits
	line   int
}

// NewDecoder returns a decoder reading from r with default limits.
func NewDecoder(r io.Reader) *Decoder {
	return NewDecoderWithLimits(r, DefaultLimits())
}

// NewDecoderWithLimits returns a decoder reading from r with the given
// limits.
func NewDecoderWithLimits(r io.Reader, limits Limits) *Decoder {
	limits = limits.normalize()
	sc := bufio.NewScanner(r)
	// +2 leaves room for the "\r\n" line ending. The scanner's limit is the
	// larger of maxLen and the initial capacity.
	maxLen := limits.MaxLineLength + 2
	sc.Buffer(make([]byte, 0, min(4096, maxLen)), maxLen)
	return &Decoder{sc: sc, limits: limits}
}

// Next returns the next event in the stream. It returns io.EOF when the
// stream ends cleanly between events.
func (d *Decoder) Next() (Event, error) {
	var (
		ev      = Event{Retry: DefaultRetryDuration}
		started bool
	)

	for d.sc.Scan() {
		d.line++
		line := d.sc.Text()

		if line == "" {
			if !started {
				continue
			}
			if ev.Type == "" {
				return Event{}, d.syntaxError(ErrMissingEventType)
			}
			return ev, nil
		}

		// Comments (heartbeats) carry no data.
		if strings.HasPrefix(line, ":") {
			continue
		}

		started = true
		field, value := parseField(line)
		switch field {
		case "event":
			ev.Type = EventType(value)
		case "data":
			if len(ev.Data) >= d.limits.MaxDataLines {
				return Event{}, d.syntaxError(ErrTooManyDataLines)
			}
			ev.Data = append(ev.Data, value)
		case "id":
			if !strings.ContainsRune(value, '\x00') {
				ev.ID = value
			}
		case "retry":
			if ms, err := strconv.ParseInt(value, 10, 64); err == nil && ms >= 0 {
				ev.Retry = time.Duration(ms) * time.Millisecond
			}
		}
	}

	if err := d.sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			d.line++
			return Event{}, d.syntaxError(ErrLineTooLong)
		}
		return Event{}, err
	}
	if started {
		return Event{}, d.syntaxError(ErrUnterminatedEvent)
	}
	return Event{}, io.EOF
}

func (d *Decoder) syntaxError(err error) error {
	return &SyntaxError{Line: d.line, Err: err}
}

// DecodeEvents decodes every event in data.
func DecodeEvents(data []byte) ([]Event, error) {
	d := NewDecoder(bytes.NewReader(data))
	var events []Event
	for {
		ev, err := d.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

// parseField splits "field: value" into its parts. A single space after
// the colon is not part of the value.
func parseField(line string) (field, value string) {
	field, value, found := strings.Cut(line, ":")
	if !found {
		return line, ""
	}
	return field, strings.TrimPrefix(value, " ")
}

// splitDataLine splits "<literal> <value>" at the first space.
func splitDataLine(line string) (literal, value string) {
	literal, value, _ = strings.Cut(line, " ")
	return literal, value
}

// ParsePatchElements recovers the element patch described by ev.
func ParsePatchElements(ev Event) (PatchElements, error) {
	if ev.Type != EventTypePatchElements {
		return PatchElements{}, ErrWrongEventType
	}

	p := PatchElements{
		ID:        ev.ID,
		Retry:     ev.Retry,
		Mode:      DefaultElementPatchMode,
		retryZero: ev.Retry == 0,
	}

	var elements []string
	for _, line := range ev.Data {
		literal, value := splitDataLine(line)
		switch literal {
		case SelectorDatalineLiteral:
			p.Selector = value
		case ModeDatalineLiteral:
			mode, err := ParseElementPatchMode(value)
			if err != nil {
				return PatchElements{}, err
			}
			p.Mode = mode
		case UseViewTransitionDatalineLiteral:
			b, err := parseBool(value)
			if err != nil {
				return PatchElements{}, err
			}
			p.UseViewTransition = b
		case ElementsDatalineLiteral:
			elements = append(elements, value)
		default:
			return PatchElements{}, errUnknownLine(literal)
		}
	}
	p.Elements = strings.Join(elements, "\n")

	return p, nil
}

// ParsePatchSignals recovers the signal patch described by ev.
func ParsePatchSignals(ev Event) (PatchSignals, error) {
	if ev.Type != EventTypePatchSignals {
		return PatchSignals{}, ErrWrongEventType
	}

	p := PatchSignals{
		ID:        ev.ID,
		Retry:     ev.Retry,
		retryZero: ev.Retry == 0,
	}

	var signals []string
	for _, line := range ev.Data {
		literal, value := splitDataLine(line)
		switch literal {
		case OnlyIfMissingDatalineLiteral:
			b, err := parseBool(value)
			if err != nil {
				return PatchSignals{}, err
			}
			p.OnlyIfMissing = b
		case SignalsDatalineLiteral:
			signals = append(signals, value)
		default:
			return PatchSignals{}, errUnknownLine(literal)
		}
	}
	p.Signals = strings.Join(signals, "\n")

	return p, nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidBool, s)
	}
}

func errUnknownLine(literal string) error {
	return fmt.Errorf("%w: %q", ErrUnknownDataLine, literal)
}
