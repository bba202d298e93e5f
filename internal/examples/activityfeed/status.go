package activityfeed

import (
	"errors"
	"fmt"
)

// Status is the status of a feed event.
type Status string

const (
	StatusDone Status = "done"
	StatusFail Status = "fail"
	StatusInfo Status = "info"
	StatusWarn Status = "warn"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusDone, StatusWarn, StatusFail, StatusInfo}

// ErrUnknownStatus is returned by ParseStatus.
var ErrUnknownStatus = errors.New("activityfeed: unknown status")

// ParseStatus parses a lowercase status name.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusDone, StatusFail, StatusInfo, StatusWarn:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Color returns the Tailwind color name of the status.
func (s Status) Color() string {
	switch s {
	case StatusDone:
		return "green"
	case StatusWarn:
		return "yellow"
	case StatusFail:
		return "red"
	default:
		return "blue"
	}
}

// Indicator returns the label shown in the feed.
func (s Status) Indicator() string {
	switch s {
	case StatusDone:
		return "✅ Done"
	case StatusWarn:
		return "⚠️ Warn"
	case StatusFail:
		return "❌ Fail"
	default:
		return "ℹ️ Info"
	}
}
