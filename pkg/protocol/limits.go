package protocol

// Limits applied while decoding untrusted streams.
const (
	// DefaultMaxLineLength bounds a single stream line (1MB).
	DefaultMaxLineLength = 1024 * 1024

	// HardMaxLineLength is the ceiling for configured line lengths (16MB).
	HardMaxLineLength = 16 * 1024 * 1024

	// DefaultMaxDataLines bounds the number of data lines in one event.
	DefaultMaxDataLines = 100_000
)

// Limits configures the decoder bounds.
// Use DefaultLimits() for sensible defaults.
type Limits struct {
	// MaxLineLength is the maximum length of one line, excluding the line
	// ending.
	MaxLineLength int

	// MaxDataLines is the maximum number of data lines per event.
	MaxDataLines int
}

// DefaultLimits returns the default decoding limits.
func DefaultLimits() Limits {
	return Limits{
		MaxLineLength: DefaultMaxLineLength,
		MaxDataLines:  DefaultMaxDataLines,
	}
}

// normalize fills zero fields with defaults and clamps the line length.
func (l Limits) normalize() Limits {
	if l.MaxLineLength <= 0 {
		l.MaxLineLength = DefaultMaxLineLength
	}
	if l.MaxLineLength > HardMaxLineLength {
		l.MaxLineLength = HardMaxLineLength
	}
	if l.MaxDataLines <= 0 {
		l.MaxDataLines = DefaultMaxDataLines
	}
	return l
}
