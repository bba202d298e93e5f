package protocol

import "strings"

// splitLines splits s into lines. A line ends at "\n" or "\r\n"; the final
// line ending is optional and never produces an empty trailing line. The
// empty string has no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	segments := strings.Split(s, "\n")
	terminated := len(segments) - 1 // segments followed by "\n"
	if segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}

	for i := range segments {
		if i < terminated {
			segments[i] = strings.TrimSuffix(segments[i], "\r")
		}
	}
	return segments
}

// prefixLines appends one "<literal> <line>" entry per line of s.
func prefixLines(data []string, literal, s string) []string {
	for _, line := range splitLines(s) {
		data = append(data, dataLine(literal, line))
	}
	return data
}
