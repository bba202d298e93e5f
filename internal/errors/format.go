package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

// Output selects how PrintError renders an error.
type Output int

const (
	// OutputText is the annotated terminal form produced by Format.
	OutputText Output = iota

	// OutputJSON is one JSON object per error, for log pipelines.
	OutputJSON
)

// ANSI styles.
const (
	styleReset = "\033[0m"
	styleBold  = "\033[1m"
	styleRed   = "\033[31m"
	styleBlue  = "\033[34m"
	styleCyan  = "\033[36m"
	styleGray  = "\033[90m"
)

var colorEnabled = true

// SetColors turns ANSI styling of Format on or off.
func SetColors(enabled bool) {
	colorEnabled = enabled
}

func paint(style, text string) string {
	if !colorEnabled || text == "" {
		return text
	}
	return style + text + styleReset
}

// detailWidth is the column at which Detail text is wrapped.
const detailWidth = 70

// Format renders e for a terminal. Sections without content are skipped.
func (e *DatastarError) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(paint(styleBold+styleRed, "ERROR"))
	if e.Code != "" {
		b.WriteString(" " + paint(styleBold, e.Code) + ": ")
	} else {
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	b.WriteString("\n\n")

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", paint(styleCyan, e.Location.String()))
		e.writeExcerpt(&b)
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s\n\n", paint(styleGray, e.Wrapped.Error()))
	}
	if lines := wrapText(e.Detail, detailWidth); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n\n", paint(styleCyan, "Hint:"), e.Suggestion)
	}
	if e.Example != "" {
		fmt.Fprintf(&b, "  %s\n", paint(styleCyan, "Example:"))
		for _, line := range strings.Split(e.Example, "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s %s\n", paint(styleGray, "Learn more:"), paint(styleBlue, e.DocURL))
	}
	return b.String()
}

// writeExcerpt writes the context lines with the error line marked and,
// when the column is known, a caret under it.
func (e *DatastarError) writeExcerpt(b *strings.Builder) {
	if len(e.Context) == 0 {
		return
	}
	first := e.Location.Line - len(e.Context)/2
	bar := paint(styleGray, " │ ")

	for i, text := range e.Context {
		n := first + i
		marker := "    "
		if n == e.Location.Line {
			marker = "  " + paint(styleRed, "→ ")
		}
		fmt.Fprintf(b, "%s%4d%s%s\n", marker, n, bar, text)

		if n == e.Location.Line && e.Location.Column > 0 {
			fmt.Fprintf(b, "       %s%s%s\n",
				paint(styleGray, "│ "), strings.Repeat(" ", e.Location.Column-1), paint(styleRed, "^"))
		}
	}
	b.WriteString("\n")
}

type jsonError struct {
	Code       string    `json:"code,omitempty"`
	Category   Category  `json:"category,omitempty"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	Cause      string    `json:"cause,omitempty"`
	Location   *Location `json:"location,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	Example    string    `json:"example,omitempty"`
	DocURL     string    `json:"docUrl,omitempty"`
}

// FormatJSON returns e as a single-line JSON object.
func (e *DatastarError) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Location:   e.Location,
		Suggestion: e.Suggestion,
		Example:    e.Example,
		DocURL:     e.DocURL,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(data)
}

// wrapText breaks text into lines of at most width bytes at word
// boundaries. A single word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}

// PrintError writes err to w in the given output form. Errors that are
// not a *DatastarError are printed with their message only.
func PrintError(w io.Writer, err error, out Output) {
	var de *DatastarError
	if !stderrors.As(err, &de) {
		de = &DatastarError{Message: err.Error()}
	}

	if out == OutputJSON {
		fmt.Fprintln(w, de.FormatJSON())
		return
	}
	if de.Code == "" && de.Location == nil && de.Detail == "" {
		fmt.Fprintf(w, "\n%s %s\n\n", paint(styleBold+styleRed, "ERROR:"), de.Message)
		return
	}
	fmt.Fprint(w, de.Format())
}
