package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
	CategoryServer    Category = "server"
	CategoryTestSuite Category = "testsuite"
)

// Location represents a position in a source file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// DatastarError is a structured error with a code, an optional file
// location and a fix suggestion.
type DatastarError struct {
	// Code is a unique error identifier (e.g., "DS101").
	Code string

	// Category is the error type (config, cli, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file position the error refers to.
	Location *Location

	// Context contains the lines surrounding Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct form.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *DatastarError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *DatastarError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file position to the error and reads the
// surrounding lines when the file exists.
func (e *DatastarError) WithLocation(file string, line, column int) *DatastarError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *DatastarError) WithSuggestion(s string) *DatastarError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *DatastarError) WithExample(ex string) *DatastarError {
	e.Example = ex
	return e
}

// WithDetail replaces the detailed explanation.
func (e *DatastarError) WithDetail(d string) *DatastarError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *DatastarError) Wrap(err error) *DatastarError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	if targetLine <= 0 {
		return nil
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a DatastarError from a registered error code.
func New(code string) *DatastarError {
	template, ok := registry[code]
	if !ok {
		return &DatastarError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &DatastarError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// FromError wraps err in a DatastarError with the given code. When err
// already carries a *DatastarError in its chain, that error is returned.
func FromError(err error, code string) *DatastarError {
	if err == nil {
		return nil
	}
	var de *DatastarError
	if stderrors.As(err, &de) {
		return de
	}
	return New(code).Wrap(err)
}
