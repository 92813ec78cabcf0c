package table

import "fmt"

// FormatError indicates that a source file could not be parsed as a
// table in any supported format. It is always fatal for the run: no
// island detection happens on a source that failed to load.
type FormatError struct {
	// Source is the file path or URL that failed to load
	Source string

	// Message describes what went wrong
	Message string

	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("format error: %s: %s (caused by: %v)", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("format error: %s: %s", e.Source, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a FormatError for the given source
func NewFormatError(source, message string, err error) *FormatError {
	return &FormatError{Source: source, Message: message, Err: err}
}

// IsFormatError reports whether err is a FormatError
func IsFormatError(err error) bool {
	_, ok := err.(*FormatError)
	return ok
}
