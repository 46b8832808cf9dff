package config

import "fmt"

// UsageError reports malformed or out-of-range command-line input.
// It is returned before any backend is touched.
type UsageError struct {
	Flag string // Offending flag without dashes (empty when the flag parser reports it itself)
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	if e.Flag != "" {
		return fmt.Sprintf("invalid --%s: %v", e.Flag, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *UsageError) Unwrap() error {
	return e.Err
}
