package otel

import "fmt"

// BackendInitError reports that the selected exporter could not be constructed.
// It is fatal: the caller is expected to abort without retrying.
type BackendInitError struct {
	Exporter Exporter // Exporter that failed
	Err      error    // Underlying error
}

// Error implements the error interface.
func (e *BackendInitError) Error() string {
	return fmt.Sprintf("failed to create %s exporter: %v", e.Exporter, e.Err)
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *BackendInitError) Unwrap() error {
	return e.Err
}
