package debugtrace

import "fmt"

// ShutdownWarning reports that the backend could not be drained in time.
// Spans already printed may not have reached the backend; the run itself still succeeded.
type ShutdownWarning struct {
	Err error
}

// Error implements the error interface.
func (w *ShutdownWarning) Error() string {
	return fmt.Sprintf("shutdown incomplete: %v", w.Err)
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (w *ShutdownWarning) Unwrap() error {
	return w.Err
}
