package dataset

import "fmt"

// LoadError reports a project description that could not be read or parsed.
// Loading is all-or-nothing: a LoadError means no dataset exists and the whole
// batch that needed it cannot proceed.
type LoadError struct {
	// Source identifies the description that failed (path or fs entry name).
	Source string
	// Err is the underlying IO or parse failure.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("dataset: load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError wraps an underlying failure with the source identifier.
func NewLoadError(source string, err error) *LoadError {
	return &LoadError{Source: source, Err: err}
}
