package types

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced across package boundaries. Callers match
// with errors.Is.
var (
	// ErrNotFound is returned when a lookup targets a missing artifact.
	ErrNotFound = errors.New("artifact not found")
	// ErrReferenceNotFound is returned when an edge endpoint is absent.
	ErrReferenceNotFound = errors.New("relationship endpoint not found")
	// ErrCyclicDependency is returned when an edge would close a cycle
	// in a dependency chain.
	ErrCyclicDependency = errors.New("edge would create a dependency cycle")
	// ErrSynthesisTimeout is returned when the synthesis capability
	// exceeds its deadline.
	ErrSynthesisTimeout = errors.New("synthesis timed out")
	// ErrSynthesisUnavailable is returned when the synthesis capability
	// fails for reasons other than a deadline.
	ErrSynthesisUnavailable = errors.New("synthesis unavailable")
)

// ValidationError reports malformed ingestion or extraction input. The
// offending record is rejected; the graph is never partially mutated by
// an invalid record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
