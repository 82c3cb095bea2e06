package rawstore

import (
	"errors"
	"fmt"
)

// StructuralError marks the raw store itself as unreadable or corrupt.
// It is the only fatal error kind in the pipeline: row-level problems
// are skipped and reported, a structural failure aborts the run.
type StructuralError struct {
	Op  string
	Err error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("raw store: %s: %v", e.Op, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// IsStructural reports whether err wraps a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
