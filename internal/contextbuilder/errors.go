package contextbuilder

import (
	"errors"
	"fmt"
)

// NotFoundError reports that the requested chapter id does not resolve.
// It is the only error the builder raises on its own; repository failures
// propagate unchanged.
type NotFoundError struct {
	ChapterID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("chapter %q not found", e.ChapterID)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
