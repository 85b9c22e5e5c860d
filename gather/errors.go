package gather

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is matched by every *NotReadyError.
	ErrNotReady = errors.New("gather: not parsed")
	// ErrMalformedSource is matched by every *MalformedSourceError.
	ErrMalformedSource = errors.New("gather: malformed source")
)

// NotReadyError reports an accessor called before Parse.
type NotReadyError struct {
	Document  string
	Operation string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("%s: %s called before Parse", e.Document, e.Operation)
}

// Is makes errors.Is(err, ErrNotReady) work.
func (e *NotReadyError) Is(target error) bool { return target == ErrNotReady }

// MalformedSourceError reports a structural precondition of a format that
// does not hold, such as a section without BEGIN.
type MalformedSourceError struct {
	Document string
	// Offset is the byte offset the problem was found at.
	Offset int
	Reason string
}

func (e *MalformedSourceError) Error() string {
	return fmt.Sprintf("%s: malformed source at offset %d: %s", e.Document, e.Offset, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedSource) work.
func (e *MalformedSourceError) Is(target error) bool { return target == ErrMalformedSource }
