package message

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPlaceholderMismatch is matched by every *PlaceholderMismatchError.
var ErrPlaceholderMismatch = errors.New("message: placeholder mismatch")

// PlaceholderMismatchError reports a translation whose placeholder set
// differs from its source message.
type PlaceholderMismatchError struct {
	MessageID string
	Language  string
	// Missing are source placeholders absent from the translation.
	Missing []string
	// Duplicated are placeholders used more than once.
	Duplicated []string
	// Unknown are placeholders the source message does not have.
	Unknown []string
}

func (e *PlaceholderMismatchError) Error() string {
	var problems []string
	if len(e.Missing) > 0 {
		problems = append(problems, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Duplicated) > 0 {
		problems = append(problems, "duplicated "+strings.Join(e.Duplicated, ", "))
	}
	if len(e.Unknown) > 0 {
		problems = append(problems, "unknown "+strings.Join(e.Unknown, ", "))
	}
	return fmt.Sprintf("message %s: %s translation has mismatched placeholders: %s",
		e.MessageID, e.Language, strings.Join(problems, "; "))
}

// Is makes errors.Is(err, ErrPlaceholderMismatch) work.
func (e *PlaceholderMismatchError) Is(target error) bool {
	return target == ErrPlaceholderMismatch
}
