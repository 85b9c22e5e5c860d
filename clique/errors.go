package clique

import (
	"errors"
	"fmt"
)

// ErrNoTranslation is matched by every *NoTranslationError.
var ErrNoTranslation = errors.New("clique: no translation")

// NoTranslationError reports a language that has no translation for a
// clique and may not fall back to the source content.
type NoTranslationError struct {
	Fingerprint int64
	ID          string
	Language    string
}

func (e *NoTranslationError) Error() string {
	return fmt.Sprintf("message %s has no %s translation and may not fall back", e.ID, e.Language)
}

// Is makes errors.Is(err, ErrNoTranslation) work.
func (e *NoTranslationError) Is(target error) bool { return target == ErrNoTranslation }
