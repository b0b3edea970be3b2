// internal/domain/topic/errors.go

package topic

import (
	"errors"
	"fmt"
)

// Sentinel errors for the resolution cascade. Tier-internal errors cause
// fallthrough to the next tier; only validation errors reach the caller.
var (
	// ErrArtifactNotFound means a tier's backing artifact does not exist.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrAllTiersExhausted means every configured tier failed, including the
	// synthetic floor. This indicates a configuration bug, not a data miss.
	ErrAllTiersExhausted = errors.New("all resolution tiers exhausted")
)

// ValidationError reports bad caller input. It is the only error surfaced
// to API clients as a failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a request field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a caller input error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ArtifactParseError reports an artifact that exists but cannot be decoded.
type ArtifactParseError struct {
	Path string
	Err  error
}

func (e *ArtifactParseError) Error() string {
	return fmt.Sprintf("parsing artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactParseError) Unwrap() error { return e.Err }
