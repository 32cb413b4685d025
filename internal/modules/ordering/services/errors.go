package services

import (
	"errors"
	"fmt"
)

// ValidationError is bad user input. The machine re-prompts with Prompt and
// the step does not move.
type ValidationError struct {
	Prompt string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Prompt
}

func reprompt(format string, args ...interface{}) error {
	return &ValidationError{Prompt: fmt.Sprintf(format, args...)}
}

// LookupFailure is a store read that failed or timed out. Callers continue
// without the data.
type LookupFailure struct {
	Op  string
	Err error
}

func (e *LookupFailure) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Op, e.Err)
}

func (e *LookupFailure) Unwrap() error {
	return e.Err
}

// PersistenceFailure is a failed write during finalization
type PersistenceFailure struct {
	Op  string
	Err error
}

func (e *PersistenceFailure) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceFailure) Unwrap() error {
	return e.Err
}

// ErrInvalidPayload is returned by the status service for requests missing
// required fields
var ErrInvalidPayload = errors.New("invalid payload")

var (
	errNoMediaFetcher = errors.New("media download not configured")
	errNoProofStore   = errors.New("proof storage not configured")
)

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
