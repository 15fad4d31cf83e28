package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrIncomplete is returned when a session is finalized before reaching the end
// of the catalog.
var ErrIncomplete = errors.New("session is not complete")

// ValidationError reports raw input that failed coercion for the active question.
// It is recoverable: the session stays on the same question and nothing is written.
type ValidationError struct {
	QuestionID string
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid answer for %s: %s", e.QuestionID, e.Reason)
}

// SubmissionError reports that the sink rejected the record or could not be
// reached. Finalize may be called again; the answers are untouched.
type SubmissionError struct {
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("submission failed: %s", e.Reason)
	}
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// ProgrammerError signals a caller or integration bug, such as a catalog lookup
// beyond the last position. It is raised with panic and never shown to respondents.
type ProgrammerError struct {
	Op     string
	Detail string
}

func (e *ProgrammerError) Error() string {
	return fmt.Sprintf("canvass: %s: %s", e.Op, e.Detail)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsSubmission reports whether err is (or wraps) a SubmissionError.
func IsSubmission(err error) bool {
	var s *SubmissionError
	return errors.As(err, &s)
}

// ErrSessionComplete is returned when an answer is submitted after the last question.
var ErrSessionComplete = errors.New("session is already complete")
