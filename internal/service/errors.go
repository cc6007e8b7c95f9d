package service

import (
	"errors"
	"fmt"
)

type ErrorType int

const (
	ErrInvalidURL ErrorType = iota
	ErrNoTranscript
	ErrEmptyTranscript
	ErrFetch
	ErrTranslation
	ErrUnknown
)

func (t ErrorType) String() string {
	switch t {
	case ErrInvalidURL:
		return "InvalidURL"
	case ErrNoTranscript:
		return "NoTranscript"
	case ErrEmptyTranscript:
		return "EmptyTranscript"
	case ErrFetch:
		return "Fetch"
	case ErrTranslation:
		return "Translation"
	default:
		return "Unknown"
	}
}

// PipelineError is the typed error crossing pipeline stage boundaries.
// The orchestrator converts it into a failure Result; it never escapes
// the service as a panic.
type PipelineError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func NewError(errorType ErrorType, message string) *PipelineError {
	return &PipelineError{
		Type:    errorType,
		Message: message,
	}
}

func WrapError(err error, errorType ErrorType, message string) *PipelineError {
	return &PipelineError{
		Type:    errorType,
		Message: message,
		Cause:   err,
	}
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type.String(), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// IsErrorType reports whether err wraps a PipelineError of the given type.
func IsErrorType(err error, errorType ErrorType) bool {
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr.Type == errorType
	}
	return false
}

// SafeExecute runs fn and converts a panic into an Unknown error, so no
// exception ever crosses the orchestrator boundary.
func SafeExecute(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewError(ErrUnknown, fmt.Sprintf("runtime error: %v", r))
		}
	}()

	return fn()
}
