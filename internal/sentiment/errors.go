package sentiment

import (
	"errors"
	"fmt"
)

const MISSING_REVIEW_TEXT_MESSAGE = "Missing 'review_text' in request body"

// ValidationError means the request never reached the analyzer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AnalysisError wraps anything that went wrong while normalizing or scoring.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	if e.Err == nil {
		return "unknown analysis failure"
	}
	return e.Err.Error()
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

var ErrMissingReviewText = &ValidationError{Message: MISSING_REVIEW_TEXT_MESSAGE}

func newAnalysisError(format string, args ...any) *AnalysisError {
	return &AnalysisError{Err: fmt.Errorf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAnalysisError(err error) bool {
	var ae *AnalysisError
	return errors.As(err, &ae)
}
