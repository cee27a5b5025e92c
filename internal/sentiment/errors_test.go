package sentiment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	assert.True(t, IsValidationError(ErrMissingReviewText))
	assert.False(t, IsAnalysisError(ErrMissingReviewText))
	assert.Equal(t, "Missing 'review_text' in request body", ErrMissingReviewText.Error())

	cause := errors.New("boom")
	wrapped := fmt.Errorf("scoring: %w", &AnalysisError{Err: cause})
	assert.True(t, IsAnalysisError(wrapped))
	assert.False(t, IsValidationError(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "scoring: boom", wrapped.Error())
}

func TestAnalysisErrorWithoutCause(t *testing.T) {
	assert.Equal(t, "unknown analysis failure", (&AnalysisError{}).Error())
}
