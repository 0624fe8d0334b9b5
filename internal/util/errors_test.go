package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("load quiz 3: %w", ErrQuizNotFound)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))

	limit := fmt.Errorf("start attempt: %w", ErrAttemptLimitReached)
	assert.True(t, IsValidation(limit))
	assert.False(t, IsNotFound(limit))

	assert.False(t, IsNotFound(errors.New("boom")))
	assert.False(t, IsValidation(errors.New("boom")))
}
