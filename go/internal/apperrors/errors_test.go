package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf_WrappedSentinel(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("draft %s: %w", "abc", ErrInvalidState)
	assert.Equal(t, CodeInvalidState, CodeOf(err))

	twice := fmt.Errorf("outer: %w", err)
	assert.Equal(t, CodeInvalidState, CodeOf(twice))
}

func TestCodeOf_PlainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Code(""), CodeOf(errors.New("rounds must be greater than 0")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestIs_MatchesByCode(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("prospect taken: %w", ErrAlreadyDrafted)
	assert.ErrorIs(t, wrapped, ErrAlreadyDrafted)
	assert.NotErrorIs(t, wrapped, ErrNotYourTurn)

	// Two distinct values with the same code still match.
	custom := &Error{Code: CodeAlreadyDrafted, Message: "different wording"}
	assert.ErrorIs(t, custom, ErrAlreadyDrafted)
}
