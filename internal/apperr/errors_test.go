package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create collection: %w", Conflict("Collection with this name already exists"))

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Collection with this name already exists", Message(err, "fallback"))
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "fallback", Message(errors.New("boom"), "fallback"))
	assert.Equal(t, "fallback", Message(New(ErrInternal, ""), "fallback"))
}
