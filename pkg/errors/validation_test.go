package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorWrapping(t *testing.T) {
	cause := errors.New("must be positive")
	err := fmt.Errorf("building framer: %w", NewValidationError("chunk_size", 0, cause))

	require.True(t, IsValidationError(err))

	ve := AsValidationError(err)
	require.NotNil(t, ve)
	assert.Equal(t, "chunk_size", ve.Field)
	assert.Equal(t, 0, ve.Value)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "invalid chunk_size: must be positive", ve.Error())
}

func TestAsValidationErrorMiss(t *testing.T) {
	err := errors.New("plain")
	assert.False(t, IsValidationError(err))
	assert.Nil(t, AsValidationError(err))
	assert.Equal(t, "invalid level", NewValidationError("level", 3, nil).Error())
}
