package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/tokenvault/internal/errors"
)

func TestAction_Valid(t *testing.T) {
	for _, action := range Actions {
		assert.True(t, action.Valid(), action)
	}
	assert.False(t, Action("delete").Valid())
	assert.False(t, Action("").Valid())
}

func TestValidateDetails(t *testing.T) {
	assert.NoError(t, ValidateDetails(nil))
	assert.NoError(t, ValidateDetails(map[string]any{DetailToken: "abc", DetailKeyGeneration: 1}))

	for _, key := range []string{"plaintext", "data", "fields", "value", "envelope"} {
		err := ValidateDetails(map[string]any{key: "x"})
		assert.ErrorIs(t, err, ErrForbiddenDetail, key)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	}
}

func TestEvent_IsSigned(t *testing.T) {
	assert.False(t, (&Event{}).IsSigned())
	assert.True(t, (&Event{Signature: []byte{1}}).IsSigned())
}
