package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldError struct {
	Field string
}

func (e *fieldError) Error() string { return e.Field + " is invalid" }

func TestNew(t *testing.T) {
	err := New("card sealing failed")

	require.Error(t, err)
	assert.Equal(t, "card sealing failed", err.Error())
	assert.False(t, Is(err, ErrInvalidInput))
}

func TestWrap(t *testing.T) {
	t.Run("keeps the sentinel in the chain", func(t *testing.T) {
		cardNotFound := Wrap(ErrNotFound, "card not found")

		assert.Equal(t, "card not found: not found", cardNotFound.Error())
		assert.True(t, Is(cardNotFound, ErrNotFound))
	})

	t.Run("wrapping twice still matches", func(t *testing.T) {
		err := Wrap(Wrap(ErrConflict, "email already registered"), "sign up")

		assert.Equal(t, "sign up: email already registered: conflict", err.Error())
		assert.True(t, Is(err, ErrConflict))
		assert.False(t, Is(err, ErrNotFound))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "card not found"))
	})
}

func TestWrapf(t *testing.T) {
	t.Run("formats the message", func(t *testing.T) {
		err := Wrapf(ErrInvalidInput, "batch size %d", 0)

		assert.Equal(t, "batch size 0: invalid input", err.Error())
		assert.True(t, Is(err, ErrInvalidInput))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrapf(nil, "batch size %d", 0))
	})
}

func TestAs(t *testing.T) {
	err := Wrap(&fieldError{Field: "phoneNumber"}, "create card")

	var target *fieldError
	require.True(t, As(err, &target))
	assert.Equal(t, "phoneNumber", target.Field)

	var other *fieldError
	assert.False(t, As(ErrForbidden, &other))
}

func TestSentinels(t *testing.T) {
	sentinels := map[error]string{
		ErrNotFound:     "not found",
		ErrConflict:     "conflict",
		ErrInvalidInput: "invalid input",
		ErrUnauthorized: "unauthorized",
		ErrForbidden:    "forbidden",
	}

	for err, text := range sentinels {
		assert.Equal(t, text, err.Error())
		for other := range sentinels {
			if other != err {
				assert.False(t, errors.Is(err, other), "%q must not match %q", err, other)
			}
		}
	}
}
