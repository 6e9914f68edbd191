package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches wrapped coded error", func(t *testing.T) {
		err := fmt.Errorf("add contact: %w", New(CodeInvalidIdentity, "unknown id"))
		assert.True(t, HasCode(err, CodeInvalidIdentity))
		assert.False(t, HasCode(err, CodeMalformedIdentity))
	})

	t.Run("walks nested codes", func(t *testing.T) {
		inner := New(CodeCheckpointRead, "corrupt checkpoint")
		outer := Wrap(inner, CodeInternal, "processing pass failed")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeCheckpointRead))
		assert.Equal(t, CodeInternal, CodeOf(outer))
	})

	t.Run("plain errors have no code", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})
}

func TestWrap(t *testing.T) {
	cause := errors.New("redis down")
	err := Wrap(cause, CodeLockUnavailable, "lock is already acquired")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "lock is already acquired: redis down", err.Error())
	assert.NoError(t, Wrap(nil, CodeInternal, "nothing"))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeMalformedIdentity:        http.StatusBadRequest,
		CodeInvalidIdentity:          http.StatusUnprocessableEntity,
		CodeIdentityResolutionFailed: http.StatusUnprocessableEntity,
		CodeNotOwner:                 http.StatusForbidden,
		CodeUnauthorized:             http.StatusUnauthorized,
		CodeRateLimited:              http.StatusTooManyRequests,
		CodeInternal:                 http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), string(code))
	}
}
