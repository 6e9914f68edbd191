package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	dErrors "contactledger/pkg/domain-errors"
)

// TestParseExternalID_Invariants validates the parsing invariant:
// "external identifiers must be valid, non-nil UUIDs"
func TestParseExternalID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseExternalID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedIdentity))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseExternalID("uuid-1")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedIdentity))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseExternalID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedIdentity))
	})

	t.Run("canonicalises case", func(t *testing.T) {
		u := uuid.New()
		ext, err := ParseExternalID(strings.ToUpper(u.String()))
		require.NoError(t, err)
		assert.Equal(t, ExternalID(u.String()), ext)
	})
}

func TestDeriveIdentity(t *testing.T) {
	u := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

	t.Run("hashes the raw UUID bytes", func(t *testing.T) {
		id, err := DeriveIdentity(u.String())
		require.NoError(t, err)
		assert.Equal(t, Identity(blake2b.Sum256(u[:])), id)
	})

	t.Run("is deterministic across text forms", func(t *testing.T) {
		a, err := DeriveIdentity(u.String())
		require.NoError(t, err)
		b, err := DeriveIdentity(strings.ToUpper(u.String()))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("different ids derive different identities", func(t *testing.T) {
		a, err := DeriveIdentity(uuid.NewString())
		require.NoError(t, err)
		b, err := DeriveIdentity(uuid.NewString())
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("malformed input fails", func(t *testing.T) {
		_, err := DeriveIdentity("not-a-uuid")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedIdentity))
	})
}

func TestParseIdentity(t *testing.T) {
	id, err := DeriveIdentity(uuid.NewString())
	require.NoError(t, err)

	t.Run("round-trips hex", func(t *testing.T) {
		parsed, err := ParseIdentity(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("accepts 0x prefix", func(t *testing.T) {
		parsed, err := ParseIdentity("0x" + id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("rejects short and zero input", func(t *testing.T) {
		_, err := ParseIdentity("abcd")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedIdentity))
		_, err = ParseIdentity(Identity{}.String())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedIdentity))
	})

	t.Run("json uses hex text", func(t *testing.T) {
		raw, err := json.Marshal(struct {
			ID Identity `json:"id"`
		}{ID: id})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"`+id.String()+`"}`, string(raw))
	})
}

func TestFlagType(t *testing.T) {
	assert.True(t, FlagPositive.Exposes())
	assert.True(t, FlagSuspicious.Exposes())
	assert.False(t, FlagNegative.Exposes())

	_, err := ParseFlagType("contagious")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	f, err := ParseFlagType("suspicious")
	require.NoError(t, err)
	assert.Equal(t, FlagSuspicious, f)
}
