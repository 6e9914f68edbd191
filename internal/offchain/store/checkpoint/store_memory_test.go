package checkpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
)

func TestInMemory_AbsentThenCommitted(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	_, ok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Commit(ctx, 5))
	got, ok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id.EpochNumber(5), got)
}

func TestInMemory_CommitIsMonotonic(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	for _, e := range []id.EpochNumber{3, 7, 4, 7, 2} {
		require.NoError(t, s.Commit(ctx, e))
	}
	got, _, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, id.EpochNumber(7), got)
}

func TestInMemory_CorruptValue(t *testing.T) {
	s := NewInMemory()
	s.SetRaw("\x01\x02garbage")
	_, _, err := s.Get(context.Background())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeCheckpointRead))
}

func TestDecode(t *testing.T) {
	e, err := Decode(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, id.EpochNumber(42), e)

	_, err = Decode("-1")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeCheckpointRead))
	assert.Equal(t, "18446744073709551615", Encode(id.EpochNumber(^uint64(0))))
}
