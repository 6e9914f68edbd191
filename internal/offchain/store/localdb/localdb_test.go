package localdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactledger/internal/offchain/store/lock"
	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
)

func openTestDB(t *testing.T, opts ...Option) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "ocw.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCheckpoint(t *testing.T) {
	ctx := context.Background()
	cp := openTestDB(t).Checkpoint()

	_, ok, err := cp.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cp.Commit(ctx, 5))
	require.NoError(t, cp.Commit(ctx, 3))
	got, ok, err := cp.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id.EpochNumber(5), got)

	require.NoError(t, cp.SetRaw(ctx, "garbled"))
	_, _, err = cp.Get(ctx)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeCheckpointRead))
}

func TestCheckpointSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ocw.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Checkpoint().Commit(ctx, 11))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	got, _, err := db.Checkpoint().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, id.EpochNumber(11), got)
}

func TestLocker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC)
	l := openTestDB(t, WithClock(func() time.Time { return now })).Locker()
	ttl := 3 * time.Second

	first, err := l.TryLock(ctx, lock.Name, ttl)
	require.NoError(t, err)

	_, err = l.TryLock(ctx, lock.Name, ttl)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeLockUnavailable))

	now = now.Add(ttl)
	second, err := l.TryLock(ctx, lock.Name, ttl)
	require.NoError(t, err)

	require.NoError(t, l.Release(ctx, first))
	_, err = l.TryLock(ctx, lock.Name, ttl)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeLockUnavailable), "stale release must not free the new lease")

	require.NoError(t, l.Release(ctx, second))
	_, err = l.TryLock(ctx, lock.Name, ttl)
	assert.NoError(t, err)
}
