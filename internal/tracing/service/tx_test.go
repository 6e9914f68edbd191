package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "contactledger/pkg/domain-errors"
)

func TestShardedTx(t *testing.T) {
	t.Run("serialises work on the same key", func(t *testing.T) {
		tx := NewShardedTx()
		ctx := WithTxKey(context.Background(), "identity-1")

		counter := 0
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = tx.RunInTx(ctx, func(context.Context) error {
					v := counter
					counter = v + 1
					return nil
				})
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, counter)
	})

	t.Run("cancelled context never runs fn", func(t *testing.T) {
		tx := NewShardedTx()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ran := false
		err := tx.RunInTx(ctx, func(context.Context) error {
			ran = true
			return nil
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
		assert.False(t, ran)
	})

	t.Run("fn receives a deadline", func(t *testing.T) {
		tx := NewShardedTx()
		err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("fn error is returned unchanged", func(t *testing.T) {
		tx := NewShardedTx()
		want := dErrors.New(dErrors.CodeInternal, "boom")
		err := tx.RunInTx(context.Background(), func(context.Context) error { return want })
		assert.Equal(t, want, err)
	})
}
