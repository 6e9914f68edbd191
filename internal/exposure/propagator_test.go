package exposure_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactledger/internal/contacts"
	contactstore "contactledger/internal/contacts/store"
	"contactledger/internal/exposure"
	exposurestore "contactledger/internal/exposure/store"
	id "contactledger/pkg/domain"
	"contactledger/pkg/testutil"
)

func newIdentity() id.Identity {
	return id.ExternalID(uuid.NewString()).Identity()
}

type failingLister struct{}

func (failingLister) ListByID(context.Context, id.Identity) ([]*contacts.Contact, error) {
	return nil, errors.New("graph unavailable")
}

func TestPropagate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2020, 4, 2, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	testutil.Given(t, "an identity with two reported contacts", func(t *testing.T) {
		graph := contactstore.NewInMemory()
		notices := exposurestore.NewInMemory()
		p := exposure.NewPropagator(graph, notices, exposure.WithClock(clock))

		a, b, c := newIdentity(), newIdentity(), newIdentity()
		_, err := graph.Insert(ctx, a, b, now)
		require.NoError(t, err)
		_, err = graph.Insert(ctx, a, c, now)
		require.NoError(t, err)

		testutil.When(t, "the identity is propagated", func(t *testing.T) {
			require.NoError(t, p.Propagate(ctx, a))

			testutil.Then(t, "the identity and each contact hold a notice via it", func(t *testing.T) {
				for _, subject := range []id.Identity{a, b, c} {
					got, err := p.Notices(ctx, subject)
					require.NoError(t, err)
					require.Len(t, got, 1)
					assert.Equal(t, a, got[0].Via)
					assert.Equal(t, now, got[0].NotifiedAt)
				}
			})
		})

		testutil.When(t, "the identity is propagated again", func(t *testing.T) {
			require.NoError(t, p.Propagate(ctx, a))

			testutil.Then(t, "no duplicate notices exist", func(t *testing.T) {
				got, err := p.Notices(ctx, b)
				require.NoError(t, err)
				assert.Len(t, got, 1)
			})
		})
	})

	testutil.Given(t, "an identity with no contacts", func(t *testing.T) {
		p := exposure.NewPropagator(contactstore.NewInMemory(), exposurestore.NewInMemory())
		a := newIdentity()
		require.NoError(t, p.Propagate(ctx, a))

		got, err := p.Notices(ctx, a)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	testutil.Given(t, "a failing contact graph", func(t *testing.T) {
		p := exposure.NewPropagator(failingLister{}, exposurestore.NewInMemory())
		err := p.Propagate(ctx, newIdentity())
		assert.ErrorContains(t, err, "graph unavailable")
	})
}
