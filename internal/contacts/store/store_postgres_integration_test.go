//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"contactledger/internal/contacts/store"
	id "contactledger/pkg/domain"
	"contactledger/pkg/platform/sentinel"
	"contactledger/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "contacts"))
}

func (s *PostgresStoreSuite) identity() id.Identity {
	return id.ExternalID(uuid.NewString()).Identity()
}

func (s *PostgresStoreSuite) TestInsertGetList() {
	ctx := context.Background()
	a, b, c := s.identity(), s.identity(), s.identity()
	when := time.Now().UTC().Truncate(time.Microsecond)

	_, err := s.store.Insert(ctx, a, b, when)
	s.Require().NoError(err)
	_, err = s.store.Insert(ctx, a, c, when.Add(time.Second))
	s.Require().NoError(err)

	got, err := s.store.Get(ctx, a, b)
	s.Require().NoError(err)
	s.True(when.Equal(got.Timestamp))

	_, err = s.store.Get(ctx, b, a)
	s.ErrorIs(err, sentinel.ErrNotFound)

	list, err := s.store.ListByID(ctx, a)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(b, list[0].ContactID)
	s.Equal(c, list[1].ContactID)
}

func (s *PostgresStoreSuite) TestUpsertKeepsOneRow() {
	ctx := context.Background()
	a, b := s.identity(), s.identity()
	when := time.Now().UTC().Truncate(time.Microsecond)

	_, err := s.store.Insert(ctx, a, b, when)
	s.Require().NoError(err)
	_, err = s.store.Insert(ctx, a, b, when.Add(time.Minute))
	s.Require().NoError(err)

	list, err := s.store.ListByID(ctx, a)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.True(when.Add(time.Minute).Equal(list[0].Timestamp))
}
