//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"contactledger/internal/identity"
	"contactledger/internal/identity/store"
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
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "identities"))
}

func (s *PostgresStoreSuite) newRecord() *identity.Record {
	ext := id.ExternalID(uuid.NewString())
	return &identity.Record{
		ExternalID: ext,
		Identity:   ext.Identity(),
		Owner:      "acct-1",
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	rec := s.newRecord()
	s.Require().NoError(s.store.Create(ctx, rec))

	byExt, err := s.store.FindByExternal(ctx, rec.ExternalID)
	s.Require().NoError(err)
	s.Equal(rec.Identity, byExt.Identity)
	s.Equal(rec.Owner, byExt.Owner)

	byID, err := s.store.FindByIdentity(ctx, rec.Identity)
	s.Require().NoError(err)
	s.Equal(rec.ExternalID, byID.ExternalID)
}

func (s *PostgresStoreSuite) TestDuplicateIsConflict() {
	ctx := context.Background()
	rec := s.newRecord()
	s.Require().NoError(s.store.Create(ctx, rec))
	s.ErrorIs(s.store.Create(ctx, rec), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestMissingIsNotFound() {
	ctx := context.Background()
	_, err := s.store.FindByExternal(ctx, id.ExternalID(uuid.NewString()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}
