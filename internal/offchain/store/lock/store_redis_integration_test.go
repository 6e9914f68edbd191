//go:build integration

package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"contactledger/internal/offchain/store/lock"
	dErrors "contactledger/pkg/domain-errors"
	"contactledger/pkg/testutil/containers"
)

type RedisLockSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	locker *lock.RedisLocker
}

func TestRedisLockSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLockSuite))
}

func (s *RedisLockSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.locker = lock.NewRedis(s.redis.Client)
}

func (s *RedisLockSuite) SetupTest() {
	s.Require().NoError(s.redis.Reset(context.Background()))
}

func (s *RedisLockSuite) TestExclusiveUntilReleased() {
	ctx := context.Background()
	lease, err := s.locker.TryLock(ctx, lock.Name, 3*time.Second)
	s.Require().NoError(err)

	_, err = s.locker.TryLock(ctx, lock.Name, 3*time.Second)
	s.True(dErrors.HasCode(err, dErrors.CodeLockUnavailable))

	s.Require().NoError(s.locker.Release(ctx, lease))
	again, err := s.locker.TryLock(ctx, lock.Name, 3*time.Second)
	s.Require().NoError(err)
	s.Require().NoError(s.locker.Release(ctx, again))
}

func (s *RedisLockSuite) TestLeaseExpires() {
	ctx := context.Background()
	stale, err := s.locker.TryLock(ctx, lock.Name, 100*time.Millisecond)
	s.Require().NoError(err)

	s.Eventually(func() bool {
		_, err := s.locker.TryLock(ctx, lock.Name, 3*time.Second)
		return err == nil
	}, 2*time.Second, 50*time.Millisecond)

	// stale holder cannot release the new lease
	s.Require().NoError(s.locker.Release(ctx, stale))
	_, err = s.locker.TryLock(ctx, lock.Name, 3*time.Second)
	s.True(dErrors.HasCode(err, dErrors.CodeLockUnavailable))
}
