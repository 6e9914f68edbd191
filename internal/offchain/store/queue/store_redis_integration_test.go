//go:build integration

package queue_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"contactledger/internal/offchain/models"
	"contactledger/internal/offchain/store/queue"
	"contactledger/internal/platform/logger"
	"contactledger/pkg/testutil/containers"
)

type RedisQueueSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	queue *queue.RedisQueue
}

func TestRedisQueueSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisQueueSuite))
}

func (s *RedisQueueSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.queue = queue.NewRedis(s.redis.Client)
}

func (s *RedisQueueSuite) SetupTest() {
	s.Require().NoError(s.redis.Reset(context.Background()))
}

func (s *RedisQueueSuite) TestDrainAckCycle() {
	ctx := context.Background()
	s.Require().NoError(s.queue.Enqueue(ctx, models.AddToUUIDPool("uuid-1")))
	s.Require().NoError(s.queue.Enqueue(ctx, models.AddToUUIDPool("uuid-2")))

	batch, err := s.queue.DrainAll(ctx)
	s.Require().NoError(err)
	s.Equal([]models.Request{models.AddToUUIDPool("uuid-1"), models.AddToUUIDPool("uuid-2")}, batch.Requests)

	pending, inflight, err := s.queue.Len(ctx)
	s.Require().NoError(err)
	s.Zero(pending)
	s.Equal(2, inflight)

	s.Require().NoError(s.queue.Ack(ctx, batch))
	empty, err := s.queue.DrainAll(ctx)
	s.Require().NoError(err)
	s.True(empty.Empty())
}

func (s *RedisQueueSuite) TestRedeliveryAndStaleAck() {
	ctx := context.Background()
	s.Require().NoError(s.queue.Enqueue(ctx, models.AddToUUIDPool("a")))
	first, err := s.queue.DrainAll(ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.queue.Enqueue(ctx, models.AddToUUIDPool("b")))
	second, err := s.queue.DrainAll(ctx)
	s.Require().NoError(err)
	s.Equal([]models.Request{models.AddToUUIDPool("a"), models.AddToUUIDPool("b")}, second.Requests)

	s.ErrorIs(s.queue.Ack(ctx, first), queue.ErrBatchSuperseded)
	s.Require().NoError(s.queue.Ack(ctx, second))
}

func (s *RedisQueueSuite) TestUndecodableEntryIsDeadLettered() {
	ctx := context.Background()
	q := queue.NewRedis(s.redis.Client, queue.WithLogger(logger.Discard()))
	s.Require().NoError(q.Enqueue(ctx, models.AddToUUIDPool("a")))
	s.Require().NoError(s.redis.Client.RPush(ctx, queue.PendingKey, "{not json").Err())
	s.Require().NoError(q.Enqueue(ctx, models.AddToUUIDPool("b")))

	batch, err := q.DrainAll(ctx)
	s.Require().NoError(err)
	s.Equal([]models.Request{models.AddToUUIDPool("a"), models.AddToUUIDPool("b")}, batch.Requests)

	dead, err := s.redis.List(ctx, queue.DeadKey)
	s.Require().NoError(err)
	s.Equal([]string{"{not json"}, dead)

	_, inflight, err := q.Len(ctx)
	s.Require().NoError(err)
	s.Equal(2, inflight)

	s.Require().NoError(q.Ack(ctx, batch))
	again, err := q.DrainAll(ctx)
	s.Require().NoError(err)
	s.True(again.Empty())
}
