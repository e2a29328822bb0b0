package tests

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/notification"
	outboxUtils "github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/outbox/utils"
)

func (s *IntegrationTestSuite) TestDeduplication_SecondDeliverySkipped() {
	calls := 0

	err := outboxUtils.ProcessWithDeduplication(s.Ctx, s.DbPool, zap.NewNop(), 4242, func() error {
		calls++
		return nil
	})
	s.Require().NoError(err)
	s.Require().Equal(1, calls)

	// kafka redelivers after a rebalance; the side effect must not repeat
	err = outboxUtils.ProcessWithDeduplication(s.Ctx, s.DbPool, zap.NewNop(), 4242, func() error {
		calls++
		return nil
	})
	s.Require().NoError(err)
	s.Require().Equal(1, calls)

	err = outboxUtils.ProcessWithDeduplication(s.Ctx, s.DbPool, zap.NewNop(), 4243, func() error {
		calls++
		return nil
	})
	s.Require().NoError(err)
	s.Require().Equal(2, calls)
}

func (s *IntegrationTestSuite) TestDeduplication_FailedSendReleasesClaim() {
	attempts := 0

	err := outboxUtils.ProcessWithDeduplication(s.Ctx, s.DbPool, zap.NewNop(), 5151, func() error {
		attempts++
		return errors.New("relay down")
	})
	s.Require().Error(err)
	s.Require().Equal(3, attempts, "the send is retried before giving up")

	// the claim rolled back with the transaction, so the redelivery sends
	sent := 0
	err = outboxUtils.ProcessWithDeduplication(s.Ctx, s.DbPool, zap.NewNop(), 5151, func() error {
		sent++
		return nil
	})
	s.Require().NoError(err)
	s.Require().Equal(1, sent)
}

type countingSender struct {
	mu            sync.Mutex
	confirmations int
	updates       int
}

func (c *countingSender) SendOrderConfirmation(_ context.Context, _, _ string, _ float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmations++
	return nil
}

func (c *countingSender) SendStatusUpdate(_ context.Context, _, _, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates++
	return nil
}

func (c *countingSender) sent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmations
}

func (s *IntegrationTestSuite) TestNotificationConsumer_DuplicateEventSendsOneEmail() {
	sender := &countingSender{}
	consumer := notification.NewConsumer(s.DbPool, sender, zap.NewNop(), "order_events_dup", "notification_dup_test")

	consumerCtx, cancel := context.WithCancel(s.Ctx)
	defer cancel()
	go consumer.Start(consumerCtx, s.KafkaBrokers)

	envelope := map[string]any{
		"event_id": int64(9001),
		"event":    "OrderCreated",
		"payload": map[string]any{
			"order_id":   int64(1),
			"reference":  "10000001",
			"user_email": "priya@example.com",
			"total":      38.30,
		},
	}

	// the same outbox row delivered twice, as after a worker crash between
	// produce and mark-published
	s.Require().NoError(s.TestProducer.ProduceMessage(s.Ctx, "order_events_dup", envelope))
	s.Require().NoError(s.TestProducer.ProduceMessage(s.Ctx, "order_events_dup", envelope))

	s.Require().Eventually(func() bool {
		return sender.sent() == 1
	}, 15*time.Second, 100*time.Millisecond)

	// both copies consumed, still one email
	time.Sleep(2 * time.Second)
	s.Require().Equal(1, sender.sent())
}
