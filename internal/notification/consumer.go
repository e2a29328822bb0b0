package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/IBM/sarama"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/notification/email"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/kafka"
	outboxUtils "github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/outbox/utils"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Consumer drains the order_events topic and emails customers about their
// orders. Delivery is at-least-once, so each event id is claimed in
// processed_events before the send; a redelivered message is skipped. The
// SMTP hop sits behind a circuit breaker so a dead mail relay does not keep
// the consumer group busy retrying.
type Consumer struct {
	pool   *pgxpool.Pool
	sender email.Sender
	logger *zap.Logger
	topic  string
	group  string
	cb     *gobreaker.CircuitBreaker
}

func NewConsumer(pool *pgxpool.Pool, sender email.Sender, logger *zap.Logger, topic, group string) *Consumer {
	settings := gobreaker.Settings{
		Name:        "SMTPSender",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(
				"Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Consumer{
		pool:   pool,
		sender: sender,
		logger: logger,
		topic:  topic,
		group:  group,
		cb:     gobreaker.NewCircuitBreaker(settings),
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string) {
	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		c.group,
		[]string{c.topic},
		c.processMessage,
		c.logger,
	)

	consumerGroup.Run(ctx)
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	applog.Info(
		ctx,
		c.logger,
		"Processing message",
		zap.String("topic", msg.Topic),
	)

	type EventWrapper struct {
		EventID int64           `json:"event_id"`
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}

	var wrapper EventWrapper
	if err := json.Unmarshal(msg.Value, &wrapper); err != nil {
		applog.Error(ctx, c.logger, "Error unmarshalling wrapper", zap.Error(err))
		return err
	}

	switch wrapper.Event {
	case "OrderCreated":
		var event domain.OrderCreatedEvent
		if err := json.Unmarshal(wrapper.Payload, &event); err != nil {
			applog.Error(ctx, c.logger, "Error parsing OrderCreated event", zap.Error(err))
			// malformed payloads never become parseable, drop them
			return nil
		}

		return outboxUtils.ProcessWithDeduplication(ctx, c.pool, c.logger, wrapper.EventID, func() error {
			return c.sendWithBreaker(ctx, func() error {
				return c.sender.SendOrderConfirmation(ctx, event.UserEmail, event.Reference, event.Total)
			})
		})
	case "OrderStatusChanged":
		var event domain.OrderStatusChangedEvent
		if err := json.Unmarshal(wrapper.Payload, &event); err != nil {
			applog.Error(ctx, c.logger, "Error parsing OrderStatusChanged event", zap.Error(err))
			return nil
		}

		return outboxUtils.ProcessWithDeduplication(ctx, c.pool, c.logger, wrapper.EventID, func() error {
			return c.sendWithBreaker(ctx, func() error {
				return c.sender.SendStatusUpdate(ctx, event.UserEmail, event.Reference, event.Status)
			})
		})
	default:
		applog.Debug(
			ctx,
			c.logger,
			"Ignored event type",
			zap.String("event", wrapper.Event),
		)
	}

	return nil
}

func (c *Consumer) sendWithBreaker(ctx context.Context, send func() error) error {
	_, err := utils.ExecuteWithBreaker(c.cb, func() (struct{}, error) {
		return struct{}{}, send()
	})
	if errors.Is(err, gobreaker.ErrOpenState) {
		applog.Warn(ctx, c.logger, "Email breaker open, dropping notification")
		return nil
	}

	return err
}
