package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/cart"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/checkout"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/repository"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	outboxDomain "github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/outbox/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/outbox/worker"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const orderEventsTopic = "order_events"

// intentRetention bounds how long a completed checkout intent keeps
// short-circuiting resubmissions of the identical cart. Within the window a
// double submit returns the original order; past it the same cart is a
// legitimate re-order and gets a fresh one.
const intentRetention = 24 * time.Hour

type OrderService interface {
	Finalize(ctx context.Context, userID int64, userEmail string) (*domain.Order, bool, error)
	GetForUser(ctx context.Context, orderID, userID int64) (*domain.Order, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	SetStatus(ctx context.Context, callerEmail string, orderID int64, status string) (*domain.Order, error)
}

type orderService struct {
	pool       *pgxpool.Pool
	logger     *zap.Logger
	carts      *cart.Store
	stash      checkout.Stash
	orderRepo  repository.OrderRepository
	adminRepo  repository.AdminRepository
	outboxRepo worker.OutboxRepository
	tracer     trace.Tracer
}

func NewOrderService(
	pool *pgxpool.Pool,
	logger *zap.Logger,
	carts *cart.Store,
	stash checkout.Stash,
	orderRepo repository.OrderRepository,
	adminRepo repository.AdminRepository,
	outboxRepo worker.OutboxRepository,
) OrderService {
	return &orderService{
		pool:       pool,
		logger:     logger,
		carts:      carts,
		stash:      stash,
		orderRepo:  orderRepo,
		adminRepo:  adminRepo,
		outboxRepo: outboxRepo,
		tracer:     otel.Tracer("order_service"),
	}
}

// Finalize turns the stashed checkout form plus the user's cart into exactly
// one order. The boolean is true when this call created the order and false
// when an earlier submission of the same cart already had; in the latter case
// the existing order is returned unchanged. A missing form or an empty cart
// aborts before anything is written.
func (s *orderService) Finalize(ctx context.Context, userID int64, userEmail string) (*domain.Order, bool, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Finalize")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", userID))

	form, err := s.stash.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, checkout.ErrNoSession) {
			applog.Error(
				ctx,
				s.logger,
				"Failed to read checkout stash",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}

		return nil, false, err
	}

	items := s.carts.Items(userID)
	if len(items) == 0 {
		return nil, false, ErrEmptyCart
	}

	key := domain.CheckoutKey(userID, items)
	span.SetAttributes(attribute.String("intent_key", key))

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		applog.Error(ctx, s.logger, "Failed to begin transaction", zap.Error(err))

		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// a rollback here also releases the intent claim, so the user can
		// retry after a failed write
		shutdownCtx := context.WithoutCancel(ctx)

		if err := tx.Rollback(shutdownCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			applog.Warn(shutdownCtx, s.logger, "Failed to rollback transaction", zap.Error(err))
		}
	}()

	intent, claimed, err := s.orderRepo.ClaimIntent(ctx, tx, key, time.Now().Add(-intentRetention))
	if err != nil {
		return nil, false, err
	}

	if !claimed {
		if intent.Status == domain.IntentCompleted && intent.OrderID != nil {
			existing, err := s.orderRepo.GetByID(ctx, *intent.OrderID)
			if err != nil {
				return nil, false, fmt.Errorf("failed to load completed order: %w", err)
			}

			applog.Info(
				ctx,
				s.logger,
				"Duplicate checkout short-circuited",
				zap.Int64("user_id", userID),
				zap.Int64("order_id", existing.ID),
			)

			return existing, false, nil
		}

		// another submission holds the claim right now
		return nil, false, ErrCheckoutInProgress
	}

	totals := domain.Totals(items)

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, domain.OrderItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	order := &domain.Order{
		Reference: domain.NewOrderReference(),
		UserID:    userID,
		UserEmail: userEmail,
		Customer: domain.Customer{
			FirstName:    form.FirstName,
			LastName:     form.LastName,
			AddressLine1: form.AddressLine1,
			AddressLine2: form.AddressLine2,
			City:         form.City,
			Zipcode:      form.Zipcode,
			Phone:        form.Phone,
			Email:        form.Email,
		},
		Items:    orderItems,
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Total:    totals.Total,
		Status:   domain.OrderStatusPlaced,
	}

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		applog.Error(
			ctx,
			s.logger,
			"Failed to create order",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return nil, false, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.orderRepo.CompleteIntent(ctx, tx, key, order.ID); err != nil {
		return nil, false, err
	}

	err = s.emitEvent(ctx, tx, "Order", order.ID, "OrderCreated", &domain.OrderCreatedEvent{
		OrderID:   order.ID,
		Reference: order.Reference,
		UserEmail: order.UserEmail,
		Total:     order.Total,
	})
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		applog.Error(ctx, s.logger, "Failed to commit transaction", zap.Error(err))

		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// the order document is durable, the session state can go
	s.carts.Clear(userID)
	if err := s.stash.Delete(ctx, userID); err != nil {
		applog.Warn(ctx, s.logger, "Failed to delete checkout stash", zap.Error(err))
	}

	applog.Info(
		ctx,
		s.logger,
		"Order created",
		zap.Int64("order_id", order.ID),
		zap.String("reference", order.Reference),
	)

	return order, true, nil
}

// GetForUser loads an order scoped to its owner. An order belonging to a
// different user reads as not found rather than forbidden, so order ids
// cannot be probed.
func (s *orderService) GetForUser(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetForUser")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.Int64("user_id", userID),
	)

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}

	return order, nil
}

func (s *orderService) ListForUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListForUser")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", userID))

	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListAll")
	defer span.End()

	return s.orderRepo.ListAll(ctx)
}

// SetStatus is the admin-only status transition. The new status must belong
// to the closed status set; anything else is rejected before the write.
func (s *orderService) SetStatus(ctx context.Context, callerEmail string, orderID int64, status string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.SetStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.String("status", status),
	)

	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	isAdmin, err := s.adminRepo.IsAdmin(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		applog.Warn(
			ctx,
			s.logger,
			"Non-admin attempted status change",
			zap.String("caller", callerEmail),
			zap.Int64("order_id", orderID),
		)

		return nil, ErrNotAdmin
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		shutdownCtx := context.WithoutCancel(ctx)

		if err := tx.Rollback(shutdownCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			applog.Warn(shutdownCtx, s.logger, "Failed to rollback transaction", zap.Error(err))
		}
	}()

	order, err := s.orderRepo.UpdateStatus(ctx, tx, orderID, parsed)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}

		applog.Error(
			ctx,
			s.logger,
			"Failed to update order status",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	err = s.emitEvent(ctx, tx, "Order", order.ID, "OrderStatusChanged", &domain.OrderStatusChangedEvent{
		OrderID:   order.ID,
		Reference: order.Reference,
		UserEmail: order.UserEmail,
		Status:    string(order.Status),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return order, nil
}

func (s *orderService) emitEvent(ctx context.Context, tx pgx.Tx, aggregateType string, aggregateID int64, eventType string, payload any) error {
	wrapper := map[string]any{
		"event":   eventType,
		"payload": payload,
	}

	wrapperBytes, err := json.Marshal(wrapper)
	if err != nil {
		return fmt.Errorf("failed to marshal event wrapper: %w", err)
	}

	outboxEvent := &outboxDomain.OutboxEvent{
		AggregateType: aggregateType,
		AggregateID:   fmt.Sprintf("%d", aggregateID),
		EventType:     eventType,
		Payload:       wrapperBytes,
		Topic:         orderEventsTopic,
	}

	if err := s.outboxRepo.SaveOutboxEvent(ctx, tx, outboxEvent); err != nil {
		applog.Error(
			ctx,
			s.logger,
			"Failed to save outbox event",
			zap.Error(err),
		)

		return fmt.Errorf("failed to save outbox event: %w", err)
	}

	return nil
}
