package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OrderRepository interface {
	ClaimIntent(ctx context.Context, tx pgx.Tx, key string, staleBefore time.Time) (*domain.CheckoutIntent, bool, error)
	CompleteIntent(ctx context.Context, tx pgx.Tx, key string, orderID int64) error
	CreateOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID int64, status domain.OrderStatus) (*domain.Order, error)
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
}

type orderRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewOrderRepository(pool *pgxpool.Pool, logger *zap.Logger) OrderRepository {
	return &orderRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("order_repository"),
	}
}

// ClaimIntent inserts the idempotency key in the processing state. The second
// return value is false when the key already existed, in which case the
// returned intent carries the prior state. A completed intent created before
// staleBefore no longer guards anything (the duplicate-submission window has
// long passed) and is dropped first, so re-ordering the same cart later makes
// a fresh order. The insert lives inside the checkout transaction, so a
// rollback releases the claim.
func (r *orderRepo) ClaimIntent(ctx context.Context, tx pgx.Tx, key string, staleBefore time.Time) (*domain.CheckoutIntent, bool, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ClaimIntent")
	defer span.End()

	span.SetAttributes(attribute.String("intent_key", key))

	expire := `
		DELETE FROM checkout_intents
		WHERE key = $1 AND status = $2 AND created_at < $3
	`

	if _, err := tx.Exec(ctx, expire, key, domain.IntentCompleted, staleBefore); err != nil {
		span.RecordError(err)

		return nil, false, fmt.Errorf("failed to expire checkout intent: %w", err)
	}

	insert := `
		INSERT INTO checkout_intents (key, status)
		VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`

	tag, err := tx.Exec(ctx, insert, key, domain.IntentProcessing)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to insert checkout intent",
			zap.Error(err),
		)

		return nil, false, fmt.Errorf("failed to insert checkout intent: %w", err)
	}

	if tag.RowsAffected() == 1 {
		return &domain.CheckoutIntent{Key: key, Status: domain.IntentProcessing}, true, nil
	}

	query := `
		SELECT key, status, order_id
		FROM checkout_intents
		WHERE key = $1
	`

	var intent domain.CheckoutIntent
	if err := tx.QueryRow(ctx, query, key).Scan(&intent.Key, &intent.Status, &intent.OrderID); err != nil {
		span.RecordError(err)

		return nil, false, fmt.Errorf("failed to read checkout intent: %w", err)
	}

	return &intent, false, nil
}

func (r *orderRepo) CompleteIntent(ctx context.Context, tx pgx.Tx, key string, orderID int64) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.CompleteIntent")
	defer span.End()

	span.SetAttributes(
		attribute.String("intent_key", key),
		attribute.Int64("order_id", orderID),
	)

	query := `
		UPDATE checkout_intents
		SET status = $1, order_id = $2
		WHERE key = $3
	`

	if _, err := tx.Exec(ctx, query, domain.IntentCompleted, orderID, key); err != nil {
		span.RecordError(err)

		return fmt.Errorf("failed to complete checkout intent: %w", err)
	}

	return nil
}

func (r *orderRepo) CreateOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", order.UserID),
		attribute.Int("items_count", len(order.Items)),
	)

	queryOrder := `
		INSERT INTO orders (
			reference, user_id, user_email,
			first_name, last_name, address_line1, address_line2, city, zipcode, phone, email,
			subtotal, tax, total, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := tx.QueryRow(
		ctx,
		queryOrder,
		order.Reference,
		order.UserID,
		order.UserEmail,
		order.Customer.FirstName,
		order.Customer.LastName,
		order.Customer.AddressLine1,
		order.Customer.AddressLine2,
		order.Customer.City,
		order.Customer.Zipcode,
		order.Customer.Phone,
		order.Customer.Email,
		order.Subtotal,
		order.Tax,
		order.Total,
		string(order.Status),
	).Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to insert order",
			zap.Error(err),
		)

		return fmt.Errorf("failed to insert order: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (order_id, item_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, item := range order.Items {
		_, err := tx.Exec(
			ctx,
			queryItem,
			order.ID,
			item.ItemID,
			item.Name,
			item.Price,
			item.Quantity,
		)
		if err != nil {
			span.RecordError(err)

			applog.Error(
				ctx,
				r.logger,
				"Failed to insert order item",
				zap.Error(err),
			)

			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return nil
}

// UpdateStatus writes the new status and bumps updated_at, returning the
// refreshed order so callers can notify the customer without a second read.
func (r *orderRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.UpdateStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.String("status", string(status)),
	)

	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, reference, user_id, user_email, status, updated_at
	`

	var order domain.Order
	err := tx.QueryRow(ctx, query, string(status), orderID).Scan(
		&order.ID,
		&order.Reference,
		&order.UserID,
		&order.UserEmail,
		&order.Status,
		&order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		applog.Warn(
			ctx,
			r.logger,
			"Order not found",
			zap.Int64("order_id", orderID),
		)

		return nil, ErrOrderNotFound
	}
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return &order, nil
}

func (r *orderRepo) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("order_id", orderID))

	query := `
		SELECT id, reference, user_id, user_email,
			first_name, last_name, address_line1, address_line2, city, zipcode, phone, email,
			subtotal, tax, total, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&order.ID,
		&order.Reference,
		&order.UserID,
		&order.UserEmail,
		&order.Customer.FirstName,
		&order.Customer.LastName,
		&order.Customer.AddressLine1,
		&order.Customer.AddressLine2,
		&order.Customer.City,
		&order.Customer.Zipcode,
		&order.Customer.Phone,
		&order.Customer.Email,
		&order.Subtotal,
		&order.Tax,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.itemsOf(ctx, order.ID)
	if err != nil {
		span.RecordError(err)

		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ListByUser")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", userID))

	query := `
		SELECT id, reference, user_id, user_email, subtotal, tax, total, status, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	return r.scanOrders(ctx, span, query, userID)
}

func (r *orderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ListAll")
	defer span.End()

	query := `
		SELECT id, reference, user_id, user_email, subtotal, tax, total, status, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`

	return r.scanOrders(ctx, span, query)
}

func (r *orderRepo) scanOrders(ctx context.Context, span trace.Span, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to query orders",
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.Reference,
			&o.UserID,
			&o.UserEmail,
			&o.Subtotal,
			&o.Tax,
			&o.Total,
			&o.Status,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning order: %w", err)
		}

		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)

		return nil, err
	}

	for i := range orders {
		items, err := r.itemsOf(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *orderRepo) itemsOf(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, item_id, name, price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ItemID,
			&item.Name,
			&item.Price,
			&item.Quantity,
		); err != nil {
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}
