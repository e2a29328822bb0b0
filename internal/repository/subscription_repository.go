package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, id int64) (*domain.Subscription, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Subscription, error)
	Update(ctx context.Context, sub *domain.Subscription) error
	Delete(ctx context.Context, id, userID int64) error
	ListActiveOn(ctx context.Context, date string) ([]domain.Subscription, error)
}

type subscriptionRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewSubscriptionRepository(pool *pgxpool.Pool, logger *zap.Logger) SubscriptionRepository {
	return &subscriptionRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("subscription_repository"),
	}
}

const subscriptionColumns = `
	id, user_id, plan_type, price, user_name, user_phone,
	address_line1, city, province, zipcode, city_quarter,
	meal_preferences, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'), created_at
`

func (r *subscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	ctx, span := r.tracer.Start(ctx, "SubscriptionRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", sub.UserID),
		attribute.String("plan_type", string(sub.PlanType)),
	)

	query := `
		INSERT INTO subscriptions (
			user_id, plan_type, price, user_name, user_phone,
			address_line1, city, province, zipcode, city_quarter,
			meal_preferences, start_date, end_date, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::date, $13::date, NOW())
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		sub.UserID,
		string(sub.PlanType),
		sub.Price,
		sub.UserName,
		sub.UserPhone,
		sub.AddressLine1,
		sub.City,
		sub.Province,
		sub.Zipcode,
		sub.CityQuarter,
		sub.MealPreferences,
		sub.StartDate,
		sub.EndDate,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to insert subscription",
			zap.Error(err),
		)

		return fmt.Errorf("failed to insert subscription: %w", err)
	}

	return nil
}

func (r *subscriptionRepo) GetByID(ctx context.Context, id int64) (*domain.Subscription, error) {
	ctx, span := r.tracer.Start(ctx, "SubscriptionRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("subscription_id", id))

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	var sub domain.Subscription
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.PlanType,
		&sub.Price,
		&sub.UserName,
		&sub.UserPhone,
		&sub.AddressLine1,
		&sub.City,
		&sub.Province,
		&sub.Zipcode,
		&sub.CityQuarter,
		&sub.MealPreferences,
		&sub.StartDate,
		&sub.EndDate,
		&sub.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}

	return &sub, nil
}

func (r *subscriptionRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Subscription, error) {
	ctx, span := r.tracer.Start(ctx, "SubscriptionRepository.ListByUser")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", userID))

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1 ORDER BY created_at DESC`

	return r.scan(ctx, span, query, userID)
}

func (r *subscriptionRepo) Update(ctx context.Context, sub *domain.Subscription) error {
	ctx, span := r.tracer.Start(ctx, "SubscriptionRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("subscription_id", sub.ID),
		attribute.Int64("user_id", sub.UserID),
	)

	// scoped to the owner: a row only updates when user_id matches
	query := `
		UPDATE subscriptions
		SET plan_type = $1, price = $2, user_name = $3, user_phone = $4,
			address_line1 = $5, city = $6, province = $7, zipcode = $8,
			city_quarter = $9, meal_preferences = $10,
			start_date = $11::date, end_date = $12::date
		WHERE id = $13 AND user_id = $14
	`

	tag, err := r.pool.Exec(
		ctx,
		query,
		string(sub.PlanType),
		sub.Price,
		sub.UserName,
		sub.UserPhone,
		sub.AddressLine1,
		sub.City,
		sub.Province,
		sub.Zipcode,
		sub.CityQuarter,
		sub.MealPreferences,
		sub.StartDate,
		sub.EndDate,
		sub.ID,
		sub.UserID,
	)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to update subscription",
			zap.Error(err),
		)

		return fmt.Errorf("failed to update subscription: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *subscriptionRepo) Delete(ctx context.Context, id, userID int64) error {
	ctx, span := r.tracer.Start(ctx, "SubscriptionRepository.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("subscription_id", id),
		attribute.Int64("user_id", userID),
	)

	tag, err := r.pool.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

// ListActiveOn selects subscriptions whose delivery window contains the given
// date, both ends inclusive, ordered by delivery zone for the routing sheet.
func (r *subscriptionRepo) ListActiveOn(ctx context.Context, date string) ([]domain.Subscription, error) {
	ctx, span := r.tracer.Start(ctx, "SubscriptionRepository.ListActiveOn")
	defer span.End()

	span.SetAttributes(attribute.String("date", date))

	query := `SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE start_date <= $1::date AND end_date >= $1::date
		ORDER BY city_quarter ASC, id ASC`

	return r.scan(ctx, span, query, date)
}

func (r *subscriptionRepo) scan(ctx context.Context, span trace.Span, query string, args ...any) ([]domain.Subscription, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to query subscriptions",
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(
			&sub.ID,
			&sub.UserID,
			&sub.PlanType,
			&sub.Price,
			&sub.UserName,
			&sub.UserPhone,
			&sub.AddressLine1,
			&sub.City,
			&sub.Province,
			&sub.Zipcode,
			&sub.CityQuarter,
			&sub.MealPreferences,
			&sub.StartDate,
			&sub.EndDate,
			&sub.CreatedAt,
		); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning subscription: %w", err)
		}

		subs = append(subs, sub)
	}

	return subs, rows.Err()
}
