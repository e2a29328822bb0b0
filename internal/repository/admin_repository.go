package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type AdminRepository interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, admin *domain.Admin) error
}

type adminRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewAdminRepository(pool *pgxpool.Pool, logger *zap.Logger) AdminRepository {
	return &adminRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("admin_repository"),
	}
}

func (r *adminRepo) IsAdmin(ctx context.Context, email string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "AdminRepository.IsAdmin")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	var exists bool
	err := r.pool.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to check admin membership",
			zap.Error(err),
		)

		return false, fmt.Errorf("failed to check admin membership: %w", err)
	}

	return exists, nil
}

func (r *adminRepo) Create(ctx context.Context, admin *domain.Admin) error {
	ctx, span := r.tracer.Start(ctx, "AdminRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("email", admin.Email))

	query := `
		INSERT INTO admins (first_name, last_name, email, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		admin.FirstName,
		admin.LastName,
		admin.Email,
	).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == "23505" {
			return ErrEmailTaken
		}

		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to insert admin",
			zap.Error(err),
		)

		return fmt.Errorf("failed to insert admin: %w", err)
	}

	return nil
}
