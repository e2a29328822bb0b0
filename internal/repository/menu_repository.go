package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type MenuRepository interface {
	ListCategories(ctx context.Context) ([]domain.MenuCategory, error)
	CreateCategory(ctx context.Context, name string) (*domain.MenuCategory, error)
	DeleteCategory(ctx context.Context, name string) error
	ListItems(ctx context.Context, category string) ([]domain.MenuItem, error)
	GetItem(ctx context.Context, category, itemID string) (*domain.MenuItem, error)
	UpsertItem(ctx context.Context, item *domain.MenuItem) error
	DeleteItem(ctx context.Context, category, itemID string) error
}

type menuRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewMenuRepository(pool *pgxpool.Pool, logger *zap.Logger) MenuRepository {
	return &menuRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("menu_repository"),
	}
}

func (r *menuRepo) ListCategories(ctx context.Context) ([]domain.MenuCategory, error) {
	ctx, span := r.tracer.Start(ctx, "MenuRepository.ListCategories")
	defer span.End()

	rows, err := r.pool.Query(ctx, `SELECT id, name FROM menu_categories ORDER BY name`)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to query menu categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.MenuCategory
	for rows.Next() {
		var c domain.MenuCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning category: %w", err)
		}

		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *menuRepo) CreateCategory(ctx context.Context, name string) (*domain.MenuCategory, error) {
	ctx, span := r.tracer.Start(ctx, "MenuRepository.CreateCategory")
	defer span.End()

	span.SetAttributes(attribute.String("category", name))

	category := domain.MenuCategory{Name: name}
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO menu_categories (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		name,
	).Scan(&category.ID)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to create menu category",
			zap.String("category", name),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to create menu category: %w", err)
	}

	return &category, nil
}

func (r *menuRepo) DeleteCategory(ctx context.Context, name string) error {
	ctx, span := r.tracer.Start(ctx, "MenuRepository.DeleteCategory")
	defer span.End()

	span.SetAttributes(attribute.String("category", name))

	// items cascade through the FK
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_categories WHERE name = $1`, name)
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("failed to delete menu category: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

func (r *menuRepo) ListItems(ctx context.Context, category string) ([]domain.MenuItem, error) {
	ctx, span := r.tracer.Start(ctx, "MenuRepository.ListItems")
	defer span.End()

	span.SetAttributes(attribute.String("category", category))

	query := `
		SELECT id, category, item_id, name, description, price, image_url, created_at, updated_at
		FROM menu_items
		WHERE category = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(
			&item.ID,
			&item.Category,
			&item.ItemID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.ImageURL,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning menu item: %w", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *menuRepo) GetItem(ctx context.Context, category, itemID string) (*domain.MenuItem, error) {
	ctx, span := r.tracer.Start(ctx, "MenuRepository.GetItem")
	defer span.End()

	span.SetAttributes(
		attribute.String("category", category),
		attribute.String("item_id", itemID),
	)

	query := `
		SELECT id, category, item_id, name, description, price, image_url, created_at, updated_at
		FROM menu_items
		WHERE category = $1 AND item_id = $2
	`

	var item domain.MenuItem
	err := r.pool.QueryRow(ctx, query, category, itemID).Scan(
		&item.ID,
		&item.Category,
		&item.ItemID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.ImageURL,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	return &item, nil
}

func (r *menuRepo) UpsertItem(ctx context.Context, item *domain.MenuItem) error {
	ctx, span := r.tracer.Start(ctx, "MenuRepository.UpsertItem")
	defer span.End()

	span.SetAttributes(
		attribute.String("category", item.Category),
		attribute.String("item_id", item.ItemID),
	)

	query := `
		INSERT INTO menu_items (category, item_id, name, description, price, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (category, item_id) DO UPDATE
		SET name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		item.Category,
		item.ItemID,
		item.Name,
		item.Description,
		item.Price,
		item.ImageURL,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == "23503" {
			return ErrCategoryNotFound
		}

		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to upsert menu item",
			zap.String("item_id", item.ItemID),
			zap.Error(err),
		)

		return fmt.Errorf("failed to upsert menu item: %w", err)
	}

	return nil
}

func (r *menuRepo) DeleteItem(ctx context.Context, category, itemID string) error {
	ctx, span := r.tracer.Start(ctx, "MenuRepository.DeleteItem")
	defer span.End()

	span.SetAttributes(
		attribute.String("category", category),
		attribute.String("item_id", itemID),
	)

	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM menu_items WHERE category = $1 AND item_id = $2`,
		category,
		itemID,
	)
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrMenuItemNotFound
	}

	return nil
}
