package service

import (
	"context"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/repository"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type MenuService interface {
	Categories(ctx context.Context) ([]domain.MenuCategory, error)
	Items(ctx context.Context, category string) ([]domain.MenuItem, error)
	Item(ctx context.Context, category, itemID string) (*domain.MenuItem, error)
	AddCategory(ctx context.Context, name string) (*domain.MenuCategory, error)
	RemoveCategory(ctx context.Context, name string) error
	SaveItem(ctx context.Context, item *domain.MenuItem) error
	RemoveItem(ctx context.Context, category, itemID string) error
}

type menuService struct {
	logger *zap.Logger
	repo   repository.MenuRepository
	tracer trace.Tracer
}

func NewMenuService(logger *zap.Logger, repo repository.MenuRepository) MenuService {
	return &menuService{
		logger: logger,
		repo:   repo,
		tracer: otel.Tracer("menu_service"),
	}
}

func (s *menuService) Categories(ctx context.Context) ([]domain.MenuCategory, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.Categories")
	defer span.End()

	return s.repo.ListCategories(ctx)
}

func (s *menuService) Items(ctx context.Context, category string) ([]domain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.Items")
	defer span.End()

	span.SetAttributes(attribute.String("category", category))

	return s.repo.ListItems(ctx, category)
}

func (s *menuService) Item(ctx context.Context, category, itemID string) (*domain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.Item")
	defer span.End()

	span.SetAttributes(
		attribute.String("category", category),
		attribute.String("item_id", itemID),
	)

	return s.repo.GetItem(ctx, category, itemID)
}

func (s *menuService) AddCategory(ctx context.Context, name string) (*domain.MenuCategory, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.AddCategory")
	defer span.End()

	span.SetAttributes(attribute.String("category", name))

	return s.repo.CreateCategory(ctx, name)
}

func (s *menuService) RemoveCategory(ctx context.Context, name string) error {
	ctx, span := s.tracer.Start(ctx, "MenuService.RemoveCategory")
	defer span.End()

	span.SetAttributes(attribute.String("category", name))

	return s.repo.DeleteCategory(ctx, name)
}

func (s *menuService) SaveItem(ctx context.Context, item *domain.MenuItem) error {
	ctx, span := s.tracer.Start(ctx, "MenuService.SaveItem")
	defer span.End()

	span.SetAttributes(
		attribute.String("category", item.Category),
		attribute.String("item_id", item.ItemID),
	)

	if err := s.repo.UpsertItem(ctx, item); err != nil {
		applog.Error(
			ctx,
			s.logger,
			"Failed to save menu item",
			zap.String("item_id", item.ItemID),
			zap.Error(err),
		)

		return err
	}

	return nil
}

func (s *menuService) RemoveItem(ctx context.Context, category, itemID string) error {
	ctx, span := s.tracer.Start(ctx, "MenuService.RemoveItem")
	defer span.End()

	span.SetAttributes(
		attribute.String("category", category),
		attribute.String("item_id", itemID),
	)

	return s.repo.DeleteItem(ctx, category, itemID)
}
