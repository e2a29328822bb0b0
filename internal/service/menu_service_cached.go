package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/repository"
	"github.com/redis/go-redis/v9"
)

// cachedMenuService decorates MenuService with a redis read cache. The menu
// changes rarely and is read on every storefront visit, so cache entries get
// a short TTL and admin writes invalidate eagerly.
type cachedMenuService struct {
	next        MenuService
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewCachedMenuService(next MenuService, redisClient *redis.Client) MenuService {
	return &cachedMenuService{
		next:        next,
		redisClient: redisClient,
		cacheTTL:    time.Minute * 10,
	}
}

const categoriesKey = "menu:categories"

func itemsKey(category string) string {
	return fmt.Sprintf("menu:items:%s", category)
}

func (s *cachedMenuService) Categories(ctx context.Context) ([]domain.MenuCategory, error) {
	val, err := s.redisClient.Get(ctx, categoriesKey).Result()
	if err == nil {
		var categories []domain.MenuCategory
		if err := json.Unmarshal([]byte(val), &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := s.next.Categories(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(categories); err == nil {
		s.redisClient.Set(ctx, categoriesKey, data, s.cacheTTL)
	}

	return categories, nil
}

func (s *cachedMenuService) Items(ctx context.Context, category string) ([]domain.MenuItem, error) {
	key := itemsKey(category)

	val, err := s.redisClient.Get(ctx, key).Result()
	if err == nil {
		var items []domain.MenuItem
		if err := json.Unmarshal([]byte(val), &items); err == nil {
			return items, nil
		}
	}

	items, err := s.next.Items(ctx, category)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		s.redisClient.Set(ctx, key, data, s.cacheTTL)
	}

	return items, nil
}

// Item answers point lookups out of the cached category listing, so adding
// an item to the cart costs no extra database round trip on a warm cache.
func (s *cachedMenuService) Item(ctx context.Context, category, itemID string) (*domain.MenuItem, error) {
	items, err := s.Items(ctx, category)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ItemID == itemID {
			return &items[i], nil
		}
	}

	return nil, repository.ErrMenuItemNotFound
}

func (s *cachedMenuService) AddCategory(ctx context.Context, name string) (*domain.MenuCategory, error) {
	category, err := s.next.AddCategory(ctx, name)
	if err != nil {
		return nil, err
	}

	s.redisClient.Del(ctx, categoriesKey)
	return category, nil
}

func (s *cachedMenuService) RemoveCategory(ctx context.Context, name string) error {
	if err := s.next.RemoveCategory(ctx, name); err != nil {
		return err
	}

	s.redisClient.Del(ctx, categoriesKey, itemsKey(name))
	return nil
}

func (s *cachedMenuService) SaveItem(ctx context.Context, item *domain.MenuItem) error {
	if err := s.next.SaveItem(ctx, item); err != nil {
		return err
	}

	s.redisClient.Del(ctx, itemsKey(item.Category))
	return nil
}

func (s *cachedMenuService) RemoveItem(ctx context.Context, category, itemID string) error {
	if err := s.next.RemoveItem(ctx, category, itemID); err != nil {
		return err
	}

	s.redisClient.Del(ctx, itemsKey(category))
	return nil
}
