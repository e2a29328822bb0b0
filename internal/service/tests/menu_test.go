package tests

import (
	"errors"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/repository"
)

func (s *IntegrationTestSuite) TestMenu_CategoryAndItemLifecycle() {
	category, err := s.MenuService.AddCategory(s.Ctx, "Mains")
	s.Require().NoError(err)
	s.Require().NotZero(category.ID)

	item := &domain.MenuItem{
		Category:    "Mains",
		ItemID:      "butter-chicken",
		Name:        "Butter Chicken",
		Description: "House special",
		Price:       12.99,
	}
	s.Require().NoError(s.MenuService.SaveItem(s.Ctx, item))

	items, err := s.MenuService.Items(s.Ctx, "Mains")
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Require().Equal("Butter Chicken", items[0].Name)

	// saving the same item id replaces the line
	item.Price = 13.99
	s.Require().NoError(s.MenuService.SaveItem(s.Ctx, item))

	items, err = s.MenuService.Items(s.Ctx, "Mains")
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Require().Equal(13.99, items[0].Price)

	s.Require().NoError(s.MenuService.RemoveItem(s.Ctx, "Mains", "butter-chicken"))

	items, err = s.MenuService.Items(s.Ctx, "Mains")
	s.Require().NoError(err)
	s.Require().Empty(items)
}

func (s *IntegrationTestSuite) TestMenu_ItemLookupUsesCatalogPrice() {
	_, err := s.MenuService.AddCategory(s.Ctx, "Mains")
	s.Require().NoError(err)

	saved := &domain.MenuItem{
		Category: "Mains",
		ItemID:   "butter-chicken",
		Name:     "Butter Chicken",
		Price:    12.99,
	}
	s.Require().NoError(s.MenuService.SaveItem(s.Ctx, saved))

	item, err := s.MenuService.Item(s.Ctx, "Mains", "butter-chicken")
	s.Require().NoError(err)
	s.Require().Equal("Butter Chicken", item.Name)
	s.Require().Equal(12.99, item.Price)

	_, err = s.MenuService.Item(s.Ctx, "Mains", "ghost")
	s.Require().True(errors.Is(err, repository.ErrMenuItemNotFound))

	// a price change must reach lookups even on a warm cache
	saved.Price = 13.99
	s.Require().NoError(s.MenuService.SaveItem(s.Ctx, saved))

	item, err = s.MenuService.Item(s.Ctx, "Mains", "butter-chicken")
	s.Require().NoError(err)
	s.Require().Equal(13.99, item.Price)
}

func (s *IntegrationTestSuite) TestMenu_SaveItemUnknownCategory() {
	err := s.MenuService.SaveItem(s.Ctx, &domain.MenuItem{
		Category: "Ghost",
		ItemID:   "x",
		Name:     "X",
		Price:    1,
	})
	s.Require().True(errors.Is(err, repository.ErrCategoryNotFound))
}

func (s *IntegrationTestSuite) TestMenu_RemoveCategoryCascades() {
	_, err := s.MenuService.AddCategory(s.Ctx, "Sides")
	s.Require().NoError(err)

	s.Require().NoError(s.MenuService.SaveItem(s.Ctx, &domain.MenuItem{
		Category: "Sides",
		ItemID:   "naan",
		Name:     "Garlic Naan",
		Price:    3.50,
	}))

	s.Require().NoError(s.MenuService.RemoveCategory(s.Ctx, "Sides"))

	categories, err := s.MenuService.Categories(s.Ctx)
	s.Require().NoError(err)
	s.Require().Empty(categories)

	var count int
	err = s.DbPool.QueryRow(s.Ctx, `SELECT COUNT(*) FROM menu_items WHERE category = 'Sides'`).Scan(&count)
	s.Require().NoError(err)
	s.Require().Zero(count)
}

func (s *IntegrationTestSuite) TestMenu_CacheInvalidatedByWrites() {
	_, err := s.MenuService.AddCategory(s.Ctx, "Drinks")
	s.Require().NoError(err)

	// prime the cache
	categories, err := s.MenuService.Categories(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 1)

	_, err = s.MenuService.AddCategory(s.Ctx, "Desserts")
	s.Require().NoError(err)

	categories, err = s.MenuService.Categories(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 2, "a write must not leave a stale cache behind")
}
