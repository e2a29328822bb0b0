package tests

import (
	"errors"
	"fmt"
	"time"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/checkout"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/service"
)

func (s *IntegrationTestSuite) TestCheckout_CreatesOrder() {
	s.seedUser(101, "priya@example.com")
	s.fillCart(101,
		domain.CartItem{ID: "butter-chicken", Name: "Butter Chicken", Price: 12.99, Quantity: 2},
		domain.CartItem{ID: "naan", Name: "Garlic Naan", Price: 3.50, Quantity: 3},
	)
	s.stashForm(101)

	order, created, err := s.OrderService.Finalize(s.Ctx, 101, "priya@example.com")
	s.Require().NoError(err)
	s.Require().True(created)

	s.Require().NotZero(order.ID)
	s.Require().Len(order.Reference, 8)
	s.Require().Equal(domain.OrderStatusPlaced, order.Status)
	s.Require().Equal(36.48, order.Subtotal)
	s.Require().Equal(1.82, order.Tax)
	s.Require().Equal(38.30, order.Total)
	s.Require().Len(order.Items, 2)
	s.Require().Equal("Priya", order.Customer.FirstName)

	// session state is gone once the order is durable
	s.Require().Empty(s.Carts.Items(101))
	_, err = s.Stash.Get(s.Ctx, 101)
	s.Require().ErrorIs(err, checkout.ErrNoSession)
}

func (s *IntegrationTestSuite) TestCheckout_DuplicateSubmissionReturnsSameOrder() {
	s.seedUser(102, "priya@example.com")
	items := []domain.CartItem{
		{ID: "samosa", Name: "Samosa", Price: 2.50, Quantity: 4},
	}
	s.fillCart(102, items...)
	s.stashForm(102)

	first, created, err := s.OrderService.Finalize(s.Ctx, 102, "priya@example.com")
	s.Require().NoError(err)
	s.Require().True(created)

	// a stale tab resubmits the identical cart
	s.fillCart(102, items...)
	s.stashForm(102)

	second, created, err := s.OrderService.Finalize(s.Ctx, 102, "priya@example.com")
	s.Require().NoError(err)
	s.Require().False(created)
	s.Require().Equal(first.ID, second.ID)
	s.Require().Equal(first.Reference, second.Reference)

	var count int
	err = s.DbPool.QueryRow(s.Ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, int64(102)).
		Scan(&count)
	s.Require().NoError(err)
	s.Require().Equal(1, count)
}

func (s *IntegrationTestSuite) TestCheckout_SameCartReorderableAfterIntentExpiry() {
	s.seedUser(106, "priya@example.com")
	items := []domain.CartItem{
		{ID: "samosa", Name: "Samosa", Price: 2.50, Quantity: 2},
	}
	s.fillCart(106, items...)
	s.stashForm(106)

	first, created, err := s.OrderService.Finalize(s.Ctx, 106, "priya@example.com")
	s.Require().NoError(err)
	s.Require().True(created)

	// age the completed intent past the retention window
	tag, err := s.DbPool.Exec(s.Ctx,
		`UPDATE checkout_intents SET created_at = NOW() - INTERVAL '2 days' WHERE order_id = $1`,
		first.ID,
	)
	s.Require().NoError(err)
	s.Require().EqualValues(1, tag.RowsAffected())

	// weeks later the customer genuinely wants the same meal again
	s.fillCart(106, items...)
	s.stashForm(106)

	second, created, err := s.OrderService.Finalize(s.Ctx, 106, "priya@example.com")
	s.Require().NoError(err)
	s.Require().True(created, "an expired intent must not pin the old order forever")
	s.Require().NotEqual(first.ID, second.ID)

	var count int
	err = s.DbPool.QueryRow(s.Ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, int64(106)).
		Scan(&count)
	s.Require().NoError(err)
	s.Require().Equal(2, count)
}

func (s *IntegrationTestSuite) TestCheckout_EmptyCart() {
	s.seedUser(103, "priya@example.com")
	s.stashForm(103)

	_, _, err := s.OrderService.Finalize(s.Ctx, 103, "priya@example.com")
	s.Require().True(errors.Is(err, service.ErrEmptyCart))
}

func (s *IntegrationTestSuite) TestCheckout_MissingForm() {
	s.seedUser(104, "priya@example.com")
	s.fillCart(104, domain.CartItem{ID: "samosa", Name: "Samosa", Price: 2.50, Quantity: 1})

	_, _, err := s.OrderService.Finalize(s.Ctx, 104, "priya@example.com")
	s.Require().True(errors.Is(err, checkout.ErrNoSession))

	// nothing was claimed, so fixing the form lets the checkout complete
	s.stashForm(104)

	_, created, err := s.OrderService.Finalize(s.Ctx, 104, "priya@example.com")
	s.Require().NoError(err)
	s.Require().True(created)
}

func (s *IntegrationTestSuite) TestCheckout_PublishesOrderCreatedEvent() {
	s.seedUser(105, "priya@example.com")
	s.fillCart(105, domain.CartItem{ID: "thali", Name: "Veg Thali", Price: 15.00, Quantity: 1})
	s.stashForm(105)

	order, created, err := s.OrderService.Finalize(s.Ctx, 105, "priya@example.com")
	s.Require().NoError(err)
	s.Require().True(created)

	publishedAtQuery := `
		SELECT published_at
		FROM outbox
		WHERE aggregate_id = $1 AND event_type = 'OrderCreated'
	`

	s.Require().Eventually(func() bool {
		var publishedAt *time.Time

		err := s.DbPool.QueryRow(s.Ctx, publishedAtQuery, fmt.Sprintf("%d", order.ID)).
			Scan(&publishedAt)

		return err == nil && publishedAt != nil
	}, 5*time.Second, 100*time.Millisecond)
}
