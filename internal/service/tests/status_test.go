package tests

import (
	"errors"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/repository"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/service"
)

func (s *IntegrationTestSuite) placeOrder(userID int64, email string) *domain.Order {
	s.seedUser(userID, email)
	s.fillCart(userID, domain.CartItem{ID: "thali", Name: "Veg Thali", Price: 15.00, Quantity: 1})
	s.stashForm(userID)

	order, created, err := s.OrderService.Finalize(s.Ctx, userID, email)
	s.Require().NoError(err)
	s.Require().True(created)

	return order
}

func (s *IntegrationTestSuite) TestSetStatus_AdminOnly() {
	order := s.placeOrder(201, "customer@example.com")

	_, err := s.OrderService.SetStatus(s.Ctx, "customer@example.com", order.ID, "Preparing")
	s.Require().True(errors.Is(err, service.ErrNotAdmin))

	var status string
	err = s.DbPool.QueryRow(s.Ctx, `SELECT status FROM orders WHERE id = $1`, order.ID).Scan(&status)
	s.Require().NoError(err)
	s.Require().Equal("Order Placed", status)
}

func (s *IntegrationTestSuite) TestSetStatus_Success() {
	order := s.placeOrder(202, "customer@example.com")
	s.seedAdmin("kitchen@example.com")

	updated, err := s.OrderService.SetStatus(s.Ctx, "kitchen@example.com", order.ID, "Out for Delivery")
	s.Require().NoError(err)
	s.Require().Equal(domain.OrderStatusOutForDelivery, updated.Status)
	s.Require().Equal(order.Reference, updated.Reference)

	var status string
	err = s.DbPool.QueryRow(s.Ctx, `SELECT status FROM orders WHERE id = $1`, order.ID).Scan(&status)
	s.Require().NoError(err)
	s.Require().Equal("Out for Delivery", status)
}

func (s *IntegrationTestSuite) TestSetStatus_RejectsUnknownStatus() {
	order := s.placeOrder(203, "customer@example.com")
	s.seedAdmin("kitchen@example.com")

	_, err := s.OrderService.SetStatus(s.Ctx, "kitchen@example.com", order.ID, "Shipped")
	s.Require().True(errors.Is(err, service.ErrInvalidStatus))
}

func (s *IntegrationTestSuite) TestSetStatus_OrderNotFound() {
	s.seedAdmin("kitchen@example.com")

	_, err := s.OrderService.SetStatus(s.Ctx, "kitchen@example.com", 99999, "Preparing")
	s.Require().True(errors.Is(err, repository.ErrOrderNotFound))
}

func (s *IntegrationTestSuite) TestGetForUser_HidesForeignOrders() {
	order := s.placeOrder(204, "customer@example.com")
	s.seedUser(205, "other@example.com")

	got, err := s.OrderService.GetForUser(s.Ctx, order.ID, 204)
	s.Require().NoError(err)
	s.Require().Equal(order.ID, got.ID)

	_, err = s.OrderService.GetForUser(s.Ctx, order.ID, 205)
	s.Require().True(errors.Is(err, repository.ErrOrderNotFound))
}
