package tests

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/repository"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/service"
)

func subscriptionInput(plan, quarter, start string) *service.SubscriptionInput {
	return &service.SubscriptionInput{
		PlanType:        plan,
		UserName:        "Priya Sharma",
		UserPhone:       "780-555-0101",
		AddressLine1:    "12 Jasper Ave",
		City:            "Edmonton",
		Province:        "AB",
		Zipcode:         "T5J 0K7",
		CityQuarter:     quarter,
		MealPreferences: "no onions",
		StartDate:       start,
	}
}

func (s *IntegrationTestSuite) TestSubscription_CreateDerivesPriceAndEndDate() {
	s.seedUser(301, "priya@example.com")

	sub, err := s.SubscriptionService.Create(s.Ctx, 301, subscriptionInput("Weekly", "NW", "2024-01-01"))
	s.Require().NoError(err)

	s.Require().NotZero(sub.ID)
	s.Require().Equal(70.0, sub.Price)
	s.Require().Equal("2024-01-08", sub.EndDate)

	monthly, err := s.SubscriptionService.Create(s.Ctx, 301, subscriptionInput("Monthly", "SE", "2024-01-01"))
	s.Require().NoError(err)
	s.Require().Equal(240.0, monthly.Price)
	s.Require().Equal("2024-01-29", monthly.EndDate)
}

func (s *IntegrationTestSuite) TestSubscription_CreateRejectsBadInput() {
	s.seedUser(302, "priya@example.com")

	_, err := s.SubscriptionService.Create(s.Ctx, 302, subscriptionInput("Yearly", "NW", "2024-01-01"))
	var validationErrs validator.ValidationErrors
	s.Require().True(errors.As(err, &validationErrs))

	_, err = s.SubscriptionService.Create(s.Ctx, 302, subscriptionInput("Weekly", "North", "2024-01-01"))
	s.Require().True(errors.As(err, &validationErrs))

	_, err = s.SubscriptionService.Create(s.Ctx, 302, subscriptionInput("Weekly", "NW", "01/02/2024"))
	s.Require().True(errors.As(err, &validationErrs))
}

func (s *IntegrationTestSuite) TestSubscription_UpdateScopedToOwner() {
	s.seedUser(303, "priya@example.com")
	s.seedUser(304, "other@example.com")

	sub, err := s.SubscriptionService.Create(s.Ctx, 303, subscriptionInput("Weekly", "NW", "2024-01-01"))
	s.Require().NoError(err)

	_, err = s.SubscriptionService.Update(s.Ctx, 304, sub.ID, subscriptionInput("Monthly", "SE", "2024-02-01"))
	s.Require().True(errors.Is(err, repository.ErrSubscriptionNotFound))

	updated, err := s.SubscriptionService.Update(s.Ctx, 303, sub.ID, subscriptionInput("Monthly", "SE", "2024-02-01"))
	s.Require().NoError(err)
	s.Require().Equal(240.0, updated.Price)
	s.Require().Equal("SE", updated.CityQuarter)
}

func (s *IntegrationTestSuite) TestSubscription_DeleteScopedToOwner() {
	s.seedUser(305, "priya@example.com")
	s.seedUser(306, "other@example.com")

	sub, err := s.SubscriptionService.Create(s.Ctx, 305, subscriptionInput("Weekly", "NW", "2024-01-01"))
	s.Require().NoError(err)

	err = s.SubscriptionService.Delete(s.Ctx, 306, sub.ID)
	s.Require().True(errors.Is(err, repository.ErrSubscriptionNotFound))

	s.Require().NoError(s.SubscriptionService.Delete(s.Ctx, 305, sub.ID))

	subs, err := s.SubscriptionService.ListForUser(s.Ctx, 305)
	s.Require().NoError(err)
	s.Require().Empty(subs)
}

func (s *IntegrationTestSuite) TestRoster_ListsActiveSubscriptionsOnly() {
	s.seedUser(307, "a@example.com")
	s.seedUser(308, "b@example.com")

	// fixed date windows, inserted directly so the derived end date does not
	// get in the way of the scenario
	insert := `
		INSERT INTO subscriptions (
			user_id, plan_type, price, user_name, user_phone,
			address_line1, city, province, zipcode, city_quarter,
			meal_preferences, start_date, end_date
		)
		VALUES ($1, 'Weekly', 70, $2, '780-555-0101', '12 Jasper Ave',
		        'Edmonton', 'AB', 'T5J 0K7', $3, '', $4::date, $5::date)
	`

	_, err := s.DbPool.Exec(s.Ctx, insert, int64(307), "Customer A", "NW", "2024-03-01", "2024-03-10")
	s.Require().NoError(err)
	_, err = s.DbPool.Exec(s.Ctx, insert, int64(308), "Customer B", "SE", "2024-03-12", "2024-03-20")
	s.Require().NoError(err)

	active, err := s.SubscriptionService.Roster(s.Ctx, "2024-03-05")
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Require().Equal("Customer A", active[0].UserName)

	// boundary days are inclusive
	active, err = s.SubscriptionService.Roster(s.Ctx, "2024-03-10")
	s.Require().NoError(err)
	s.Require().Len(active, 1)

	// the gap between the two windows
	active, err = s.SubscriptionService.Roster(s.Ctx, "2024-03-11")
	s.Require().NoError(err)
	s.Require().Empty(active)

	active, err = s.SubscriptionService.Roster(s.Ctx, "2024-03-12")
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Require().Equal("Customer B", active[0].UserName)

	_, err = s.SubscriptionService.Roster(s.Ctx, "yesterday")
	s.Require().Error(err)
}
