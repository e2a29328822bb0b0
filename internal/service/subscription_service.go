package service

import (
	"context"
	"fmt"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/repository"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SubscriptionInput carries everything a customer supplies for a tiffin
// plan. Price and end date are always derived server-side.
type SubscriptionInput struct {
	PlanType        string `json:"subscriptionType" validate:"required,oneof=Weekly Monthly"`
	UserName        string `json:"userName" validate:"required"`
	UserPhone       string `json:"userPhone" validate:"required"`
	AddressLine1    string `json:"addressLine1" validate:"required"`
	City            string `json:"city" validate:"required"`
	Province        string `json:"province" validate:"required"`
	Zipcode         string `json:"zipcode" validate:"required"`
	CityQuarter     string `json:"cityQuarter" validate:"required,oneof=Downtown NE NW SE SW"`
	MealPreferences string `json:"mealPreferences"`
	StartDate       string `json:"startDate" validate:"required,datetime=2006-01-02"`
}

type SubscriptionService interface {
	Create(ctx context.Context, userID int64, in *SubscriptionInput) (*domain.Subscription, error)
	Get(ctx context.Context, id int64) (*domain.Subscription, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Subscription, error)
	Update(ctx context.Context, userID, id int64, in *SubscriptionInput) (*domain.Subscription, error)
	Delete(ctx context.Context, userID, id int64) error
	Roster(ctx context.Context, date string) ([]domain.Subscription, error)
}

type subscriptionService struct {
	logger   *zap.Logger
	repo     repository.SubscriptionRepository
	validate *validator.Validate
	tracer   trace.Tracer
}

func NewSubscriptionService(logger *zap.Logger, repo repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{
		logger:   logger,
		repo:     repo,
		validate: validator.New(),
		tracer:   otel.Tracer("subscription_service"),
	}
}

func (s *subscriptionService) Create(ctx context.Context, userID int64, in *SubscriptionInput) (*domain.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "SubscriptionService.Create")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.String("plan_type", in.PlanType),
	)

	sub, err := s.build(userID, in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		applog.Error(
			ctx,
			s.logger,
			"Failed to create subscription",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return nil, err
	}

	applog.Info(
		ctx,
		s.logger,
		"Subscription created",
		zap.Int64("subscription_id", sub.ID),
		zap.String("plan_type", string(sub.PlanType)),
		zap.String("end_date", sub.EndDate),
	)

	return sub, nil
}

func (s *subscriptionService) Get(ctx context.Context, id int64) (*domain.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "SubscriptionService.Get")
	defer span.End()

	span.SetAttributes(attribute.Int64("subscription_id", id))

	return s.repo.GetByID(ctx, id)
}

func (s *subscriptionService) ListForUser(ctx context.Context, userID int64) ([]domain.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "SubscriptionService.ListForUser")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", userID))

	return s.repo.ListByUser(ctx, userID)
}

// Update replaces the subscription's editable fields. The repository scopes
// the write to the owner, so someone else's id reads as not found.
func (s *subscriptionService) Update(ctx context.Context, userID, id int64, in *SubscriptionInput) (*domain.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "SubscriptionService.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("subscription_id", id),
		attribute.Int64("user_id", userID),
	)

	sub, err := s.build(userID, in)
	if err != nil {
		return nil, err
	}
	sub.ID = id

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *subscriptionService) Delete(ctx context.Context, userID, id int64) error {
	ctx, span := s.tracer.Start(ctx, "SubscriptionService.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("subscription_id", id),
		attribute.Int64("user_id", userID),
	)

	return s.repo.Delete(ctx, id, userID)
}

func (s *subscriptionService) Roster(ctx context.Context, date string) ([]domain.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "SubscriptionService.Roster")
	defer span.End()

	span.SetAttributes(attribute.String("date", date))

	if err := s.validate.Var(date, "required,datetime=2006-01-02"); err != nil {
		return nil, fmt.Errorf("invalid roster date %q", date)
	}

	return s.repo.ListActiveOn(ctx, date)
}

// build validates the input and derives the plan price and end date.
func (s *subscriptionService) build(userID int64, in *SubscriptionInput) (*domain.Subscription, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	plan, err := domain.ParsePlanType(in.PlanType)
	if err != nil {
		return nil, err
	}

	endDate, err := domain.EndDate(in.StartDate, plan)
	if err != nil {
		return nil, err
	}

	return &domain.Subscription{
		UserID:          userID,
		PlanType:        plan,
		Price:           plan.PlanPrice(),
		UserName:        in.UserName,
		UserPhone:       in.UserPhone,
		AddressLine1:    in.AddressLine1,
		City:            in.City,
		Province:        in.Province,
		Zipcode:         in.Zipcode,
		CityQuarter:     in.CityQuarter,
		MealPreferences: in.MealPreferences,
		StartDate:       in.StartDate,
		EndDate:         endDate,
	}, nil
}
