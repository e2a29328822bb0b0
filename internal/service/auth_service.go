package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/auth"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/repository"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type AdminRegisterInput struct {
	RegisterInput
	SecurityCode string `json:"securityCode" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthService interface {
	Register(ctx context.Context, in *RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	RegisterAdmin(ctx context.Context, in *AdminRegisterInput) (*domain.Admin, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
}

type authService struct {
	logger       *zap.Logger
	userRepo     repository.UserRepository
	adminRepo    repository.AdminRepository
	securityCode string
	validate     *validator.Validate
	tracer       trace.Tracer
}

func NewAuthService(
	logger *zap.Logger,
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	securityCode string,
) AuthService {
	return &authService{
		logger:       logger,
		userRepo:     userRepo,
		adminRepo:    adminRepo,
		securityCode: securityCode,
		validate:     validator.New(),
		tracer:       otel.Tracer("auth_service"),
	}
}

func (s *authService) Register(ctx context.Context, in *RegisterInput) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	span.SetAttributes(attribute.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	hashedPass, err := bcrypt.GenerateFromPassword([]byte(in.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hashedPass,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrEmailTaken) {
			applog.Error(
				ctx,
				s.logger,
				"Failed to register user",
				zap.String("email", in.Email),
				zap.Error(err),
			)
		}

		return nil, err
	}

	applog.Info(
		ctx,
		s.logger,
		"User registered",
		zap.Int64("user_id", user.ID),
	)

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := auth.GenerateTokens(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Refresh")
	defer span.End()

	claims, err := auth.ValidateToken(refreshToken, true)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// the user may have been removed since the refresh token was issued
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	access, refresh, err := auth.GenerateTokens(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RegisterAdmin adds back-office membership, gated by the shared security
// code from config.
func (s *authService) RegisterAdmin(ctx context.Context, in *AdminRegisterInput) (*domain.Admin, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.RegisterAdmin")
	defer span.End()

	span.SetAttributes(attribute.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(in.SecurityCode), []byte(s.securityCode)) != 1 {
		applog.Warn(
			ctx,
			s.logger,
			"Admin registration with wrong security code",
			zap.String("email", in.Email),
		)

		return nil, ErrInvalidSecurityCode
	}

	// an admin also needs a login account; an existing one is reused
	if _, err := s.Register(ctx, &in.RegisterInput); err != nil && !errors.Is(err, repository.ErrEmailTaken) {
		return nil, err
	}

	admin := &domain.Admin{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	applog.Info(
		ctx,
		s.logger,
		"Admin registered",
		zap.Int64("admin_id", admin.ID),
	)

	return admin, nil
}

func (s *authService) IsAdmin(ctx context.Context, email string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.IsAdmin")
	defer span.End()

	return s.adminRepo.IsAdmin(ctx, email)
}
