package tests

import (
	"errors"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/auth"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/repository"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/service"
)

func registerInput(email string) *service.RegisterInput {
	return &service.RegisterInput{
		FirstName: "Priya",
		LastName:  "Sharma",
		Email:     email,
		Password:  "sup3r-secret",
	}
}

func (s *IntegrationTestSuite) TestRegisterAndLogin() {
	user, err := s.AuthService.Register(s.Ctx, registerInput("priya@example.com"))
	s.Require().NoError(err)
	s.Require().NotZero(user.ID)

	tokens, err := s.AuthService.Login(s.Ctx, "priya@example.com", "sup3r-secret")
	s.Require().NoError(err)

	claims, err := auth.ValidateToken(tokens.AccessToken, false)
	s.Require().NoError(err)
	s.Require().Equal(user.ID, claims.UserID)
	s.Require().Equal("priya@example.com", claims.Email)
}

func (s *IntegrationTestSuite) TestLoginRejectsBadCredentials() {
	_, err := s.AuthService.Register(s.Ctx, registerInput("priya@example.com"))
	s.Require().NoError(err)

	_, err = s.AuthService.Login(s.Ctx, "priya@example.com", "wrong-password")
	s.Require().True(errors.Is(err, service.ErrInvalidCredentials))

	_, err = s.AuthService.Login(s.Ctx, "nobody@example.com", "sup3r-secret")
	s.Require().True(errors.Is(err, service.ErrInvalidCredentials))
}

func (s *IntegrationTestSuite) TestRegisterDuplicateEmail() {
	_, err := s.AuthService.Register(s.Ctx, registerInput("priya@example.com"))
	s.Require().NoError(err)

	_, err = s.AuthService.Register(s.Ctx, registerInput("priya@example.com"))
	s.Require().True(errors.Is(err, repository.ErrEmailTaken))
}

func (s *IntegrationTestSuite) TestRefreshRotatesTokens() {
	_, err := s.AuthService.Register(s.Ctx, registerInput("priya@example.com"))
	s.Require().NoError(err)

	tokens, err := s.AuthService.Login(s.Ctx, "priya@example.com", "sup3r-secret")
	s.Require().NoError(err)

	fresh, err := s.AuthService.Refresh(s.Ctx, tokens.RefreshToken)
	s.Require().NoError(err)
	s.Require().NotEmpty(fresh.AccessToken)
	s.Require().NotEmpty(fresh.RefreshToken)

	// an access token is not usable as a refresh token
	_, err = s.AuthService.Refresh(s.Ctx, tokens.AccessToken)
	s.Require().Error(err)
}

func (s *IntegrationTestSuite) TestRegisterAdminRequiresSecurityCode() {
	in := &service.AdminRegisterInput{
		RegisterInput: *registerInput("boss@example.com"),
		SecurityCode:  "0000",
	}

	_, err := s.AuthService.RegisterAdmin(s.Ctx, in)
	s.Require().True(errors.Is(err, service.ErrInvalidSecurityCode))

	isAdmin, err := s.AuthService.IsAdmin(s.Ctx, "boss@example.com")
	s.Require().NoError(err)
	s.Require().False(isAdmin)

	in.SecurityCode = testSecurityCode

	admin, err := s.AuthService.RegisterAdmin(s.Ctx, in)
	s.Require().NoError(err)
	s.Require().Equal("boss@example.com", admin.Email)

	isAdmin, err = s.AuthService.IsAdmin(s.Ctx, "boss@example.com")
	s.Require().NoError(err)
	s.Require().True(isAdmin)

	// the membership came with a working login account
	_, err = s.AuthService.Login(s.Ctx, "boss@example.com", "sup3r-secret")
	s.Require().NoError(err)
}
