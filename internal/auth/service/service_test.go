package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"brewleaf/internal/auth/models"
	"brewleaf/internal/auth/store/user"
	jwttoken "brewleaf/internal/jwt_token"
	"brewleaf/internal/platform/logger"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/requestcontext"
)

type AuthServiceSuite struct {
	suite.Suite
	ctx     context.Context
	users   *user.InMemoryUserStore
	tokens  *jwttoken.JWTService
	service *Service
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = user.New()
	s.tokens = jwttoken.NewJWTService("test-key", "brewleaf-test", time.Hour)
	svc, err := New(s.users, s.tokens, WithLogger(logger.Discard()), WithHashCost(bcrypt.MinCost))
	s.Require().NoError(err)
	s.service = svc
}

func (s *AuthServiceSuite) TestRegister() {
	s.Run("creates a customer and issues a token", func() {
		res, err := s.service.Register(s.ctx, models.RegisterRequest{Name: " Jane ", Email: "Jane@Example.com", Password: "customer123"})
		s.Require().NoError(err)
		s.Equal("jane@example.com", res.User.Email)
		s.Equal("Jane", res.User.Name)
		s.Equal(requestcontext.RoleCustomer, res.User.Role)
		s.NotEqual("customer123", res.User.PasswordHash)

		claims, err := s.tokens.ValidateToken(res.AccessToken)
		s.Require().NoError(err)
		s.Equal(res.User.ID.String(), claims.Subject)
		s.Equal("CUSTOMER", claims.Role)
	})

	s.Run("duplicate email conflicts", func() {
		_, err := s.service.Register(s.ctx, models.RegisterRequest{Name: "J", Email: "jane@example.com", Password: "something-else"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("validation", func() {
		_, err := s.service.Register(s.ctx, models.RegisterRequest{Name: "", Email: "x@example.com", Password: "longenough"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = s.service.Register(s.ctx, models.RegisterRequest{Name: "X", Email: "not-an-email", Password: "longenough"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = s.service.Register(s.ctx, models.RegisterRequest{Name: "X", Email: "x@example.com", Password: "short"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *AuthServiceSuite) TestLogin() {
	created, err := s.service.EnsureUser(s.ctx, "Admin", "admin@brewandleaf.com", "admin123", requestcontext.RoleAdmin)
	s.Require().NoError(err)
	s.True(created)

	s.Run("correct password", func() {
		res, err := s.service.Login(s.ctx, models.LoginRequest{Email: "ADMIN@brewandleaf.com", Password: "admin123"})
		s.Require().NoError(err)
		s.Equal(requestcontext.RoleAdmin, res.User.Role)
	})

	s.Run("wrong password and unknown email look the same", func() {
		_, errWrong := s.service.Login(s.ctx, models.LoginRequest{Email: "admin@brewandleaf.com", Password: "nope"})
		_, errUnknown := s.service.Login(s.ctx, models.LoginRequest{Email: "ghost@brewandleaf.com", Password: "nope"})
		s.True(dErrors.HasCode(errWrong, dErrors.CodeUnauthorized))
		s.Equal(errWrong.Error(), errUnknown.Error())
	})
}

func (s *AuthServiceSuite) TestEnsureUserIsIdempotent() {
	created, err := s.service.EnsureUser(s.ctx, "Jane", "jane@example.com", "customer123", requestcontext.RoleCustomer)
	s.Require().NoError(err)
	s.True(created)

	created, err = s.service.EnsureUser(s.ctx, "Jane", "jane@example.com", "customer123", requestcontext.RoleCustomer)
	s.Require().NoError(err)
	s.False(created)

	n, err := s.service.CountCustomers(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *AuthServiceSuite) TestMe() {
	res, err := s.service.Register(s.ctx, models.RegisterRequest{Name: "Sam", Email: "sam@example.com", Password: "password1"})
	s.Require().NoError(err)

	me, err := s.service.Me(s.ctx, res.User.ID)
	s.Require().NoError(err)
	s.Equal("sam@example.com", me.Email)
}
