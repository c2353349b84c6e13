package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"brewleaf/internal/auth/handler/mocks"
	"brewleaf/internal/auth/models"
	"brewleaf/internal/platform/logger"
	"brewleaf/internal/platform/middleware"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type tokenStub map[string]*middleware.Claims

func (t tokenStub) ValidateToken(token string) (*middleware.Claims, error) {
	if c, ok := t[token]; ok {
		return c, nil
	}
	return nil, errors.New("unknown token")
}

type AuthHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
	userID  id.UserID
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.userID = id.NewUserID()
	r := chi.NewRouter()
	New(s.service, logger.Discard(), tokenStub{
		"jane": {UserID: s.userID, Role: requestcontext.RoleCustomer},
	}).Register(r)
	s.router = r
}

func (s *AuthHandlerSuite) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *AuthHandlerSuite) TestRegister() {
	s.service.EXPECT().Register(gomock.Any(), models.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "customer123"}).
		Return(&models.TokenResult{
			AccessToken: "tok",
			TokenType:   "Bearer",
			User:        &models.User{ID: s.userID, Email: "jane@example.com", PasswordHash: "$2a$12$secret"},
		}, nil)

	rec := s.do(http.MethodPost, "/auth/register", "", `{"name":"Jane","email":"jane@example.com","password":"customer123"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.NotContains(rec.Body.String(), "secret")

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("tok", body["access_token"])
}

func (s *AuthHandlerSuite) TestLogin() {
	s.Run("bad credentials", func() {
		s.service.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password"))
		rec := s.do(http.MethodPost, "/auth/login", "", `{"email":"jane@example.com","password":"x"}`)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("unknown fields are rejected", func() {
		rec := s.do(http.MethodPost, "/auth/login", "", `{"email":"jane@example.com","password":"x","role":"ADMIN"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *AuthHandlerSuite) TestMe() {
	s.Run("requires token", func() {
		rec := s.do(http.MethodGet, "/auth/me", "", "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("returns the signed-in user", func() {
		s.service.EXPECT().Me(gomock.Any(), s.userID).Return(&models.User{ID: s.userID, Name: "Jane"}, nil)
		rec := s.do(http.MethodGet, "/auth/me", "jane", "")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"Jane"`)
	})
}
