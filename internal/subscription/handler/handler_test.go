package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"brewleaf/internal/platform/logger"
	"brewleaf/internal/platform/middleware"
	"brewleaf/internal/subscription/handler/mocks"
	"brewleaf/internal/subscription/models"
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

type SubscriptionHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
	userID  id.UserID
}

func TestSubscriptionHandlerSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionHandlerSuite))
}

func (s *SubscriptionHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.userID = id.NewUserID()
	r := chi.NewRouter()
	New(s.service, logger.Discard(), tokenStub{
		"jane": {UserID: s.userID, Role: requestcontext.RoleCustomer},
	}).Register(r)
	s.router = r
}

func (s *SubscriptionHandlerSuite) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *SubscriptionHandlerSuite) TestCreate() {
	productID := id.NewProductID()
	body := `{"product_id":"` + productID.String() + `","frequency":"weekly"}`

	s.Run("requires authentication", func() {
		rec := s.do(http.MethodPost, "/subscriptions/", "", body)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("created", func() {
		s.service.EXPECT().
			Create(gomock.Any(), s.userID, models.CreateRequest{ProductID: productID, Frequency: "weekly"}).
			Return(&models.Subscription{ID: id.NewSubscriptionID(), Status: models.StatusActive}, nil)

		rec := s.do(http.MethodPost, "/subscriptions/", "jane", body)
		s.Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Body.String(), `"status":"ACTIVE"`)
	})
}

func (s *SubscriptionHandlerSuite) TestList_EmptyRendersArray() {
	s.service.EXPECT().ListForUser(gomock.Any(), s.userID).Return(nil, nil)

	rec := s.do(http.MethodGet, "/subscriptions/", "jane", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"subscriptions":[]}`, rec.Body.String())
}

func (s *SubscriptionHandlerSuite) TestUpdateStatus() {
	subID := id.NewSubscriptionID()
	path := "/subscriptions/" + subID.String()

	s.Run("forbidden for other users", func() {
		s.service.EXPECT().UpdateStatus(gomock.Any(), s.userID, subID, models.StatusPaused).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "not your subscription"))

		rec := s.do(http.MethodPatch, path, "jane", `{"status":"paused"}`)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("cancelled is a conflict", func() {
		s.service.EXPECT().UpdateStatus(gomock.Any(), s.userID, subID, models.StatusActive).
			Return(nil, dErrors.New(dErrors.CodeConflict, "subscription is cancelled"))

		rec := s.do(http.MethodPatch, path, "jane", `{"status":"ACTIVE"}`)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("unknown status never reaches the service", func() {
		rec := s.do(http.MethodPatch, path, "jane", `{"status":"DORMANT"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
