package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"brewleaf/internal/cart/handler/mocks"
	"brewleaf/internal/cart/models"
	"brewleaf/internal/cart/service"
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

type CartHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
	userID  id.UserID
}

func TestCartHandlerSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerSuite))
}

func (s *CartHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.userID = id.NewUserID()
	r := chi.NewRouter()
	New(s.service, logger.Discard(), tokenStub{
		"jane": {UserID: s.userID, Role: requestcontext.RoleCustomer},
	}).Register(r)
	s.router = r
}

func (s *CartHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *CartHandlerSuite) TestSessionResolution() {
	s.Run("guest without token gets a fresh one", func() {
		s.service.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&service.View{}, nil)
		rec := s.do(httptest.NewRequest(http.MethodGet, "/cart", nil))
		s.Equal(http.StatusOK, rec.Code)
		_, err := uuid.Parse(rec.Header().Get(SessionHeader))
		s.NoError(err)
	})

	s.Run("guest token is reused", func() {
		s.service.EXPECT().Get(gomock.Any(), models.GuestSession("abc")).Return(&service.View{}, nil)
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(SessionHeader, "abc")
		rec := s.do(req)
		s.Equal("abc", rec.Header().Get(SessionHeader))
	})

	s.Run("signed-in user uses their own cart", func() {
		s.service.EXPECT().Get(gomock.Any(), models.UserSession(s.userID)).Return(&service.View{}, nil)
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("Authorization", "Bearer jane")
		req.Header.Set(SessionHeader, "abc")
		rec := s.do(req)
		s.Equal(http.StatusOK, rec.Code)
		s.Empty(rec.Header().Get(SessionHeader))
	})
}

func (s *CartHandlerSuite) TestItems() {
	productID := id.ProductID(uuid.New())

	s.Run("add defaults the grind", func() {
		s.service.EXPECT().
			AddItem(gomock.Any(), models.GuestSession("t"), productID, models.VariantWholeBean, 2).
			Return(&service.View{TotalItems: 2}, nil)
		req := httptest.NewRequest(http.MethodPost, "/cart/items",
			strings.NewReader(`{"product_id":"`+productID.String()+`","quantity":2}`))
		req.Header.Set(SessionHeader, "t")
		rec := s.do(req)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"total_items":2`)
	})

	s.Run("add surfaces validation errors", func() {
		s.service.EXPECT().
			AddItem(gomock.Any(), gomock.Any(), productID, models.VariantFine, 0).
			Return(nil, dErrors.New(dErrors.CodeValidation, "quantity must be at least 1"))
		req := httptest.NewRequest(http.MethodPost, "/cart/items",
			strings.NewReader(`{"product_id":"`+productID.String()+`","variant":"fine","quantity":0}`))
		rec := s.do(req)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "quantity must be at least 1")
	})

	s.Run("malformed product id never reaches the service", func() {
		req := httptest.NewRequest(http.MethodPatch, "/cart/items", strings.NewReader(`{"product_id":"x","quantity":1}`))
		rec := s.do(req)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("update passes quantity through", func() {
		s.service.EXPECT().
			UpdateQuantity(gomock.Any(), gomock.Any(), productID, models.VariantCoarse, -1).
			Return(&service.View{}, nil)
		req := httptest.NewRequest(http.MethodPatch, "/cart/items",
			strings.NewReader(`{"product_id":"`+productID.String()+`","variant":"coarse","quantity":-1}`))
		s.Equal(http.StatusOK, s.do(req).Code)
	})

	s.Run("remove reads the key from the query", func() {
		s.service.EXPECT().
			RemoveItem(gomock.Any(), gomock.Any(), productID, models.VariantFine).
			Return(&service.View{}, nil)
		req := httptest.NewRequest(http.MethodDelete, "/cart/items?product_id="+productID.String()+"&variant=fine", nil)
		s.Equal(http.StatusOK, s.do(req).Code)
	})
}

func (s *CartHandlerSuite) TestDrawerAndClear() {
	s.service.EXPECT().Drawer(gomock.Any(), gomock.Any(), service.DrawerToggle).Return(&service.View{DrawerOpen: true}, nil)
	rec := s.do(httptest.NewRequest(http.MethodPost, "/cart/drawer/toggle", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"drawer_open":true`)

	s.service.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(&service.View{}, nil)
	rec = s.do(httptest.NewRequest(http.MethodDelete, "/cart", nil))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *CartHandlerSuite) TestMerge() {
	s.Run("requires sign-in", func() {
		req := httptest.NewRequest(http.MethodPost, "/cart/merge", nil)
		req.Header.Set(SessionHeader, "guest-token")
		s.Equal(http.StatusUnauthorized, s.do(req).Code)
	})

	s.Run("merges guest cart into user cart", func() {
		s.service.EXPECT().
			Merge(gomock.Any(), models.GuestSession("guest-token"), models.UserSession(s.userID)).
			Return(&service.View{}, nil)
		req := httptest.NewRequest(http.MethodPost, "/cart/merge", nil)
		req.Header.Set("Authorization", "Bearer jane")
		req.Header.Set(SessionHeader, "guest-token")
		s.Equal(http.StatusOK, s.do(req).Code)
	})
}
