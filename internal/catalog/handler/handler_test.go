package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"brewleaf/internal/catalog/handler/mocks"
	"brewleaf/internal/catalog/models"
	"brewleaf/internal/platform/logger"
	"brewleaf/internal/platform/middleware"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/money"
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

type CatalogHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
}

func TestCatalogHandlerSuite(t *testing.T) {
	suite.Run(t, new(CatalogHandlerSuite))
}

func (s *CatalogHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	tokens := tokenStub{
		"admin":    {UserID: id.NewUserID(), Role: requestcontext.RoleAdmin},
		"customer": {UserID: id.NewUserID(), Role: requestcontext.RoleCustomer},
	}
	r := chi.NewRouter()
	New(s.service, logger.Discard(), tokens).Register(r)
	s.router = r
}

func (s *CatalogHandlerSuite) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *CatalogHandlerSuite) TestList() {
	s.Run("passes query filters through", func() {
		s.service.EXPECT().List(gomock.Any(), models.Filter{
			Category: "tea", Search: "mint", Featured: true, Sort: models.SortPriceAsc,
		}).Return([]*models.Product{{Name: "Moroccan Mint", Price: money.MustParse("16.99")}}, nil)

		rec := s.do(http.MethodGet, "/products?category=tea&search=mint&featured=true&sort=price-asc", "", "")
		s.Require().Equal(http.StatusOK, rec.Code)

		var body struct {
			Products []map[string]any `json:"products"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Require().Len(body.Products, 1)
		s.Equal("Moroccan Mint", body.Products[0]["name"])
		s.Equal(16.99, body.Products[0]["price"])
	})

	s.Run("empty list renders as an array", func() {
		s.service.EXPECT().Featured(gomock.Any()).Return(nil, nil)
		rec := s.do(http.MethodGet, "/products/featured", "", "")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"products": []}`, rec.Body.String())
	})

	s.Run("internal errors hide details", func() {
		s.service.EXPECT().BestSellers(gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("db down"), dErrors.CodeInternal, "failed to list products"))
		rec := s.do(http.MethodGet, "/products/best-sellers", "", "")
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.NotContains(rec.Body.String(), "db down")
	})
}

func (s *CatalogHandlerSuite) TestGetByIDOrSlug() {
	productID := id.ProductID(uuid.New())

	s.Run("uuid looks up by id", func() {
		s.service.EXPECT().GetByID(gomock.Any(), productID).Return(&models.Product{ID: productID, Name: "Gyokuro"}, nil)
		rec := s.do(http.MethodGet, "/products/"+productID.String(), "", "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("anything else is a slug", func() {
		s.service.EXPECT().GetBySlug(gomock.Any(), "kyoto-gyokuro").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "product not found"))
		rec := s.do(http.MethodGet, "/products/kyoto-gyokuro", "", "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *CatalogHandlerSuite) TestAdminRoutes() {
	s.Run("guest is unauthorized", func() {
		rec := s.do(http.MethodPost, "/admin/products", "", `{}`)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("customer is forbidden", func() {
		rec := s.do(http.MethodPost, "/admin/products", "customer", `{}`)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("admin creates product", func() {
		s.service.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req *models.CreateProductRequest) (*models.Product, error) {
				s.Equal("Kenya AA", req.Name)
				s.Equal("Blackcurrant, Grapefruit", req.FlavorNotes)
				return &models.Product{Name: req.Name, Slug: "kenya-aa"}, nil
			})
		rec := s.do(http.MethodPost, "/admin/products", "admin",
			`{"name":"Kenya AA","price":"19.99","category":"coffee","flavor_notes":"Blackcurrant, Grapefruit"}`)
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("admin deletes product", func() {
		productID := id.ProductID(uuid.New())
		s.service.EXPECT().DeleteProduct(gomock.Any(), productID).Return(nil)
		rec := s.do(http.MethodDelete, "/admin/products/"+productID.String(), "admin", "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("delete with malformed id", func() {
		rec := s.do(http.MethodDelete, "/admin/products/not-a-uuid", "admin", "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
