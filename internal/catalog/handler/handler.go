package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"brewleaf/internal/catalog/models"
	"brewleaf/internal/platform/middleware"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/platform/httputil"
	"brewleaf/pkg/requestcontext"
)

// Service defines the catalog operations exposed over HTTP.
type Service interface {
	List(ctx context.Context, f models.Filter) ([]*models.Product, error)
	Featured(ctx context.Context) ([]*models.Product, error)
	BestSellers(ctx context.Context) ([]*models.Product, error)
	Categories(ctx context.Context) ([]*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByID(ctx context.Context, productID id.ProductID) (*models.Product, error)
	CreateCategory(ctx context.Context, name, description string) (*models.Category, error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID id.ProductID) error
}

type Handler struct {
	catalog   Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

func New(catalog Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{catalog: catalog, logger: logger, validator: validator}
}

// Register mounts the public storefront routes and the admin product routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/products", h.handleList)
	r.Get("/products/featured", h.handleFeatured)
	r.Get("/products/best-sellers", h.handleBestSellers)
	r.Get("/products/{product}", h.handleGet)
	r.Get("/categories", h.handleCategories)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Use(middleware.RequireAdmin(h.logger))
		r.Post("/admin/categories", h.handleCreateCategory)
		r.Post("/admin/products", h.handleCreateProduct)
		r.Delete("/admin/products/{product}", h.handleDeleteProduct)
	})
}

type productsResponse struct {
	Products []*models.Product `json:"products"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	featured, _ := strconv.ParseBool(q.Get("featured"))
	products, err := h.catalog.List(r.Context(), models.Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Featured: featured,
		Sort:     models.SortOrder(q.Get("sort")),
	})
	h.writeProducts(w, r, products, err)
}

func (h *Handler) handleFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Featured(r.Context())
	h.writeProducts(w, r, products, err)
}

func (h *Handler) handleBestSellers(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.BestSellers(r.Context())
	h.writeProducts(w, r, products, err)
}

func (h *Handler) writeProducts(w http.ResponseWriter, r *http.Request, products []*models.Product, err error) {
	if err != nil {
		h.logError(r.Context(), "failed to list products", err)
		httputil.WriteError(w, err)
		return
	}
	if products == nil {
		products = []*models.Product{}
	}
	httputil.WriteJSON(w, http.StatusOK, productsResponse{Products: products})
}

// handleGet accepts either a product id or a slug.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref := chi.URLParam(r, "product")

	var (
		product *models.Product
		err     error
	)
	if productID, parseErr := id.ParseProductID(ref); parseErr == nil {
		product, err = h.catalog.GetByID(ctx, productID)
	} else {
		product, err = h.catalog.GetBySlug(ctx, ref)
	}
	if err != nil {
		h.logError(ctx, "failed to get product", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.logError(r.Context(), "failed to list categories", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createCategoryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	category, err := h.catalog.CreateCategory(ctx, req.Name, req.Description)
	if err != nil {
		h.logError(ctx, "failed to create category", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, category)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateProductRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid create product request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	product, err := h.catalog.CreateProduct(ctx, &req)
	if err != nil {
		h.logError(ctx, "failed to create product", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, product)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID, err := id.ParseProductID(chi.URLParam(r, "product"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.catalog.DeleteProduct(ctx, productID); err != nil {
		h.logError(ctx, "failed to delete product", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// logError logs client errors at warn and everything else at error.
func (h *Handler) logError(ctx context.Context, msg string, err error) {
	level := slog.LevelError
	if dErrors.HTTPStatus(dErrors.CodeOf(err)) < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}
