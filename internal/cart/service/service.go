package service

import (
	"context"
	"log/slog"

	catalogmodels "brewleaf/internal/catalog/models"
	"brewleaf/internal/cart/metrics"
	"brewleaf/internal/cart/models"
	"brewleaf/internal/pricing"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/money"
	"brewleaf/pkg/platform/tx"
	"brewleaf/pkg/requestcontext"
)

// Store persists one cart per session key. Load returns an empty cart for an
// unknown session.
type Store interface {
	Load(ctx context.Context, session string) (*models.Cart, error)
	Save(ctx context.Context, session string, cart *models.Cart) error
	Delete(ctx context.Context, session string) error
}

// ProductReader resolves the product a line item refers to.
type ProductReader interface {
	GetByID(ctx context.Context, productID id.ProductID) (*catalogmodels.Product, error)
}

// DrawerAction is one of the drawer toggles exposed to clients.
type DrawerAction string

const (
	DrawerOpen   DrawerAction = "open"
	DrawerClose  DrawerAction = "close"
	DrawerToggle DrawerAction = "toggle"
)

// View is a cart with its derived totals and price breakdown.
type View struct {
	Items                 []models.LineItem `json:"items"`
	TotalItems            int               `json:"total_items"`
	Pricing               pricing.Breakdown `json:"pricing"`
	FreeShippingRemaining money.Amount      `json:"free_shipping_remaining"`
	DrawerOpen            bool              `json:"drawer_open"`
}

// Service runs every cart mutation as load-modify-save under a per-session
// lock, so concurrent requests for one session never lose updates.
type Service struct {
	store    Store
	products ProductReader
	policy   pricing.Policy
	locks    *tx.ShardedLock
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPolicy(p pricing.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

func New(store Store, products ProductReader, opts ...Option) *Service {
	s := &Service{
		store:    store,
		products: products,
		policy:   pricing.DefaultPolicy(),
		locks:    tx.NewShardedLock(0),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the session's cart view.
func (s *Service) Get(ctx context.Context, session string) (*View, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	cart, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

// Items returns the session's line items, used by checkout.
func (s *Service) Items(ctx context.Context, session string) ([]models.LineItem, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	cart, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	return cart.Items(), nil
}

// AddItem adds quantity units of a product variant. The unit price and name
// are captured from the catalog at the time of adding.
func (s *Service) AddItem(ctx context.Context, session string, productID id.ProductID, variant models.Variant, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "quantity must be at least 1")
	}
	if variant == "" {
		variant = models.VariantWholeBean
	}
	if !variant.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown grind option")
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock {
		return nil, dErrors.New(dErrors.CodeValidation, "product is out of stock")
	}

	return s.mutate(ctx, session, "add", func(c *models.Cart) {
		c.AddItem(product.ID, variant, product.Name, product.Price, quantity)
	})
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
func (s *Service) UpdateQuantity(ctx context.Context, session string, productID id.ProductID, variant models.Variant, quantity int) (*View, error) {
	return s.mutate(ctx, session, "update", func(c *models.Cart) {
		c.UpdateQuantity(productID, variant, quantity)
	})
}

// RemoveItem deletes a line. Removing a missing line succeeds.
func (s *Service) RemoveItem(ctx context.Context, session string, productID id.ProductID, variant models.Variant) (*View, error) {
	return s.mutate(ctx, session, "remove", func(c *models.Cart) {
		c.RemoveItem(productID, variant)
	})
}

func (s *Service) Clear(ctx context.Context, session string) (*View, error) {
	return s.mutate(ctx, session, "clear", func(c *models.Cart) {
		c.Clear()
	})
}

func (s *Service) Drawer(ctx context.Context, session string, action DrawerAction) (*View, error) {
	var fn func(c *models.Cart)
	switch action {
	case DrawerOpen:
		fn = (*models.Cart).OpenDrawer
	case DrawerClose:
		fn = (*models.Cart).CloseDrawer
	case DrawerToggle:
		fn = (*models.Cart).ToggleDrawer
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unknown drawer action")
	}
	return s.mutate(ctx, session, "drawer_"+string(action), fn)
}

// Consume hands the session's line items to fn while holding the session
// lock, then empties the cart if fn succeeds. Lines added concurrently wait
// for fn and land in the emptied cart. When fn fails the cart is untouched.
func (s *Service) Consume(ctx context.Context, session string, fn func(ctx context.Context, items []models.LineItem) error) error {
	if err := requireSession(session); err != nil {
		return err
	}
	err := s.locks.WithLock(ctx, session, func(ctx context.Context) error {
		cart, err := s.load(ctx, session)
		if err != nil {
			return err
		}
		if err := fn(ctx, cart.Items()); err != nil {
			return err
		}
		cart.Clear()
		if err := s.store.Save(ctx, session, cart); err != nil {
			s.metrics.IncrementStoreFailure()
			s.logger.WarnContext(ctx, "cart consumed but not cleared",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.ObserveMutation("consume", 0)
	return nil
}

// Merge moves a guest cart into a signed-in user's cart. The guest cart is
// drained under its own lock, so a guest add either lands before the drain
// and is merged or after it and stays in the guest session.
func (s *Service) Merge(ctx context.Context, guestSession, userSession string) (*View, error) {
	if guestSession == userSession {
		return s.Get(ctx, userSession)
	}
	guest, err := s.drain(ctx, guestSession)
	if err != nil {
		return nil, err
	}
	view, err := s.mutate(ctx, userSession, "merge", func(c *models.Cart) {
		for _, li := range guest {
			c.AddItem(li.ProductID, li.Variant, li.Name, li.UnitPrice, li.Quantity)
		}
	})
	if err != nil {
		s.restore(ctx, guestSession, guest)
		return nil, err
	}
	return view, nil
}

// drain removes and returns a session's items in one locked step.
func (s *Service) drain(ctx context.Context, session string) ([]models.LineItem, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	var items []models.LineItem
	err := s.locks.WithLock(ctx, session, func(ctx context.Context) error {
		cart, err := s.load(ctx, session)
		if err != nil {
			return err
		}
		items = cart.Items()
		if len(items) == 0 {
			return nil
		}
		if err := s.store.Delete(ctx, session); err != nil {
			s.metrics.IncrementStoreFailure()
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete cart")
		}
		return nil
	})
	return items, err
}

// restore puts drained items back after a failed merge.
func (s *Service) restore(ctx context.Context, session string, items []models.LineItem) {
	if len(items) == 0 {
		return
	}
	_, err := s.mutate(ctx, session, "restore", func(c *models.Cart) {
		for _, li := range items {
			c.AddItem(li.ProductID, li.Variant, li.Name, li.UnitPrice, li.Quantity)
		}
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to restore guest cart after merge",
			"request_id", requestcontext.RequestID(ctx),
			"items", len(items),
			"error", err,
		)
	}
}

func (s *Service) mutate(ctx context.Context, session, op string, fn func(c *models.Cart)) (*View, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	var view *View
	err := s.locks.WithLock(ctx, session, func(ctx context.Context) error {
		cart, err := s.load(ctx, session)
		if err != nil {
			return err
		}
		fn(cart)
		if err := s.store.Save(ctx, session, cart); err != nil {
			s.metrics.IncrementStoreFailure()
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save cart")
		}
		view = s.view(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveMutation(op, view.TotalItems)
	return view, nil
}

func (s *Service) load(ctx context.Context, session string) (*models.Cart, error) {
	cart, err := s.store.Load(ctx, session)
	if err != nil {
		s.metrics.IncrementStoreFailure()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cart")
	}
	return cart, nil
}

func (s *Service) view(c *models.Cart) *View {
	subtotal := c.TotalPrice()
	return &View{
		Items:                 c.Items(),
		TotalItems:            c.TotalItems(),
		Pricing:               pricing.Compute(subtotal, s.policy),
		FreeShippingRemaining: pricing.FreeShippingRemaining(subtotal, s.policy),
		DrawerOpen:            c.DrawerOpen(),
	}
}

func requireSession(session string) error {
	if session == "" {
		return dErrors.New(dErrors.CodeBadRequest, "cart session is required")
	}
	return nil
}
