package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	cartmodels "brewleaf/internal/cart/models"
	"brewleaf/internal/order/metrics"
	"brewleaf/internal/order/models"
	"brewleaf/internal/platform/events"
	"brewleaf/internal/pricing"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/money"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/requestcontext"
)

var tracer = otel.Tracer("brewleaf/order")

const recentOrdersLimit = 10

type Store interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, orderID id.OrderID) (*models.Order, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, orderID id.OrderID, status models.Status) error
	Count(ctx context.Context) (int, error)
	Revenue(ctx context.Context) (money.Amount, error)
	Recent(ctx context.Context, limit int) ([]*models.Order, error)
}

// Cart hands checkout the session's items under the session lock and empties
// the cart only when fn succeeds.
type Cart interface {
	Consume(ctx context.Context, session string, fn func(ctx context.Context, items []cartmodels.LineItem) error) error
}

type ProductCounter interface {
	Count(ctx context.Context) (int, error)
}

type CustomerCounter interface {
	CountCustomers(ctx context.Context) (int, error)
}

type Service struct {
	store     Store
	cart      Cart
	products  ProductCounter
	customers CustomerCounter
	policy    pricing.Policy
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
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

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithPolicy(p pricing.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

func New(store Store, cart Cart, products ProductCounter, customers CustomerCounter, opts ...Option) *Service {
	s := &Service{
		store:     store,
		cart:      cart,
		products:  products,
		customers: customers,
		policy:    pricing.DefaultPolicy(),
		publisher: events.Nop{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout turns the user's cart into an order. Reading the cart, storing the
// order and clearing the cart happen while the cart session is locked, so a
// concurrent add is never cleared unordered and a cart is ordered once.
func (s *Service) Checkout(ctx context.Context, userID id.UserID, address models.Address) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "order.Checkout")
	defer span.End()
	started := time.Now()

	order, err := s.checkout(ctx, userID, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout failed")
		s.metrics.IncrementCheckoutFailure(string(dErrors.CodeOf(err)))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.Int("order.items", len(order.Items)),
		attribute.Int64("order.total_cents", order.Total.Cents()),
	)
	s.metrics.ObserveOrderPlaced(order.Total, started)
	return order, nil
}

func (s *Service) checkout(ctx context.Context, userID id.UserID, address models.Address) (*models.Order, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "sign in to check out")
	}
	address.Normalize()
	if err := address.Validate(); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.cart.Consume(ctx, cartmodels.UserSession(userID), func(ctx context.Context, lines []cartmodels.LineItem) error {
		if len(lines) == 0 {
			return dErrors.New(dErrors.CodeValidation, "cart is empty")
		}
		var err error
		order, err = s.newOrder(ctx, userID, address, lines)
		if err != nil {
			return err
		}
		if err := s.store.Create(ctx, order); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order placed",
		"request_id", requestcontext.RequestID(ctx),
		"order_id", order.ID.String(),
		"total", order.Total.String(),
	)
	s.publish(ctx, events.TypeOrderPlaced, order)
	return order, nil
}

func (s *Service) newOrder(ctx context.Context, userID id.UserID, address models.Address, lines []cartmodels.LineItem) (*models.Order, error) {
	var subtotal money.Amount
	items := make([]models.Item, len(lines))
	for i, li := range lines {
		items[i] = models.Item{
			ProductID: li.ProductID,
			Name:      li.Name,
			Variant:   string(li.Variant),
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
		}
		subtotal = subtotal.Add(li.Subtotal())
	}
	breakdown, err := pricing.Quote(subtotal, s.policy)
	if err != nil {
		return nil, err
	}
	return &models.Order{
		ID:              id.NewOrderID(),
		UserID:          userID,
		Items:           items,
		Subtotal:        breakdown.Subtotal,
		Shipping:        breakdown.Shipping,
		Tax:             breakdown.Tax,
		Total:           breakdown.Total,
		ShippingAddress: address,
		Status:          models.StatusPending,
		CreatedAt:       requestcontext.Now(ctx),
	}, nil
}

func (s *Service) ListForUser(ctx context.Context, userID id.UserID) ([]*models.Order, error) {
	orders, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list orders")
	}
	return orders, nil
}

// Get returns an order to its owner or to an admin.
func (s *Service) Get(ctx context.Context, orderID id.OrderID) (*models.Order, error) {
	order, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, translateErr(err, "failed to load order")
	}
	if order.UserID != requestcontext.UserID(ctx) && requestcontext.UserRole(ctx) != requestcontext.RoleAdmin {
		// Not revealing that the order exists.
		return nil, dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *Service) UpdateStatus(ctx context.Context, orderID id.OrderID, status models.Status) (*models.Order, error) {
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown order status")
	}
	if err := s.store.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, translateErr(err, "failed to update order")
	}
	order, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, translateErr(err, "failed to load order")
	}
	s.metrics.IncrementStatusChange(string(status))
	s.publish(ctx, events.TypeOrderStatusChange, order)
	return order, nil
}

// Stats gathers the dashboard numbers concurrently.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalOrders, err = s.store.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRevenue, err = s.store.Revenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalCustomers, err = s.customers.CountCustomers(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalProducts, err = s.products.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentOrders, err = s.store.Recent(gctx, recentOrdersLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stats")
	}
	if stats.RecentOrders == nil {
		stats.RecentOrders = []*models.Order{}
	}
	return &stats, nil
}

func (s *Service) publish(ctx context.Context, eventType string, order *models.Order) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:       eventType,
		Key:        order.ID.String(),
		OccurredAt: requestcontext.Now(ctx),
		Payload:    order,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish order event",
			"request_id", requestcontext.RequestID(ctx),
			"type", eventType,
			"error", err,
		)
	}
}

func translateErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
