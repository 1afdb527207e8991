// Package orders places orders from product references, snapshotting the
// catalog state at placement time, and manages their status afterwards.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"phoneshop/internal/apperr"
	"phoneshop/internal/events"
	"phoneshop/internal/models"
	"phoneshop/internal/store"
)

type LineRequest struct {
	ProductID primitive.ObjectID
	Quantity  int
}

type Customer struct {
	Name    string
	Phone   string
	Address string
}

// PlaceRequest is a validated order request. UserID is set when the caller is authenticated.
type PlaceRequest struct {
	Items         []LineRequest
	Customer      Customer
	PaymentMethod string
	UserID        *primitive.ObjectID
}

type Option func(*Service)

// WithClock overrides the clock used for order timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithEnforcedTransitions rejects status updates the lifecycle graph does not allow.
func WithEnforcedTransitions(enforce bool) Option {
	return func(s *Service) { s.enforceTransitions = enforce }
}

type Service struct {
	orders    store.OrderStore
	products  store.CatalogStore
	carts     store.CartStore
	users     store.UserStore
	publisher events.Publisher
	logger    *zap.Logger

	now                func() time.Time
	enforceTransitions bool
}

func NewService(stores store.Stores, publisher events.Publisher, logger *zap.Logger, opts ...Option) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	s := &Service{
		orders:    stores.Orders,
		products:  stores.Products,
		carts:     stores.Carts,
		users:     stores.Users,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validatePlaceRequest(req PlaceRequest) error {
	var details []string
	if len(req.Items) == 0 {
		details = append(details, "items must contain at least one item")
	}
	for i, item := range req.Items {
		if item.ProductID.IsZero() {
			details = append(details, fmt.Sprintf("items[%d].product is required", i))
		}
		if item.Quantity < 1 {
			details = append(details, fmt.Sprintf("items[%d].quantity must be at least 1", i))
		}
	}
	if strings.TrimSpace(req.Customer.Name) == "" {
		details = append(details, "customer.name is required")
	}
	if strings.TrimSpace(req.Customer.Phone) == "" {
		details = append(details, "customer.phone is required")
	}
	if strings.TrimSpace(req.Customer.Address) == "" {
		details = append(details, "customer.address is required")
	}
	if req.PaymentMethod != models.PaymentMethodCOD {
		details = append(details, "paymentMethod must be COD")
	}
	if len(details) > 0 {
		return apperr.Validation("validation failed", details...)
	}
	return nil
}

// Total sums price times quantity over the line items in exact decimal arithmetic.
func Total(items []models.OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total.InexactFloat64()
}

// Place resolves every requested product in one lookup, snapshots name, price
// and first image into the order lines and persists the order as pending. No
// order is written when any product is unknown. Clearing the caller's cart and
// publishing the event happen after the order is committed and never fail it.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (*models.Order, error) {
	if err := validatePlaceRequest(req); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}

	found, err := s.products.FindByIDs(ctx, store.UniqueIDs(ids))
	if err != nil {
		return nil, apperr.Store("resolve order products", err)
	}
	byID := make(map[primitive.ObjectID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, apperr.InvalidReference("Invalid product in cart", line.ProductID.Hex())
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Image:     product.FirstImage(),
		})
	}

	now := s.now()
	order := models.Order{
		Items:           items,
		TotalPrice:      Total(items),
		CustomerName:    strings.TrimSpace(req.Customer.Name),
		CustomerPhone:   strings.TrimSpace(req.Customer.Phone),
		CustomerAddress: strings.TrimSpace(req.Customer.Address),
		PaymentMethod:   req.PaymentMethod,
		Status:          models.StatusPending,
		UserID:          req.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.Insert(ctx, &order); err != nil {
		return nil, apperr.Store("insert order", err)
	}

	if req.UserID != nil {
		s.logger.Info("order created", zap.String("orderId", order.ID.Hex()), zap.String("userId", req.UserID.Hex()))
		if err := s.carts.Clear(ctx, *req.UserID); err != nil {
			s.logger.Warn("cart clear after order failed",
				zap.String("orderId", order.ID.Hex()),
				zap.String("userId", req.UserID.Hex()),
				zap.Error(err),
			)
		}
	} else {
		s.logger.Info("guest order created", zap.String("orderId", order.ID.Hex()))
	}

	s.publish(ctx, events.TypeOrderCreated, order)
	return &order, nil
}

func (s *Service) publish(ctx context.Context, eventType string, order models.Order) {
	if err := s.publisher.Publish(ctx, events.NewOrderEvent(eventType, order)); err != nil {
		s.logger.Warn("order event publish failed",
			zap.String("type", eventType),
			zap.String("orderId", order.ID.Hex()),
			zap.Error(err),
		)
	}
}

// Get returns the order with every line resolved against the current catalog
// and the owning user attached.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.OrderView, error) {
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, apperr.Store("find order", err)
	}

	views, err := ResolveViews(ctx, s.products, s.users, []models.Order{*order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns every order, newest first.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	list, err := s.orders.List(ctx, store.OrderFilter{}, store.NewestFirst(0))
	if err != nil {
		return nil, apperr.Store("list orders", err)
	}
	return list, nil
}

func (s *Service) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	list, err := s.orders.List(ctx, store.OrderFilter{UserID: &userID}, store.NewestFirst(0))
	if err != nil {
		return nil, apperr.Store("list user orders", err)
	}
	return list, nil
}

// UpdateStatus sets the order status. Any known status is accepted unless
// transitions are enforced, in which case the lifecycle graph applies.
func (s *Service) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperr.Validation("invalid status", "status must be one of pending, processing, shipped, completed, cancelled")
	}

	if s.enforceTransitions {
		current, err := s.orders.FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		if err != nil {
			return nil, apperr.Store("find order", err)
		}
		if !current.Status.CanTransition(status) {
			return nil, apperr.Validation("invalid status transition",
				fmt.Sprintf("cannot move order from %s to %s", current.Status, status))
		}
	}

	updated, err := s.orders.UpdateStatus(ctx, id, status, s.now())
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, apperr.Store("update order status", err)
	}

	s.logger.Info("order status updated", zap.String("orderId", id.Hex()), zap.String("status", string(status)))
	s.publish(ctx, events.TypeOrderStatusChanged, *updated)
	return updated, nil
}
