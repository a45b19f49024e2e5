package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/app/repositories"
	"github.com/shashiranjanraj/delish/pkg/apperr"
	"github.com/shashiranjanraj/delish/pkg/event"
	"github.com/shashiranjanraj/delish/pkg/logger"
	"github.com/shashiranjanraj/delish/pkg/metrics"
)

// totalTolerance is the largest accepted difference between the client's
// declared total and the server-computed one.
const totalTolerance = 0.01

// Order event names.
const (
	EventOrderPlaced  = "order.placed"
	EventOrderDetails = "order.details_attached"
	EventOrderStatus  = "order.status_changed"
)

const (
	sourceCart   = "cart"
	sourceDirect = "direct"
)

// SubmitInput is a direct order submission. Items is the raw JSON of the
// item list (an array, or a string holding one); Total is the client's
// declared total as text.
type SubmitInput struct {
	UserID string
	Items  string
	Total  string
	models.DeliveryDetails
	PaymentImage string
}

// AttachInput attaches delivery details (and optionally a payment proof) to
// an existing order.
type AttachInput struct {
	UserID string
	models.DeliveryDetails
	PaymentImage string
}

// Dashboard is the admin overview.
type Dashboard struct {
	Orders []models.Order    `json:"orders"`
	Stats  models.OrderStats `json:"stats"`
}

// OrderOption customizes an OrderService.
type OrderOption func(*OrderService)

// WithIDGenerator replaces the order id generator.
func WithIDGenerator(fn func() string) OrderOption {
	return func(s *OrderService) { s.newID = fn }
}

// WithClock replaces the time source used for timestamps.
func WithClock(fn func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = fn }
}

// OrderService maintains the order ledger.
type OrderService struct {
	orders OrderRepository
	carts  CartRepository
	menu   MenuLookup
	events event.Publisher
	newID  func() string
	now    func() time.Time
}

func NewOrderService(orders OrderRepository, carts CartRepository, menu MenuLookup, events event.Publisher, opts ...OrderOption) *OrderService {
	if events == nil {
		events = event.Nop()
	}
	s := &OrderService{
		orders: orders,
		carts:  carts,
		menu:   menu,
		events: events,
		newID:  NewOrderID,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOrderID returns 8 upper-case hex characters from a random UUID.
func NewOrderID() string {
	id := uuid.New()
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// uniqueID draws ids until one is not already in orders.
func (s *OrderService) uniqueID(orders []models.Order) string {
	for {
		id := s.newID()
		if repositories.IndexOf(orders, id) < 0 {
			return id
		}
	}
}

// ── Checkout ─────────────────────────────────────────────────────────────────

// PlaceFromCart turns the user's cart into a pending order, then empties the
// cart. The two writes are independent: when the second fails the order is
// still placed and is returned together with ErrCartNotCleared.
func (s *OrderService) PlaceFromCart(ctx context.Context, userID string) (*models.Order, error) {
	const op = "orders.PlaceFromCart"
	log := logger.WithCtx(ctx)

	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingField.With(op, nil).WithField("userId")
	}

	carts, err := s.carts.Load()
	if err != nil {
		return nil, err
	}
	lines := carts.Lines(userID)
	if len(lines) == 0 {
		return nil, ErrEmptyCart.With(op, nil)
	}

	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}

	order := models.Order{
		OrderID:   s.uniqueID(orders),
		UserID:    userID,
		Items:     lines,
		Total:     models.Total(lines),
		Timestamp: s.now(),
		Status:    models.StatusPending,
	}
	orders = append(orders, order)
	if err := s.orders.Save(orders); err != nil {
		return nil, err
	}
	metrics.OrdersPlaced.WithLabelValues(sourceCart).Inc()
	log.Info("order placed from cart", "order_id", order.OrderID, "user_id", userID, "total", order.Total)
	s.publish(ctx, EventOrderPlaced, order)

	carts[userID] = []models.CartLine{}
	if err := s.carts.Save(carts); err != nil {
		log.Error("cart not cleared after checkout", "order_id", order.OrderID, "user_id", userID, "error", err)
		return &order, ErrCartNotCleared.With(op, err)
	}
	return &order, nil
}

// SubmitDirect validates a complete submission against the menu and appends
// it to the ledger as a pending order.
func (s *OrderService) SubmitDirect(ctx context.Context, in SubmitInput) (*models.Order, error) {
	const op = "orders.SubmitDirect"
	log := logger.WithCtx(ctx)

	order, err := s.validateSubmission(op, in)
	if err != nil {
		metrics.OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
		log.Warn("order submission rejected", "user_id", in.UserID, "error", err)
		return nil, err
	}

	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	order.OrderID = s.uniqueID(orders)
	order.Timestamp = s.now()
	order.Status = models.StatusPending

	orders = append(orders, *order)
	if err := s.orders.Save(orders); err != nil {
		return nil, err
	}
	metrics.OrdersPlaced.WithLabelValues(sourceDirect).Inc()
	log.Info("order submitted", "order_id", order.OrderID, "user_id", order.UserID, "total", order.Total,
		"payment_image", order.PaymentImage != "")
	s.publish(ctx, EventOrderPlaced, *order)
	return order, nil
}

func (s *OrderService) validateSubmission(op string, in SubmitInput) (*models.Order, error) {
	required := []struct{ name, value string }{
		{"userId", in.UserID},
		{"items", in.Items},
		{"total", in.Total},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, ErrMissingField.With(op, nil).WithField(f.name)
		}
	}
	if field := in.DeliveryDetails.FirstMissing(); field != "" {
		return nil, ErrMissingField.With(op, nil).WithField(field)
	}

	items, err := models.ParseOrderItems(in.Items)
	if err != nil {
		return nil, ErrItemsInvalid.With(op, err)
	}

	valid := make([]models.CartLine, 0, len(items))
	for _, it := range items {
		if it.ItemID == "" || it.Quantity <= 0 {
			continue
		}
		menuItem, ok, err := s.menu.FindItem(it.ItemID)
		if err != nil {
			return nil, err
		}
		if ok && menuItem.Name == it.Name && menuItem.Price == it.Price {
			valid = append(valid, it)
		}
	}
	if len(valid) != len(items) {
		return nil, ErrItemsInvalid.With(op, nil)
	}

	clientTotal, err := strconv.ParseFloat(strings.TrimSpace(in.Total), 64)
	if err != nil || math.IsNaN(clientTotal) || math.IsInf(clientTotal, 0) {
		return nil, ErrInvalidTotal.With(op, nil)
	}
	serverTotal := models.Total(valid)
	if math.Abs(serverTotal-clientTotal) > totalTolerance {
		return nil, ErrTotalMismatch.With(op, nil).
			WithMessage("Total mismatch: server %.2f, client %.2f", serverTotal, clientTotal)
	}

	return &models.Order{
		UserID:          in.UserID,
		DeliveryDetails: in.DeliveryDetails,
		Items:           valid,
		Total:           serverTotal,
		PaymentImage:    in.PaymentImage,
	}, nil
}

// ── Updates ──────────────────────────────────────────────────────────────────

// AttachDetails sets the delivery fields of an existing order. The previous
// payment proof is kept when in carries none. A userId that does not match
// the order's owner is logged and accepted.
func (s *OrderService) AttachDetails(ctx context.Context, orderID string, in AttachInput) (*models.Order, error) {
	const op = "orders.AttachDetails"
	log := logger.WithCtx(ctx)

	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	idx := repositories.IndexOf(orders, orderID)
	if idx < 0 {
		return nil, ErrOrderNotFound.With(op, nil).WithMessage("Order %s not found", orderID)
	}
	target := orders[idx]

	if in.UserID != "" && target.UserID != "" && in.UserID != target.UserID {
		log.Warn("attach details user mismatch", "order_id", orderID, "order_user", target.UserID, "request_user", in.UserID)
	}
	if field := in.DeliveryDetails.FirstMissing(); field != "" {
		return nil, ErrMissingField.With(op, nil).WithField(field)
	}

	target.DeliveryDetails = in.DeliveryDetails
	if in.PaymentImage != "" {
		target.PaymentImage = in.PaymentImage
	}
	now := s.now()
	target.UpdatedAt = &now
	orders[idx] = target

	if err := s.orders.Save(orders); err != nil {
		return nil, err
	}
	log.Info("order details attached", "order_id", orderID)
	s.publish(ctx, EventOrderDetails, target)
	return &target, nil
}

// UpdateStatus moves an order to status. The status is validated before the
// ledger is read, so an invalid status never causes a write.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status models.Status) (*models.Order, error) {
	const op = "orders.UpdateStatus"
	if !status.IsValid() {
		return nil, ErrInvalidStatus.With(op, nil)
	}

	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	idx := repositories.IndexOf(orders, orderID)
	if idx < 0 {
		return nil, ErrOrderNotFound.With(op, nil).WithMessage("Order %s not found", orderID)
	}

	now := s.now()
	orders[idx].Status = status
	orders[idx].UpdatedAt = &now
	if err := s.orders.Save(orders); err != nil {
		return nil, err
	}

	metrics.OrderStatusChanges.WithLabelValues(string(status)).Inc()
	logger.WithCtx(ctx).Info("order status updated", "order_id", orderID, "status", status)
	s.publish(ctx, EventOrderStatus, orders[idx])
	return &orders[idx], nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

// List returns every order in ledger order.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.orders.Load()
}

// Find returns one order.
func (s *OrderService) Find(ctx context.Context, orderID string) (*models.Order, error) {
	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	idx := repositories.IndexOf(orders, orderID)
	if idx < 0 {
		return nil, ErrOrderNotFound.With("orders.Find", nil).WithMessage("Order %s not found", orderID)
	}
	return &orders[idx], nil
}

// Dashboard returns all orders with summary figures.
func (s *OrderService) Dashboard(ctx context.Context) (Dashboard, error) {
	orders, err := s.orders.Load()
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{Orders: orders, Stats: models.Stats(orders)}, nil
}

func (s *OrderService) publish(ctx context.Context, name string, order models.Order) {
	if err := s.events.Publish(ctx, event.New(name, order)); err != nil {
		logger.WithCtx(ctx).Warn("order event not published", "event", name, "order_id", order.OrderID, "error", err)
	}
}

func rejectReason(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return "unknown"
}
