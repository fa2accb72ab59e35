package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rl1809/commerce-core/internal/core/domain"
	"github.com/rl1809/commerce-core/internal/port"
)

type OrderService struct {
	orders     port.OrderStore
	gateway    port.PaymentGateway
	reconciler *Reconciler
	logger     *log.Logger
}

func NewOrderService(orders port.OrderStore, gateway port.PaymentGateway, reconciler *Reconciler, logger *log.Logger) *OrderService {
	return &OrderService{orders: orders, gateway: gateway, reconciler: reconciler, logger: logger}
}

func (s *OrderService) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (domain.PaymentIntent, error) {
	if amount <= 0 {
		return domain.PaymentIntent{}, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if currency == "" {
		return domain.PaymentIntent{}, fmt.Errorf("%w: currency is required", domain.ErrValidation)
	}

	intent, err := s.gateway.CreateIntent(ctx, amount, currency)
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("create payment intent: %w: %w", domain.ErrInternal, err)
	}
	return intent, nil
}

type OrderItemInput struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type CreateOrderInput struct {
	UserID     string             `json:"user_id"`
	Customer   domain.Customer    `json:"customer"`
	Items      []OrderItemInput   `json:"items"`
	Shipping   domain.Shipping    `json:"shipping"`
	Totals     domain.Totals      `json:"totals"`
	IntentID   string             `json:"intent_id"`
	PaymentRef string             `json:"payment_ref"`
	Signature  string             `json:"signature"`
}

// CreateOrder validates the request, verifies payment authenticity, persists
// an immutable snapshot, and returns it. Stock decrement, cart clearing,
// cache invalidation and the order-created broadcast happen afterwards on the
// reconciler and never affect the returned order.
//
// Orders are not deduplicated by payment reference: the same reference
// presented twice creates two orders.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if err := validateOrderInput(in); err != nil {
		return domain.Order{}, err
	}

	if !s.gateway.VerifySignature(in.IntentID, in.PaymentRef, in.Signature) {
		return domain.Order{}, domain.ErrPaymentVerification
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		Customer:      in.Customer,
		Items:         snapshotItems(in.Items),
		Shipping:      in.Shipping,
		Totals:        in.Totals,
		PaymentStatus: domain.PaymentStatusPaid,
		PaymentRef:    in.PaymentRef,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w: %w", domain.ErrInternal, err)
	}

	s.reconciler.Enqueue(order, in.UserID)
	return order, nil
}

// ListOrders is not cached; order history is read rarely compared to catalog
// and cart.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w: %w", domain.ErrInternal, err)
	}
	return orders, nil
}

func validateOrderInput(in CreateOrderInput) error {
	if in.UserID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if in.Customer.Name == "" || in.Customer.Email == "" {
		return fmt.Errorf("%w: customer name and email are required", domain.ErrValidation)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order has no items", domain.ErrValidation)
	}
	for _, item := range in.Items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: item product id is required", domain.ErrValidation)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item quantity must be at least 1", domain.ErrValidation)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: item price must not be negative", domain.ErrValidation)
		}
	}
	if !in.Totals.Total.IsPositive() {
		return fmt.Errorf("%w: order total must be positive", domain.ErrValidation)
	}
	if in.IntentID == "" {
		return fmt.Errorf("%w: payment intent id is required", domain.ErrValidation)
	}
	return nil
}

func snapshotItems(items []OrderItemInput) []domain.OrderItem {
	snapshot := make([]domain.OrderItem, len(items))
	for i, item := range items {
		snapshot[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}
	return snapshot
}
