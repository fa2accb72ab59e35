package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/rl1809/commerce-core/internal/core/domain"
	"github.com/rl1809/commerce-core/internal/metrics"
	"github.com/rl1809/commerce-core/internal/port"
)

type CartService struct {
	carts    port.CartStore
	products port.ProductStore
	cache    port.Cache
	metrics  *metrics.Metrics
	logger   *log.Logger
}

func NewCartService(carts port.CartStore, products port.ProductStore, cache port.Cache, m *metrics.Metrics, logger *log.Logger) *CartService {
	return &CartService{carts: carts, products: products, cache: cache, metrics: m, logger: logger}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	if userID == "" {
		return domain.Cart{}, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	var cached domain.Cart
	if cacheFetch(ctx, s.cache, s.metrics, s.logger, cartKey(userID), "cart", &cached) {
		return cached, nil
	}

	return s.refresh(ctx, userID)
}

// AddItem upserts a line; an existing line's quantity is incremented, never
// overwritten. The increment itself is atomic in the store.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, qty int) (domain.Cart, error) {
	if err := s.validate(userID, productID); err != nil {
		return domain.Cart{}, err
	}
	if qty < 1 {
		return domain.Cart{}, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("add to cart: %w: %w", domain.ErrInternal, err)
	}
	if p == nil {
		return domain.Cart{}, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}

	if err := s.carts.AddLine(ctx, userID, productID, qty); err != nil {
		return domain.Cart{}, fmt.Errorf("add to cart: %w: %w", domain.ErrInternal, err)
	}

	return s.refresh(ctx, userID)
}

// UpdateQuantity overwrites a line's quantity. Quantities below 1 are
// rejected rather than treated as removal; RemoveItem is the removal path.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, qty int) (domain.Cart, error) {
	if err := s.validate(userID, productID); err != nil {
		return domain.Cart{}, err
	}
	if qty < 1 {
		return domain.Cart{}, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}

	if err := s.carts.SetLineQuantity(ctx, userID, productID, qty); err != nil {
		return domain.Cart{}, fmt.Errorf("update cart: %w: %w", domain.ErrInternal, err)
	}

	return s.refresh(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (domain.Cart, error) {
	if err := s.validate(userID, productID); err != nil {
		return domain.Cart{}, err
	}

	if err := s.carts.RemoveLine(ctx, userID, productID); err != nil {
		return domain.Cart{}, fmt.Errorf("remove from cart: %w: %w", domain.ErrInternal, err)
	}

	return s.refresh(ctx, userID)
}

// refresh re-reads the cart from the store and repopulates the user's cache
// entry so post-mutation reads see fresh data. An empty cart drops the entry.
func (s *CartService) refresh(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load cart: %w: %w", domain.ErrInternal, err)
	}

	if len(cart.Items) == 0 {
		cacheInvalidate(ctx, s.cache, s.metrics, s.logger, cartKey(userID))
	} else {
		cacheStore(ctx, s.cache, s.metrics, s.logger, cartKey(userID), cart)
	}
	return cart, nil
}

func (s *CartService) validate(userID, productID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if _, err := uuid.Parse(productID); err != nil {
		return fmt.Errorf("%w: invalid product id", domain.ErrValidation)
	}
	return nil
}
