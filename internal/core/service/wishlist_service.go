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

type WishlistService struct {
	wishlists port.WishlistStore
	products  port.ProductStore
	cache     port.Cache
	metrics   *metrics.Metrics
	logger    *log.Logger
}

func NewWishlistService(wishlists port.WishlistStore, products port.ProductStore, cache port.Cache, m *metrics.Metrics, logger *log.Logger) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products, cache: cache, metrics: m, logger: logger}
}

func (s *WishlistService) GetWishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	var cached []domain.WishlistItem
	if cacheFetch(ctx, s.cache, s.metrics, s.logger, wishlistKey(userID), "wishlist", &cached) {
		return cached, nil
	}

	return s.refresh(ctx, userID)
}

// AddItem has set semantics: adding a product already on the wishlist is a
// no-op, never a duplicate.
func (s *WishlistService) AddItem(ctx context.Context, userID, productID string) ([]domain.WishlistItem, error) {
	if err := s.validate(userID, productID); err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("add to wishlist: %w: %w", domain.ErrInternal, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}

	if err := s.wishlists.AddToSet(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("add to wishlist: %w: %w", domain.ErrInternal, err)
	}

	return s.refresh(ctx, userID)
}

func (s *WishlistService) RemoveItem(ctx context.Context, userID, productID string) ([]domain.WishlistItem, error) {
	if err := s.validate(userID, productID); err != nil {
		return nil, err
	}

	if err := s.wishlists.Pull(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("remove from wishlist: %w: %w", domain.ErrInternal, err)
	}

	return s.refresh(ctx, userID)
}

func (s *WishlistService) refresh(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	items, err := s.wishlists.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load wishlist: %w: %w", domain.ErrInternal, err)
	}

	if len(items) == 0 {
		cacheInvalidate(ctx, s.cache, s.metrics, s.logger, wishlistKey(userID))
		return []domain.WishlistItem{}, nil
	}

	cacheStore(ctx, s.cache, s.metrics, s.logger, wishlistKey(userID), items)
	return items, nil
}

func (s *WishlistService) validate(userID, productID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if _, err := uuid.Parse(productID); err != nil {
		return fmt.Errorf("%w: invalid product id", domain.ErrValidation)
	}
	return nil
}
