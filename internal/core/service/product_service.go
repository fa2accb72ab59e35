package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rl1809/commerce-core/internal/core/domain"
	"github.com/rl1809/commerce-core/internal/metrics"
	"github.com/rl1809/commerce-core/internal/port"
)

type ProductService struct {
	store   port.ProductStore
	cache   port.Cache
	metrics *metrics.Metrics
	logger  *log.Logger
}

func NewProductService(store port.ProductStore, cache port.Cache, m *metrics.Metrics, logger *log.Logger) *ProductService {
	return &ProductService{store: store, cache: cache, metrics: m, logger: logger}
}

type CreateProductInput struct {
	Name     string
	Category string
	Price    decimal.Decimal
	OldPrice *decimal.Decimal
	Stock    int
	Status   domain.ProductStatus
	Image    string
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	if in.Name == "" {
		return domain.Product{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if in.Category == "" {
		return domain.Product{}, fmt.Errorf("%w: category is required", domain.ErrValidation)
	}
	if in.Price.IsNegative() {
		return domain.Product{}, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if in.Stock < 0 {
		return domain.Product{}, fmt.Errorf("%w: stock must not be negative", domain.ErrValidation)
	}
	if in.Status == "" {
		in.Status = domain.ProductStatusInStock
	}
	if !validStatus(in.Status) {
		return domain.Product{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, in.Status)
	}

	p := domain.Product{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Category:  in.Category,
		Price:     in.Price,
		OldPrice:  in.OldPrice,
		Stock:     in.Stock,
		Status:    in.Status,
		Image:     in.Image,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Create(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w: %w", domain.ErrInternal, err)
	}

	cacheInvalidate(ctx, s.cache, s.metrics, s.logger, productsAllKey)
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, fmt.Errorf("%w: invalid product id", domain.ErrValidation)
	}

	var cached domain.Product
	if cacheFetch(ctx, s.cache, s.metrics, s.logger, productKey(id), "product", &cached) {
		return cached, nil
	}

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w: %w", domain.ErrInternal, err)
	}
	if p == nil {
		return domain.Product{}, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}

	cacheStore(ctx, s.cache, s.metrics, s.logger, productKey(id), p)
	return *p, nil
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	var cached []domain.Product
	if cacheFetch(ctx, s.cache, s.metrics, s.logger, productsAllKey, "products", &cached) {
		return cached, nil
	}

	products, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w: %w", domain.ErrInternal, err)
	}

	cacheStore(ctx, s.cache, s.metrics, s.logger, productsAllKey, products)
	return products, nil
}

func (s *ProductService) Update(ctx context.Context, id string, patch port.ProductPatch) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, fmt.Errorf("%w: invalid product id", domain.ErrValidation)
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return domain.Product{}, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return domain.Product{}, fmt.Errorf("%w: stock must not be negative", domain.ErrValidation)
	}
	if patch.Status != nil && !validStatus(*patch.Status) {
		return domain.Product{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *patch.Status)
	}

	p, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w: %w", domain.ErrInternal, err)
	}
	if p == nil {
		return domain.Product{}, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}

	cacheInvalidate(ctx, s.cache, s.metrics, s.logger, productKey(id), productsAllKey)
	return *p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid product id", domain.ErrValidation)
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w: %w", domain.ErrInternal, err)
	}
	if !deleted {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}

	cacheInvalidate(ctx, s.cache, s.metrics, s.logger, productKey(id), productsAllKey)
	return nil
}

func validStatus(st domain.ProductStatus) bool {
	switch st {
	case domain.ProductStatusInStock, domain.ProductStatusLowStock, domain.ProductStatusOutOfStock:
		return true
	}
	return false
}
