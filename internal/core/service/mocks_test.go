package service

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/rl1809/commerce-core/internal/core/domain"
	"github.com/rl1809/commerce-core/internal/port"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// fakeCache is a deterministic in-memory Cache. TTLs are ignored; expiry is
// exercised against real Redis in the adapter tests.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte

	getCalls int
	setCalls int
	delCalls int

	failGet    bool
	failSet    bool
	failDelete bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getCalls++
	if c.failGet {
		return nil, errors.New("cache down")
	}
	if raw, ok := c.data[key]; ok {
		return raw, nil
	}
	return nil, port.ErrCacheMiss
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setCalls++
	if c.failSet {
		return errors.New("cache down")
	}
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.delCalls++
	if c.failDelete {
		return errors.New("cache down")
	}
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type fakeProductStore struct {
	mu       sync.Mutex
	products map[string]domain.Product

	findCalls int
	listCalls int

	failBulk  bool
	bulkCalls [][]domain.StockDelta
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[string]domain.Product)}
}

func (s *fakeProductStore) Create(ctx context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return nil
}

func (s *fakeProductStore) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.findCalls++
	if p, ok := s.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *fakeProductStore) Update(ctx context.Context, id string, patch port.ProductPatch) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.OldPrice != nil {
		p.OldPrice = patch.OldPrice
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	s.products[id] = p
	return &p, nil
}

func (s *fakeProductStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

func (s *fakeProductStore) List(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listCalls++
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeProductStore) BulkUpdateStock(ctx context.Context, deltas []domain.StockDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bulkCalls = append(s.bulkCalls, deltas)
	if s.failBulk {
		return errors.New("store down")
	}
	for _, d := range deltas {
		p, ok := s.products[d.ProductID]
		if !ok {
			continue
		}
		p.Stock -= d.Quantity
		if p.Stock < 0 {
			p.Stock = 0
		}
		s.products[d.ProductID] = p
	}
	return nil
}

func (s *fakeProductStore) stock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

type fakeCartStore struct {
	mu    sync.Mutex
	lines map[string][]domain.CartLine

	failClear  bool
	clearCalls int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{lines: make(map[string][]domain.CartLine)}
}

func (s *fakeCartStore) FindByUser(ctx context.Context, userID string) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := domain.Cart{UserID: userID}
	cart.Items = append(cart.Items, s.lines[userID]...)
	return cart, nil
}

func (s *fakeCartStore) AddLine(ctx context.Context, userID, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.lines[userID] {
		if line.Product.ID == productID {
			s.lines[userID][i].Quantity += qty
			return nil
		}
	}
	s.lines[userID] = append(s.lines[userID], domain.CartLine{
		Product:  domain.ProductSummary{ID: productID},
		Quantity: qty,
	})
	return nil
}

func (s *fakeCartStore) SetLineQuantity(ctx context.Context, userID, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.lines[userID] {
		if line.Product.ID == productID {
			s.lines[userID][i].Quantity = qty
		}
	}
	return nil
}

func (s *fakeCartStore) RemoveLine(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[userID][:0]
	for _, line := range s.lines[userID] {
		if line.Product.ID != productID {
			kept = append(kept, line)
		}
	}
	s.lines[userID] = kept
	return nil
}

func (s *fakeCartStore) ClearItems(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearCalls++
	if s.failClear {
		return errors.New("store down")
	}
	delete(s.lines, userID)
	return nil
}

func (s *fakeCartStore) quantity(userID, productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.lines[userID] {
		if line.Product.ID == productID {
			return line.Quantity
		}
	}
	return 0
}

type fakeWishlistStore struct {
	mu    sync.Mutex
	items map[string][]domain.WishlistItem
}

func newFakeWishlistStore() *fakeWishlistStore {
	return &fakeWishlistStore{items: make(map[string][]domain.WishlistItem)}
}

func (s *fakeWishlistStore) FindByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WishlistItem(nil), s.items[userID]...), nil
}

func (s *fakeWishlistStore) AddToSet(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items[userID] {
		if item.Product.ID == productID {
			return nil
		}
	}
	s.items[userID] = append(s.items[userID], domain.WishlistItem{
		Product: domain.ProductSummary{ID: productID},
		AddedAt: time.Now().UTC(),
	})
	return nil
}

func (s *fakeWishlistStore) Pull(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[userID][:0]
	for _, item := range s.items[userID] {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	s.items[userID] = kept
	return nil
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders []domain.Order

	failCreate bool
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{}
}

func (s *fakeOrderStore) Create(ctx context.Context, o domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failCreate {
		return errors.New("store down")
	}
	s.orders = append([]domain.Order{o}, s.orders...)
	return nil
}

func (s *fakeOrderStore) ListAll(ctx context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.orders...), nil
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type fakeBus struct {
	mu     sync.Mutex
	events []string
}

func (b *fakeBus) Broadcast(name string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, name)
}

func (b *fakeBus) broadcasts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}
