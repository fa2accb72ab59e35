package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/commerce-core/internal/core/domain"
	"github.com/rl1809/commerce-core/internal/metrics"
	"github.com/rl1809/commerce-core/internal/port"
)

func newProductService(store *fakeProductStore, cache *fakeCache) *ProductService {
	return NewProductService(store, cache, metrics.New(), testLogger())
}

func seedProduct(t *testing.T, store *fakeProductStore, stock int) domain.Product {
	t.Helper()
	p := domain.Product{
		ID:        uuid.NewString(),
		Name:      "keyboard",
		Category:  "electronics",
		Price:     decimal.NewFromInt(100),
		Stock:     stock,
		Status:    domain.ProductStatusInStock,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Create(context.Background(), p))
	return p
}

func TestProductGet_MalformedID(t *testing.T) {
	store := newFakeProductStore()
	cache := newFakeCache()
	svc := newProductService(store, cache)

	_, err := svc.Get(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, domain.ErrValidation)

	// fails fast: neither store nor cache was touched
	assert.Zero(t, store.findCalls)
	assert.Zero(t, cache.getCalls)
}

func TestProductGet_ReadThrough(t *testing.T) {
	store := newFakeProductStore()
	cache := newFakeCache()
	svc := newProductService(store, cache)
	p := seedProduct(t, store, 10)

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, 1, store.findCalls)
	assert.True(t, cache.has("product:"+p.ID))

	// second read is served from cache
	got, err = svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, 1, store.findCalls)
}

func TestProductGet_NotFound(t *testing.T) {
	svc := newProductService(newFakeProductStore(), newFakeCache())

	_, err := svc.Get(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductGet_CacheFailureFallsBack(t *testing.T) {
	store := newFakeProductStore()
	cache := newFakeCache()
	cache.failGet = true
	cache.failSet = true
	svc := newProductService(store, cache)
	p := seedProduct(t, store, 5)

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestProductList_ReadThrough(t *testing.T) {
	store := newFakeProductStore()
	cache := newFakeCache()
	svc := newProductService(store, cache)
	seedProduct(t, store, 1)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls)
	assert.True(t, cache.has("products:all"))

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls)
}

func TestProductCreate_InvalidatesListing(t *testing.T) {
	store := newFakeProductStore()
	cache := newFakeCache()
	svc := newProductService(store, cache)
	cache.data["products:all"] = []byte(`[]`)

	_, err := svc.Create(context.Background(), CreateProductInput{
		Name:     "mouse",
		Category: "electronics",
		Price:    decimal.NewFromInt(25),
		Stock:    3,
	})
	require.NoError(t, err)
	assert.False(t, cache.has("products:all"))
}

func TestProductCreate_Validation(t *testing.T) {
	svc := newProductService(newFakeProductStore(), newFakeCache())

	cases := []CreateProductInput{
		{Category: "c", Price: decimal.NewFromInt(1)},                        // no name
		{Name: "n", Price: decimal.NewFromInt(1)},                            // no category
		{Name: "n", Category: "c", Price: decimal.NewFromInt(-1)},            // negative price
		{Name: "n", Category: "c", Price: decimal.NewFromInt(1), Stock: -1},  // negative stock
		{Name: "n", Category: "c", Price: decimal.NewFromInt(1), Status: "x"},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestProductUpdate_InvalidatesBothKeys(t *testing.T) {
	store := newFakeProductStore()
	cache := newFakeCache()
	svc := newProductService(store, cache)
	p := seedProduct(t, store, 10)

	cache.data["products:all"] = []byte(`[]`)
	cache.data["product:"+p.ID] = []byte(`{}`)

	name := "mechanical keyboard"
	_, err := svc.Update(context.Background(), p.ID, port.ProductPatch{Name: &name})
	require.NoError(t, err)

	assert.False(t, cache.has("products:all"))
	assert.False(t, cache.has("product:"+p.ID))
}

func TestProductUpdate_NotFound(t *testing.T) {
	svc := newProductService(newFakeProductStore(), newFakeCache())

	name := "ghost"
	_, err := svc.Update(context.Background(), uuid.NewString(), port.ProductPatch{Name: &name})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUpdate_StockDoesNotTouchStatus(t *testing.T) {
	store := newFakeProductStore()
	svc := newProductService(store, newFakeCache())
	p := seedProduct(t, store, 10)

	zero := 0
	updated, err := svc.Update(context.Background(), p.ID, port.ProductPatch{Stock: &zero})
	require.NoError(t, err)

	// status is stored, not derived: zero stock leaves it untouched
	assert.Equal(t, 0, updated.Stock)
	assert.Equal(t, domain.ProductStatusInStock, updated.Status)
}

// Invalidation is advisory: the store write already happened, so a failed
// cache delete is logged and the write still reports success.
func TestProductUpdate_InvalidationFailureDoesNotFailWrite(t *testing.T) {
	store := newFakeProductStore()
	cache := newFakeCache()
	cache.failDelete = true
	svc := newProductService(store, cache)
	p := seedProduct(t, store, 10)

	name := "mechanical keyboard"
	updated, err := svc.Update(context.Background(), p.ID, port.ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "mechanical keyboard", updated.Name)

	// invalidation was attempted, and the store reflects the write
	assert.Equal(t, 1, cache.delCalls)
	got, err := store.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "mechanical keyboard", got.Name)
}

func TestProductDelete_InvalidationFailureDoesNotFailWrite(t *testing.T) {
	store := newFakeProductStore()
	cache := newFakeCache()
	cache.failDelete = true
	svc := newProductService(store, cache)
	p := seedProduct(t, store, 10)

	require.NoError(t, svc.Delete(context.Background(), p.ID))

	got, err := store.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductDelete_NotFound(t *testing.T) {
	svc := newProductService(newFakeProductStore(), newFakeCache())

	err := svc.Delete(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductDelete_Invalidates(t *testing.T) {
	store := newFakeProductStore()
	cache := newFakeCache()
	svc := newProductService(store, cache)
	p := seedProduct(t, store, 10)
	cache.data["product:"+p.ID] = []byte(`{}`)
	cache.data["products:all"] = []byte(`[]`)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	assert.False(t, cache.has("product:"+p.ID))
	assert.False(t, cache.has("products:all"))
}
