package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rl1809/commerce-core/internal/core/domain"
)

// ProductPatch carries the fields a catalog update may change. Nil fields are
// left untouched. Status and Stock are independent; neither derives the other.
type ProductPatch struct {
	Name     *string
	Category *string
	Price    *decimal.Decimal
	OldPrice *decimal.Decimal
	Stock    *int
	Status   *domain.ProductStatus
	Image    *string
}

type ProductStore interface {
	Create(ctx context.Context, p domain.Product) error

	// FindByID returns nil when the product does not exist.
	FindByID(ctx context.Context, id string) (*domain.Product, error)

	// Update applies patch and returns the updated product, or nil when the
	// product does not exist.
	Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)

	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// List returns all products, most recent first.
	List(ctx context.Context) ([]domain.Product, error)

	// BulkUpdateStock applies one atomic decrement per delta, clamped at zero.
	// The set of decrements is not atomic as a whole.
	BulkUpdateStock(ctx context.Context, deltas []domain.StockDelta) error
}

type CartStore interface {
	// FindByUser returns the cart with product summaries resolved; a user
	// without a cart gets an empty one.
	FindByUser(ctx context.Context, userID string) (domain.Cart, error)

	// AddLine upserts a line, incrementing the quantity if the line exists.
	// The increment is atomic with respect to concurrent adds.
	AddLine(ctx context.Context, userID, productID string, qty int) error

	// SetLineQuantity overwrites an existing line's quantity; no-op when the
	// line is absent.
	SetLineQuantity(ctx context.Context, userID, productID string, qty int) error

	// RemoveLine deletes a line if present.
	RemoveLine(ctx context.Context, userID, productID string) error

	// ClearItems empties the cart without deleting it.
	ClearItems(ctx context.Context, userID string) error
}

type WishlistStore interface {
	FindByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error)

	// AddToSet inserts with set semantics; inserting a present product is a no-op.
	AddToSet(ctx context.Context, userID, productID string) error

	// Pull removes a product from the set if present.
	Pull(ctx context.Context, userID, productID string) error
}

type OrderStore interface {
	Create(ctx context.Context, o domain.Order) error

	// ListAll returns all orders, most recent first, with display summaries
	// resolved onto the snapshot items.
	ListAll(ctx context.Context) ([]domain.Order, error)
}
