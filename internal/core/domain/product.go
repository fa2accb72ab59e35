package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusInStock    ProductStatus = "in_stock"
	ProductStatusLowStock   ProductStatus = "low_stock"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

// Product is the catalog source-of-truth record. Status is stored as-is and is
// never derived from Stock; the two fields are independently mutable.
type Product struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	Price     decimal.Decimal  `json:"price"`
	OldPrice  *decimal.Decimal `json:"old_price,omitempty"`
	Stock     int              `json:"stock"`
	Status    ProductStatus    `json:"status"`
	Image     string           `json:"image,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// ProductSummary is the subset of product fields joined into cart, wishlist
// and order listings.
type ProductSummary struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

func (p Product) Summary() ProductSummary {
	return ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image}
}

// StockDelta describes one per-product decrement of a bulk stock update.
type StockDelta struct {
	ProductID string
	Quantity  int
}
