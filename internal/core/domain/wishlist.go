package domain

import "time"

// WishlistItem is one favorited product with resolved summary fields. The
// wishlist is a set: adding an already-present product is a no-op.
type WishlistItem struct {
	Product ProductSummary `json:"product"`
	AddedAt time.Time      `json:"added_at"`
}
