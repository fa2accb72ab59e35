package domain

// CartLine is one cart entry joined with its product summary. Quantity is
// always >= 1; a line that would drop below 1 is removed, never persisted.
type CartLine struct {
	Product  ProductSummary `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart holds one user's lines in insertion order. A user has at most one cart;
// it is created lazily on first mutation and cleared, not deleted, on checkout.
type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartLine `json:"items"`
}
