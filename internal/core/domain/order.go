package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type Shipping struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// OrderItem is an immutable snapshot of a purchased line captured at order
// creation. Name and Price are frozen from the request; Image is resolved
// from the live catalog for display only and is not part of the snapshot.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

const PaymentStatusPaid = "paid"

// Order reaches its single terminal state at creation; payment is verified
// before the record exists and nothing mutates it afterwards.
type Order struct {
	ID            string      `json:"id"`
	Customer      Customer    `json:"customer"`
	Items         []OrderItem `json:"items"`
	Shipping      Shipping    `json:"shipping"`
	Totals        Totals      `json:"totals"`
	PaymentStatus string      `json:"payment_status"`
	PaymentRef    string      `json:"payment_ref"`
	CreatedAt     time.Time   `json:"created_at"`
}

// PaymentIntent is what the gateway returns for a checkout about to happen.
// Amount is in minor currency units, as gateways quote it.
type PaymentIntent struct {
	IntentID string `json:"intent_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
