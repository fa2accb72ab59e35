package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/commerce-core/internal/core/domain"
)

type MySQLOrderStore struct {
	db *sql.DB
}

func NewMySQLOrderStore(db *sql.DB) *MySQLOrderStore {
	return &MySQLOrderStore{db: db}
}

// Create persists the order row and its snapshot items in one transaction.
// The snapshot is the only record of what was bought; it is never re-derived
// from the catalog.
func (m *MySQLOrderStore) Create(ctx context.Context, o domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, customer_email, customer_phone,
			ship_address, ship_city, ship_state, ship_postal_code, ship_country,
			subtotal, shipping_fee, total, payment_status, payment_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Customer.Name, o.Customer.Email, o.Customer.Phone,
		o.Shipping.Address, o.Shipping.City, o.Shipping.State,
		o.Shipping.PostalCode, o.Shipping.Country,
		o.Totals.Subtotal, o.Totals.Shipping, o.Totals.Total,
		o.PaymentStatus, o.PaymentRef, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, price, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			o.ID, item.ProductID, item.Name, item.Price, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (m *MySQLOrderStore) ListAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, customer_name, customer_email, customer_phone,
			ship_address, ship_city, ship_state, ship_postal_code, ship_country,
			subtotal, shipping_fee, total, payment_status, payment_ref, created_at
		FROM orders ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	index := make(map[string]int)
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(&o.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
			&o.Shipping.Address, &o.Shipping.City, &o.Shipping.State,
			&o.Shipping.PostalCode, &o.Shipping.Country,
			&o.Totals.Subtotal, &o.Totals.Shipping, &o.Totals.Total,
			&o.PaymentStatus, &o.PaymentRef, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	if err := m.attachItems(ctx, orders, index); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads snapshot items for all orders, resolving the display
// image from the live catalog when the product still exists.
func (m *MySQLOrderStore) attachItems(ctx context.Context, orders []domain.Order, index map[string]int) error {
	rows, err := m.db.QueryContext(ctx, `
		SELECT oi.order_id, oi.product_id, oi.name, oi.price, oi.quantity,
			COALESCE(p.image, '')
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		ORDER BY oi.id`)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item domain.OrderItem
		err := rows.Scan(&orderID, &item.ProductID, &item.Name,
			&item.Price, &item.Quantity, &item.Image)
		if err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}
