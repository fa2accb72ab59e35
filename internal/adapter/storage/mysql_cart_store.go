package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/commerce-core/internal/core/domain"
)

type MySQLCartStore struct {
	db *sql.DB
}

func NewMySQLCartStore(db *sql.DB) *MySQLCartStore {
	return &MySQLCartStore{db: db}
}

func (m *MySQLCartStore) FindByUser(ctx context.Context, userID string) (domain.Cart, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT ci.product_id, ci.quantity, p.name, p.price, p.image
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.position`, userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("query cart: %w", err)
	}
	defer rows.Close()

	cart := domain.Cart{UserID: userID}
	for rows.Next() {
		var line domain.CartLine
		err := rows.Scan(&line.Product.ID, &line.Quantity,
			&line.Product.Name, &line.Product.Price, &line.Product.Image)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("scan cart line: %w", err)
		}
		cart.Items = append(cart.Items, line)
	}
	return cart, rows.Err()
}

// AddLine increments in a single upsert so concurrent adds for the same
// user+product never lose updates.
func (m *MySQLCartStore) AddLine(ctx context.Context, userID, productID string, qty int) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		userID, productID, qty,
	)
	if err != nil {
		return fmt.Errorf("upsert cart line: %w", err)
	}
	return nil
}

func (m *MySQLCartStore) SetLineQuantity(ctx context.Context, userID, productID string, qty int) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ?`,
		qty, userID, productID,
	)
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	return nil
}

func (m *MySQLCartStore) RemoveLine(ctx context.Context, userID, productID string) error {
	_, err := m.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

func (m *MySQLCartStore) ClearItems(ctx context.Context, userID string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
