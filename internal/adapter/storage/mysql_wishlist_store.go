package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rl1809/commerce-core/internal/core/domain"
)

type MySQLWishlistStore struct {
	db *sql.DB
}

func NewMySQLWishlistStore(db *sql.DB) *MySQLWishlistStore {
	return &MySQLWishlistStore{db: db}
}

func (m *MySQLWishlistStore) FindByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT wi.product_id, wi.added_at, p.name, p.price, p.image
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.user_id = ?
		ORDER BY wi.added_at, wi.product_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query wishlist: %w", err)
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var item domain.WishlistItem
		err := rows.Scan(&item.Product.ID, &item.AddedAt,
			&item.Product.Name, &item.Product.Price, &item.Product.Image)
		if err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddToSet relies on the (user_id, product_id) primary key for set semantics;
// a duplicate insert is ignored and keeps the original added_at.
func (m *MySQLWishlistStore) AddToSet(ctx context.Context, userID, productID string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT IGNORE INTO wishlist_items (user_id, product_id, added_at)
		VALUES (?, ?, ?)`,
		userID, productID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert wishlist item: %w", err)
	}
	return nil
}

func (m *MySQLWishlistStore) Pull(ctx context.Context, userID, productID string) error {
	_, err := m.db.ExecContext(ctx, `
		DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ?`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	return nil
}
