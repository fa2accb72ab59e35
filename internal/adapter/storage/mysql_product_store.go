package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rl1809/commerce-core/internal/core/domain"
	"github.com/rl1809/commerce-core/internal/port"
)

type MySQLProductStore struct {
	db *sql.DB
}

func NewMySQLProductStore(db *sql.DB) *MySQLProductStore {
	return &MySQLProductStore{db: db}
}

const productColumns = `id, name, category, price, old_price, stock, status, image, created_at`

func (m *MySQLProductStore) Create(ctx context.Context, p domain.Product) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Category, p.Price, nullDecimal(p.OldPrice),
		p.Stock, string(p.Status), p.Image, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (m *MySQLProductStore) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &p, nil
}

func (m *MySQLProductStore) Update(ctx context.Context, id string, patch port.ProductPatch) (*domain.Product, error) {
	var sets []string
	var args []any

	if patch.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *patch.Name)
	}
	if patch.Category != nil {
		sets, args = append(sets, "category = ?"), append(args, *patch.Category)
	}
	if patch.Price != nil {
		sets, args = append(sets, "price = ?"), append(args, *patch.Price)
	}
	if patch.OldPrice != nil {
		sets, args = append(sets, "old_price = ?"), append(args, *patch.OldPrice)
	}
	if patch.Stock != nil {
		sets, args = append(sets, "stock = ?"), append(args, *patch.Stock)
	}
	if patch.Status != nil {
		sets, args = append(sets, "status = ?"), append(args, string(*patch.Status))
	}
	if patch.Image != nil {
		sets, args = append(sets, "image = ?"), append(args, *patch.Image)
	}

	if len(sets) > 0 {
		args = append(args, id)
		_, err := m.db.ExecContext(ctx,
			`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
	}

	return m.FindByID(ctx, id)
}

func (m *MySQLProductStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := m.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (m *MySQLProductStore) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// BulkUpdateStock applies one guarded decrement per product. There is no
// surrounding transaction: a failure part-way leaves earlier decrements
// applied, and the remaining deltas are still attempted.
func (m *MySQLProductStore) BulkUpdateStock(ctx context.Context, deltas []domain.StockDelta) error {
	var errs []error
	for _, d := range deltas {
		_, err := m.db.ExecContext(ctx, `
			UPDATE products SET stock = GREATEST(stock - ?, 0) WHERE id = ?`,
			d.Quantity, d.ProductID,
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("decrement stock for %s: %w", d.ProductID, err))
		}
	}
	return errors.Join(errs...)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var oldPrice decimal.NullDecimal
	var status string

	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &oldPrice,
		&p.Stock, &status, &p.Image, &p.CreatedAt)
	if err != nil {
		return domain.Product{}, err
	}

	p.Status = domain.ProductStatus(status)
	if oldPrice.Valid {
		p.OldPrice = &oldPrice.Decimal
	}
	return p, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
