package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freshmart/internal/models"
)

const productColumns = `id, name, COALESCE(description, '') as description, type, icon,
	price, stock, is_active, is_featured, created_at, updated_at`

// ErrNotFound aliases the domain sentinel for convenience at call sites
var ErrNotFound = models.ErrNotFound

func scanProduct(row *sql.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Type, &p.Icon,
		&p.Price, &p.Stock, &p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func productByID(ctx context.Context, q queryer, id string) (*models.Product, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id)
	return scanProduct(row)
}

func (s *Store) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	return productByID(ctx, s.db, id)
}

// ProductByID reads a product inside the transaction. Under InnoDB's default
// isolation this is the pre-check only; the conditional DecrementStock below is
// what actually serializes concurrent checkouts against the same product.
func (t *Tx) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	return productByID(ctx, t.tx, id)
}

func (s *Store) ProductByName(ctx context.Context, name string) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE name = ? AND is_active = TRUE", name)
	return scanProduct(row)
}

// ListProducts returns products ordered newest first. With activeOnly set,
// soft-deleted products are filtered out (the storefront view).
func (s *Store) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Type, &p.Icon,
			&p.Price, &p.Stock, &p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, type, icon, price, stock, is_active, is_featured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Type, p.Icon, p.Price, p.Stock, p.IsActive, p.IsFeatured)
	return err
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, type = ?, icon = ?, price = ?, stock = ?, is_active = ?, is_featured = ?
		WHERE id = ?
	`, p.Name, p.Description, p.Type, p.Icon, p.Price, p.Stock, p.IsActive, p.IsFeatured, p.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock conditionally takes qty units off a product's stock.
// The WHERE clause guards against going negative: a false return means a
// concurrent order won the remaining stock and the caller must abort.
func (t *Tx) DecrementStock(ctx context.Context, productID string, qty int) (bool, error) {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?",
		qty, productID, qty)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IncrementStock restores qty units of stock, with no upper bound check
func (t *Tx) IncrementStock(ctx context.Context, productID string, qty int) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE products SET stock = stock + ? WHERE id = ?", qty, productID)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	return nil
}
