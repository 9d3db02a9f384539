package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freshmart/internal/models"
)

const orderColumns = `id, user_id, subtotal, discount, total, status,
	coupon_code, coupon_type, coupon_value, coupon_discount, coupon_description,
	customer_name, customer_email, customer_phone, customer_address, notes,
	created_at, updated_at`

type orderScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row orderScanner) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Subtotal, &o.Discount, &o.Total, &o.Status,
		&o.CouponCode, &o.CouponType, &o.CouponValue, &o.CouponDiscount, &o.CouponDescription,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.CustomerAddress, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func orderItems(ctx context.Context, q queryer, orderID string) ([]models.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT
			oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.created_at,
			p.id, p.name, COALESCE(p.description, '') as description, p.type, p.icon,
			p.price, p.stock, p.is_active, p.is_featured, p.created_at, p.updated_at
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = ?
		ORDER BY oi.created_at ASC, oi.id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		var p models.Product
		err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price, &it.CreatedAt,
			&p.ID, &p.Name, &p.Description, &p.Type, &p.Icon,
			&p.Price, &p.Stock, &p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		it.Product = &p
		items = append(items, it)
	}

	return items, rows.Err()
}

func orderWithItems(ctx context.Context, q queryer, id string) (*models.Order, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = ?", id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := orderItems(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	o.Items = items

	if o.UserID != nil {
		user, err := userByID(ctx, q, *o.UserID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		o.User = user
	}

	return o, nil
}

// OrderWithItems returns a fully populated order: line items with product
// snapshots and the owning user when one exists
func (s *Store) OrderWithItems(ctx context.Context, id string) (*models.Order, error) {
	return orderWithItems(ctx, s.db, id)
}

func (t *Tx) OrderWithItems(ctx context.Context, id string) (*models.Order, error) {
	return orderWithItems(ctx, t.tx, id)
}

// OrderForUpdate loads an order and its items under a row lock so concurrent
// cancellations of the same order serialize on the status check
func (t *Tx) OrderForUpdate(ctx context.Context, id string) (*models.Order, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = ? FOR UPDATE", id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := orderItems(ctx, t.tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	o.Items = items

	return o, nil
}

func (t *Tx) InsertOrder(ctx context.Context, o *models.Order) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, subtotal, discount, total, status,
			coupon_code, coupon_type, coupon_value, coupon_discount, coupon_description,
			customer_name, customer_email, customer_phone, customer_address, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.UserID, o.Subtotal, o.Discount, o.Total, o.Status,
		o.CouponCode, o.CouponType, o.CouponValue, o.CouponDiscount, o.CouponDescription,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.CustomerAddress, o.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (t *Tx) InsertOrderItem(ctx context.Context, it *models.OrderItem) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO order_items (id, order_id, product_id, quantity, price)
		VALUES (?, ?, ?, ?, ?)
	`, it.ID, it.OrderID, it.ProductID, it.Quantity, it.Price)
	if err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}
	return nil
}

func (t *Tx) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE orders SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// OrderFilter narrows ListOrders. Admin overrides the other filters;
// CustomerEmail only matches guest orders, mirroring the storefront's
// "look up my order by email" flow.
type OrderFilter struct {
	UserID        *int64
	CustomerEmail string
	Admin         bool
	Page          int
	Limit         int
}

// ListOrders returns a page of orders (newest first) plus the total count
// matching the filter
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int, error) {
	where := ""
	var args []any

	switch {
	case f.Admin:
		// no filter, all orders
	case f.UserID != nil:
		where = " WHERE user_id = ?"
		args = append(args, *f.UserID)
	case f.CustomerEmail != "":
		where = " WHERE customer_email = ? AND user_id IS NULL"
		args = append(args, f.CustomerEmail)
	default:
		return nil, 0, fmt.Errorf("order listing requires a filter")
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders"+where+" ORDER BY created_at DESC LIMIT ? OFFSET ?",
		append(args, f.Limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		items, err := orderItems(ctx, s.db, orders[i].ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load order items: %w", err)
		}
		orders[i].Items = items

		if orders[i].UserID != nil {
			user, err := userByID(ctx, s.db, *orders[i].UserID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, 0, err
			}
			orders[i].User = user
		}
	}

	return orders, total, nil
}
