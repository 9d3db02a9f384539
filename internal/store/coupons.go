package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"freshmart/internal/models"
)

const couponColumns = `id, code, type, value, COALESCE(description, '') as description,
	min_order, max_discount, expires_at, is_active, created_at, updated_at`

func scanCoupon(row *sql.Row) (*models.Coupon, error) {
	var c models.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.Type, &c.Value, &c.Description,
		&c.MinOrder, &c.MaxDiscount, &c.ExpiresAt, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CouponByCode looks up a coupon by its canonical (upper-case) code
func (s *Store) CouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+couponColumns+" FROM coupons WHERE code = ?", code)
	return scanCoupon(row)
}

func (s *Store) CouponByID(ctx context.Context, id string) (*models.Coupon, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+couponColumns+" FROM coupons WHERE id = ?", id)
	return scanCoupon(row)
}

// CouponCodeExists reports whether another coupon already uses the code
func (s *Store) CouponCodeExists(ctx context.Context, code, excludeID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM coupons WHERE code = ? AND id != ?",
		code, excludeID,
	).Scan(&count)
	return count > 0, err
}

// ListCoupons returns coupons newest first. With usableOnly set, only active
// coupons that have not expired are returned (the public storefront view).
func (s *Store) ListCoupons(ctx context.Context, usableOnly bool) ([]models.Coupon, error) {
	query := "SELECT " + couponColumns + " FROM coupons"
	if usableOnly {
		query += " WHERE is_active = TRUE AND (expires_at IS NULL OR expires_at > NOW())"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []models.Coupon
	for rows.Next() {
		var c models.Coupon
		err := rows.Scan(
			&c.ID, &c.Code, &c.Type, &c.Value, &c.Description,
			&c.MinOrder, &c.MaxDiscount, &c.ExpiresAt, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}

	return coupons, rows.Err()
}

func (s *Store) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO coupons (id, code, type, value, description, min_order, max_discount, expires_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Code, c.Type, c.Value, c.Description, c.MinOrder, c.MaxDiscount, c.ExpiresAt, c.IsActive)
	return err
}

func (s *Store) UpdateCoupon(ctx context.Context, c *models.Coupon) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE coupons
		SET code = ?, type = ?, value = ?, description = ?, min_order = ?, max_discount = ?, expires_at = ?, is_active = ?
		WHERE id = ?
	`, c.Code, c.Type, c.Value, c.Description, c.MinOrder, c.MaxDiscount, c.ExpiresAt, c.IsActive, c.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateCoupon flips a single coupon inactive. Used by the evaluator's
// lazy expiry handling when a validation read observes an expired coupon.
func (s *Store) DeactivateCoupon(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE coupons SET is_active = FALSE WHERE id = ?", id)
	return err
}

// DeactivateExpiredCoupons disables every active coupon whose expiry has
// passed and returns how many were flipped. Used by the scheduled sweep.
func (s *Store) DeactivateExpiredCoupons(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE coupons SET is_active = FALSE WHERE is_active = TRUE AND expires_at IS NOT NULL AND expires_at < ?",
		now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
