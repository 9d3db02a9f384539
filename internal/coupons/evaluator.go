package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"freshmart/internal/models"
)

// Store is the slice of the persistence layer the evaluator needs
type Store interface {
	CouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	DeactivateCoupon(ctx context.Context, id string) error
}

var (
	ErrNotFound = errors.New("invalid coupon code")
	ErrInactive = errors.New("coupon is not active")
	ErrExpired  = errors.New("coupon has expired")
)

// BelowMinimumError rejects a coupon whose minimum order the cart does not meet
type BelowMinimumError struct {
	MinOrder decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("a minimum order of $%s is required for this coupon", e.MinOrder.StringFixed(2))
}

type Evaluator struct {
	store Store
}

func NewEvaluator(store Store) *Evaluator {
	return &Evaluator{store: store}
}

// Canonicalize normalizes a coupon code to its stored upper-case form
func Canonicalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate looks up a coupon by code and checks it against the given subtotal.
// When a read observes an expired coupon the evaluator also flips it inactive;
// this lazy deactivation is a deliberate write on the validation path,
// complementing the scheduled sweep. Nothing is mutated on success.
func (e *Evaluator) Evaluate(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*models.Coupon, error) {
	coupon, err := e.store.CouponByCode(ctx, Canonicalize(code))
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, Canonicalize(code))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}

	if !coupon.IsActive {
		return nil, ErrInactive
	}

	if coupon.Expired(now) {
		if err := e.store.DeactivateCoupon(ctx, coupon.ID); err != nil {
			return nil, fmt.Errorf("failed to deactivate expired coupon: %w", err)
		}
		return nil, ErrExpired
	}

	if subtotal.LessThan(coupon.MinOrder) {
		return nil, &BelowMinimumError{MinOrder: coupon.MinOrder}
	}

	return coupon, nil
}
