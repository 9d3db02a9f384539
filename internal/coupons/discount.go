package coupons

import (
	"github.com/shopspring/decimal"

	"freshmart/internal/models"
)

// Discount computes the amount a coupon takes off the given subtotal.
// PERCENTAGE coupons are capped by MaxDiscount when set; both kinds are
// clamped so the discount never exceeds the subtotal. The result is rounded
// to 2 decimal places. The same arithmetic runs in the storefront client as
// a pre-check, but this computation is the authoritative one.
func Discount(c *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch c.Type {
	case models.CouponTypePercentage:
		discount = subtotal.Mul(c.Value).Div(decimal.NewFromInt(100))
		if c.MaxDiscount != nil && discount.GreaterThan(*c.MaxDiscount) {
			discount = *c.MaxDiscount
		}
	case models.CouponTypeFixed:
		discount = c.Value
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	return discount.Round(2)
}
