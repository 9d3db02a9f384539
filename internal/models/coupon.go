package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Coupon struct {
	ID          string           `json:"id" db:"id"`
	Code        string           `json:"code" db:"code"`
	Type        string           `json:"type" db:"type"` // 'PERCENTAGE' or 'FIXED'
	Value       decimal.Decimal  `json:"value" db:"value"`
	Description string           `json:"description" db:"description"`
	MinOrder    decimal.Decimal  `json:"minOrder" db:"min_order"`
	MaxDiscount *decimal.Decimal `json:"maxDiscount" db:"max_discount"`
	ExpiresAt   *time.Time       `json:"expiresAt" db:"expires_at"`
	IsActive    bool             `json:"isActive" db:"is_active"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at"`
}

const (
	CouponTypePercentage = "PERCENTAGE"
	CouponTypeFixed      = "FIXED"
)

// Expired reports whether the coupon has an expiry in the past
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}
