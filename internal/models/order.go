package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// orderTransitions is the full set of legal status transitions.
// Cancellation is only reachable from PENDING; SHIPPED and DELIVERED
// move forward along the fulfilment path and CANCELLED is terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
	OrderDelivered: {},
	OrderCancelled: {},
}

// CanTransition reports whether moving from one status to another is legal
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID                string           `json:"id" db:"id"`
	UserID            *int64           `json:"userId" db:"user_id"`
	Subtotal          decimal.Decimal  `json:"subtotal" db:"subtotal"`
	Discount          *decimal.Decimal `json:"discount" db:"discount"`
	Total             decimal.Decimal  `json:"total" db:"total"`
	Status            OrderStatus      `json:"status" db:"status"`
	CouponCode        *string          `json:"couponCode" db:"coupon_code"`
	CouponType        *string          `json:"couponType" db:"coupon_type"`
	CouponValue       *decimal.Decimal `json:"couponValue" db:"coupon_value"`
	CouponDiscount    *decimal.Decimal `json:"couponDiscount" db:"coupon_discount"`
	CouponDescription *string          `json:"couponDescription" db:"coupon_description"`
	CustomerName      string           `json:"customerName" db:"customer_name"`
	CustomerEmail     string           `json:"customerEmail" db:"customer_email"`
	CustomerPhone     *string          `json:"customerPhone" db:"customer_phone"`
	CustomerAddress   string           `json:"customerAddress" db:"customer_address"`
	Notes             *string          `json:"notes" db:"notes"`
	CreatedAt         time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time        `json:"updatedAt" db:"updated_at"`

	Items []OrderItem `json:"orderItems"`
	User  *User       `json:"user,omitempty"`
}

type OrderItem struct {
	ID        string          `json:"id" db:"id"`
	OrderID   string          `json:"orderId" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"` // unit price frozen at purchase time
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`

	Product *Product `json:"product,omitempty"`
}
