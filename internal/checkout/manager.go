package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"freshmart/internal/coupons"
	"freshmart/internal/models"
)

// totalTolerance is how far the client-claimed total may drift from the
// server recomputation before the order is rejected (1 cent, currency scale)
var totalTolerance = decimal.New(1, -2)

// Manager runs order placement and cancellation against an injected store.
// Client-supplied prices and totals are advisory only: every order is
// re-validated against authoritative stock, prices, and coupon rules before
// anything is committed.
type Manager struct {
	store   Store
	coupons *coupons.Evaluator
	now     func() time.Time
}

func NewManager(store Store, evaluator *coupons.Evaluator) *Manager {
	return &Manager{
		store:   store,
		coupons: evaluator,
		now:     time.Now,
	}
}

type CustomerInfo struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// LineItem is one cart entry as submitted by the client. Price is the
// client-known unit price and is never trusted for the commit.
type LineItem struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

type PlaceOrderInput struct {
	UserID     *int64
	Customer   CustomerInfo
	Items      []LineItem
	CouponCode string
	Subtotal   decimal.Decimal // client-claimed, verified against recomputation
	Discount   decimal.Decimal
	Total      decimal.Decimal
	Notes      string
}

// PlaceOrder validates a proposed cart against live inventory and coupon
// rules, then atomically creates the order with its line items and decrements
// product stock. Any failure, at validation time or mid-commit, leaves no
// trace: the whole transaction rolls back.
func (m *Manager) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, &ValidationError{Message: "Cart items are required. Your cart was empty."}
	}

	if input.Customer.Name == "" || input.Customer.Email == "" || input.Customer.Address == "" {
		return nil, &ValidationError{Message: "Name, email, and address are required."}
	}

	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid quantity for product %s", item.ProductID)}
		}
	}

	// A stale or unknown user id degrades to guest checkout instead of
	// failing the order; the denormalized customer fields still identify it.
	userID := m.resolveUser(ctx, input.UserID)

	var placed *models.Order
	err := m.store.InTx(ctx, func(tx Tx) error {
		subtotal := decimal.Zero
		productsByID := make(map[string]*models.Product, len(input.Items))

		for _, item := range input.Items {
			product, err := tx.ProductByID(ctx, item.ProductID)
			if errors.Is(err, models.ErrNotFound) {
				return &NotFoundError{Message: fmt.Sprintf("Product not found: %s", item.ProductID)}
			}
			if err != nil {
				return fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
			}

			if !product.IsActive {
				return &ValidationError{Message: fmt.Sprintf("Product is not active: %s", product.Name)}
			}

			if product.Stock < item.Quantity {
				return &CapacityError{Message: fmt.Sprintf(
					"Insufficient stock for %s. Available: %d, Requested: %d",
					product.Name, product.Stock, item.Quantity)}
			}

			productsByID[item.ProductID] = product
			subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		subtotal = subtotal.Round(2)

		var coupon *models.Coupon
		discount := decimal.Zero
		if input.CouponCode != "" {
			c, err := m.evaluateCoupon(ctx, input.CouponCode, subtotal)
			if err != nil {
				return err
			}
			coupon = c
			discount = coupons.Discount(coupon, subtotal)
		}

		if discount.GreaterThan(subtotal) {
			return &ValidationError{Message: "Discount cannot exceed the order subtotal."}
		}

		total := subtotal.Sub(discount)
		if total.IsNegative() {
			return &ValidationError{Message: "Order total cannot be negative."}
		}

		if input.Total.Sub(total).Abs().GreaterThan(totalTolerance) {
			return &ValidationError{Message: fmt.Sprintf(
				"Order total mismatch. Expected %s, got %s.",
				total.StringFixed(2), input.Total.StringFixed(2))}
		}

		order := &models.Order{
			ID:              uuid.NewString(),
			UserID:          userID,
			Subtotal:        subtotal,
			Total:           total,
			Status:          models.OrderPending,
			CustomerName:    input.Customer.Name,
			CustomerEmail:   input.Customer.Email,
			CustomerAddress: input.Customer.Address,
		}
		if input.Customer.Phone != "" {
			order.CustomerPhone = &input.Customer.Phone
		}
		if input.Notes != "" {
			order.Notes = &input.Notes
		}
		if coupon != nil {
			// Freeze the coupon snapshot; later edits or deletion of the
			// coupon must not change what this order recorded.
			order.Discount = &discount
			order.CouponCode = &coupon.Code
			order.CouponType = &coupon.Type
			order.CouponValue = &coupon.Value
			order.CouponDiscount = &discount
			if coupon.Description != "" {
				order.CouponDescription = &coupon.Description
			}
		}

		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}

		for _, item := range input.Items {
			product := productsByID[item.ProductID]
			err := tx.InsertOrderItem(ctx, &models.OrderItem{
				ID:        uuid.NewString(),
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
			if err != nil {
				return err
			}

			// The conditional decrement is the serialization point: if a
			// concurrent checkout exhausted the stock since our read, this
			// reports false and the whole order rolls back.
			ok, err := tx.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &CapacityError{Message: fmt.Sprintf(
					"Insufficient stock for %s. Available: %d, Requested: %d",
					product.Name, product.Stock, item.Quantity)}
			}
		}

		var err error
		placed, err = tx.OrderWithItems(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return placed, nil
}

func (m *Manager) resolveUser(ctx context.Context, userID *int64) *int64 {
	if userID == nil {
		return nil
	}
	if _, err := m.store.UserByID(ctx, *userID); err != nil {
		return nil
	}
	return userID
}

func (m *Manager) evaluateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*models.Coupon, error) {
	coupon, err := m.coupons.Evaluate(ctx, code, subtotal, m.now())
	if err != nil {
		var belowMin *coupons.BelowMinimumError
		switch {
		case errors.Is(err, coupons.ErrNotFound),
			errors.Is(err, coupons.ErrInactive),
			errors.Is(err, coupons.ErrExpired),
			errors.As(err, &belowMin):
			return nil, &ValidationError{Message: err.Error()}
		default:
			return nil, err
		}
	}

	if coupon.Type == models.CouponTypePercentage && coupon.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, &ValidationError{Message: "Invalid coupon value: percentage cannot exceed 100."}
	}

	return coupon, nil
}
