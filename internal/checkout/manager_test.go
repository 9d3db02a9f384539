package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshmart/internal/coupons"
	"freshmart/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestManager(store *fakeStore) *Manager {
	return NewManager(store, coupons.NewEvaluator(store))
}

func addProduct(store *fakeStore, id, name, price string, stock int) {
	store.products[id] = models.Product{
		ID:       id,
		Name:     name,
		Type:     models.ProductTypeMeat,
		Price:    dec(price),
		Stock:    stock,
		IsActive: true,
	}
}

func customer() CustomerInfo {
	return CustomerInfo{
		Name:    "John Doe",
		Email:   "john.doe@example.com",
		Address: "123 Main St",
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	m := newTestManager(newFakeStore())

	_, err := m.PlaceOrder(context.Background(), PlaceOrderInput{Customer: customer()})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "empty")
}

func TestPlaceOrderMissingCustomerInfo(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 8)
	m := newTestManager(store)

	_, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer: CustomerInfo{Name: "John Doe", Email: "john.doe@example.com"},
		Items:    []LineItem{{ProductID: "steak", Quantity: 1}},
		Total:    dec("8.32"),
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "address")
}

func TestPlaceOrderStaleUserDegradesToGuest(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 8)
	m := newTestManager(store)

	staleID := int64(999)
	order, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:   &staleID,
		Customer: customer(),
		Items:    []LineItem{{ProductID: "steak", Quantity: 1, Price: dec("8.32")}},
		Total:    dec("8.32"),
	})

	require.NoError(t, err)
	assert.Nil(t, order.UserID)
	assert.Equal(t, "John Doe", order.CustomerName)
}

func TestPlaceOrderResolvesKnownUser(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 8)
	store.users[7] = models.User{ID: 7, Email: "john.doe@example.com"}
	m := newTestManager(store)

	userID := int64(7)
	order, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:   &userID,
		Customer: customer(),
		Items:    []LineItem{{ProductID: "steak", Quantity: 1, Price: dec("8.32")}},
		Total:    dec("8.32"),
	})

	require.NoError(t, err)
	require.NotNil(t, order.UserID)
	assert.Equal(t, int64(7), *order.UserID)
}

func TestPlaceOrderProductNotFound(t *testing.T) {
	m := newTestManager(newFakeStore())

	_, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer: customer(),
		Items:    []LineItem{{ProductID: "ghost", Quantity: 1}},
		Total:    dec("1.00"),
	})

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Contains(t, err.Error(), "ghost")
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 8)
	p := store.products["steak"]
	p.IsActive = false
	store.products["steak"] = p
	m := newTestManager(store)

	_, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer: customer(),
		Items:    []LineItem{{ProductID: "steak", Quantity: 1}},
		Total:    dec("8.32"),
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "not active")
	assert.Contains(t, err.Error(), "Steaks")
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 2)
	m := newTestManager(store)

	_, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer: customer(),
		Items:    []LineItem{{ProductID: "steak", Quantity: 3}},
		Total:    dec("24.96"),
	})

	var capacityErr *CapacityError
	require.ErrorAs(t, err, &capacityErr)
	assert.Contains(t, err.Error(), "Steaks")
	assert.Contains(t, err.Error(), "Available: 2")
	assert.Contains(t, err.Error(), "Requested: 3")
	assert.Equal(t, 2, store.stockOf("steak"))
	assert.Equal(t, 0, store.orderCount())
}

func TestPlaceOrderTotalMismatch(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 8)
	m := newTestManager(store)

	// Client claims a stale price; more than a cent off the server total
	_, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer: customer(),
		Items:    []LineItem{{ProductID: "steak", Quantity: 1, Price: dec("7.99")}},
		Total:    dec("7.99"),
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "mismatch")
	assert.Equal(t, 8, store.stockOf("steak"))
	assert.Equal(t, 0, store.orderCount())
}

func TestPlaceOrderTotalWithinTolerance(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 8)
	m := newTestManager(store)

	order, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer: customer(),
		Items:    []LineItem{{ProductID: "steak", Quantity: 1, Price: dec("8.32")}},
		Total:    dec("8.33"), // one cent off is accepted
	})

	require.NoError(t, err)
	assert.True(t, dec("8.32").Equal(order.Total))
}

func TestPlaceOrderExpiredCouponRejected(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 8)
	expired := time.Now().Add(-time.Hour)
	store.coupons["SAVE10"] = &models.Coupon{
		ID:        "c1",
		Code:      "SAVE10",
		Type:      models.CouponTypePercentage,
		Value:     dec("10"),
		ExpiresAt: &expired,
		IsActive:  true,
	}
	m := newTestManager(store)

	_, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer:   customer(),
		Items:      []LineItem{{ProductID: "steak", Quantity: 1, Price: dec("8.32")}},
		CouponCode: "SAVE10",
		Total:      dec("7.49"),
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "expired")
	assert.Equal(t, 8, store.stockOf("steak"))
	assert.Equal(t, 0, store.orderCount())
}

func TestPlaceOrderRejectsPercentageOver100(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 8)
	store.coupons["MEGA"] = &models.Coupon{
		ID:       "c2",
		Code:     "MEGA",
		Type:     models.CouponTypePercentage,
		Value:    dec("150"),
		IsActive: true,
	}
	m := newTestManager(store)

	// A percentage above 100 is rejected outright, never clamped
	_, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer:   customer(),
		Items:      []LineItem{{ProductID: "steak", Quantity: 1, Price: dec("8.32")}},
		CouponCode: "MEGA",
		Total:      dec("0.00"),
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "coupon value")
	assert.Equal(t, 8, store.stockOf("steak"))
	assert.Equal(t, 0, store.orderCount())
}

func TestPlaceOrderWithCoupon(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 8)
	store.coupons["SAVE10"] = &models.Coupon{
		ID:          "c1",
		Code:        "SAVE10",
		Type:        models.CouponTypePercentage,
		Value:       dec("10"),
		Description: "10% off order",
		IsActive:    true,
	}
	m := newTestManager(store)

	order, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer:   customer(),
		Items:      []LineItem{{ProductID: "steak", Quantity: 1, Price: dec("8.32")}},
		CouponCode: "SAVE10",
		Subtotal:   dec("8.32"),
		Discount:   dec("0.83"),
		Total:      dec("7.49"),
	})

	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.True(t, dec("8.32").Equal(order.Subtotal))
	require.NotNil(t, order.Discount)
	assert.True(t, dec("0.83").Equal(*order.Discount))
	assert.True(t, dec("7.49").Equal(order.Total))

	// Coupon snapshot frozen onto the order
	require.NotNil(t, order.CouponCode)
	assert.Equal(t, "SAVE10", *order.CouponCode)
	require.NotNil(t, order.CouponDiscount)
	assert.True(t, dec("0.83").Equal(*order.CouponDiscount))

	// Line item froze the unit price, stock went down by one
	require.Len(t, order.Items, 1)
	assert.True(t, dec("8.32").Equal(order.Items[0].Price))
	assert.Equal(t, 7, store.stockOf("steak"))
}

func TestPlaceOrderMidCommitRollback(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 8)
	m := newTestManager(store)

	// Each line passes the per-item pre-check against stock 8, but the
	// second decrement finds only 3 left and must roll everything back.
	_, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer: customer(),
		Items: []LineItem{
			{ProductID: "steak", Quantity: 5, Price: dec("8.32")},
			{ProductID: "steak", Quantity: 5, Price: dec("8.32")},
		},
		Total: dec("83.20"),
	})

	var capacityErr *CapacityError
	require.ErrorAs(t, err, &capacityErr)
	assert.Equal(t, 8, store.stockOf("steak"))
	assert.Equal(t, 0, store.orderCount())
}

func TestPlaceOrderConcurrentNeverOversells(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 5)
	m := newTestManager(store)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.PlaceOrder(context.Background(), PlaceOrderInput{
				Customer: customer(),
				Items:    []LineItem{{ProductID: "steak", Quantity: 1, Price: dec("8.32")}},
				Total:    dec("8.32"),
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var capacityErr *CapacityError
		assert.ErrorAs(t, err, &capacityErr)
	}

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, store.stockOf("steak"))
	assert.Equal(t, 5, store.orderCount())
}
