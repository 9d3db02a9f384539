package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshmart/internal/models"
)

func seedOrder(store *fakeStore, id string, status models.OrderStatus, userID *int64, items ...models.OrderItem) {
	store.orders[id] = models.Order{
		ID:       id,
		UserID:   userID,
		Status:   status,
		Subtotal: dec("18.72"),
		Total:    dec("18.72"),
	}
	store.items[id] = items
}

func TestCancelOrderRestoresStock(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "broccoli", "Broccoli", "5.20", 13)
	addProduct(store, "steak", "Steaks", "8.32", 7)
	seedOrder(store, "o1", models.OrderPending, nil,
		models.OrderItem{ID: "i1", OrderID: "o1", ProductID: "broccoli", Quantity: 2, Price: dec("5.20")},
		models.OrderItem{ID: "i2", OrderID: "o1", ProductID: "steak", Quantity: 1, Price: dec("8.32")},
	)
	m := newTestManager(store)

	order, err := m.CancelOrder(context.Background(), "o1", nil)

	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.Status)
	assert.Equal(t, 15, store.stockOf("broccoli"))
	assert.Equal(t, 8, store.stockOf("steak"))
}

func TestCancelOrderNotFound(t *testing.T) {
	m := newTestManager(newFakeStore())

	_, err := m.CancelOrder(context.Background(), "missing", nil)

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestCancelOrderIllegalTransitions(t *testing.T) {
	cases := []struct {
		status  models.OrderStatus
		message string
	}{
		{models.OrderShipped, "already been shipped"},
		{models.OrderDelivered, "already been delivered"},
		{models.OrderCancelled, "already been cancelled"},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			store := newFakeStore()
			addProduct(store, "steak", "Steaks", "8.32", 7)
			seedOrder(store, "o1", tc.status, nil,
				models.OrderItem{ID: "i1", OrderID: "o1", ProductID: "steak", Quantity: 1, Price: dec("8.32")},
			)
			m := newTestManager(store)

			_, err := m.CancelOrder(context.Background(), "o1", nil)

			var conflictErr *ConflictError
			require.ErrorAs(t, err, &conflictErr)
			assert.Contains(t, err.Error(), tc.message)

			// Neither stock nor status moved
			assert.Equal(t, 7, store.stockOf("steak"))
			assert.Equal(t, tc.status, store.orders["o1"].Status)
		})
	}
}

func TestCancelOrderOwnershipMismatch(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 7)
	owner := int64(7)
	seedOrder(store, "o1", models.OrderPending, &owner,
		models.OrderItem{ID: "i1", OrderID: "o1", ProductID: "steak", Quantity: 1, Price: dec("8.32")},
	)
	m := newTestManager(store)

	other := int64(8)
	_, err := m.CancelOrder(context.Background(), "o1", &other)

	var authErr *AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 7, store.stockOf("steak"))
	assert.Equal(t, models.OrderPending, store.orders["o1"].Status)
}

func TestCancelOrderByOwner(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 7)
	owner := int64(7)
	seedOrder(store, "o1", models.OrderPending, &owner,
		models.OrderItem{ID: "i1", OrderID: "o1", ProductID: "steak", Quantity: 1, Price: dec("8.32")},
	)
	m := newTestManager(store)

	order, err := m.CancelOrder(context.Background(), "o1", &owner)

	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.Status)
	assert.Equal(t, 8, store.stockOf("steak"))
}

// Guest orders carry no owning user, so any requester who knows the id may
// cancel them; the ownership check only applies when an owner exists.
func TestCancelGuestOrderWithRequesterID(t *testing.T) {
	store := newFakeStore()
	addProduct(store, "steak", "Steaks", "8.32", 7)
	seedOrder(store, "o1", models.OrderPending, nil,
		models.OrderItem{ID: "i1", OrderID: "o1", ProductID: "steak", Quantity: 1, Price: dec("8.32")},
	)
	m := newTestManager(store)

	requester := int64(42)
	order, err := m.CancelOrder(context.Background(), "o1", &requester)

	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.Status)
}
