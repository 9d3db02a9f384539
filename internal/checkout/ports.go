package checkout

import (
	"context"

	"freshmart/internal/models"
)

// Store is the persistence handle injected into the Manager. InTx is the
// atomicity boundary: everything the callback writes commits together or
// not at all, and no other transaction observes a partial state.
type Store interface {
	InTx(ctx context.Context, fn func(Tx) error) error
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// Tx is the transaction-scoped slice of the store the managers operate on
type Tx interface {
	ProductByID(ctx context.Context, id string) (*models.Product, error)

	// DecrementStock conditionally removes qty units. It reports false
	// without error when the product no longer has qty units left, which
	// is the signal that a concurrent order won the remaining stock.
	DecrementStock(ctx context.Context, productID string, qty int) (bool, error)
	IncrementStock(ctx context.Context, productID string, qty int) error

	InsertOrder(ctx context.Context, o *models.Order) error
	InsertOrderItem(ctx context.Context, it *models.OrderItem) error

	OrderForUpdate(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
	OrderWithItems(ctx context.Context, id string) (*models.Order, error)
}
