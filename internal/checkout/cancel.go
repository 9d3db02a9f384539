package checkout

import (
	"context"
	"errors"

	"freshmart/internal/models"
)

// CancelOrder reverses a pending order: the status flips to CANCELLED and
// every line item's quantity goes back onto its product's stock, in the same
// transaction. Only PENDING orders are cancellable.
func (m *Manager) CancelOrder(ctx context.Context, orderID string, requestingUserID *int64) (*models.Order, error) {
	var cancelled *models.Order
	err := m.store.InTx(ctx, func(tx Tx) error {
		order, err := tx.OrderForUpdate(ctx, orderID)
		if errors.Is(err, models.ErrNotFound) {
			return &NotFoundError{Message: "Order not found"}
		}
		if err != nil {
			return err
		}

		// Ownership check only guards orders that have an owning user;
		// guest orders are identified by id alone.
		if requestingUserID != nil && order.UserID != nil && *order.UserID != *requestingUserID {
			return &AuthorizationError{Message: "Access denied - this order does not belong to you"}
		}

		if !models.CanTransition(order.Status, models.OrderCancelled) {
			switch order.Status {
			case models.OrderCancelled:
				return &ConflictError{Message: "Order has already been cancelled. No further action is required."}
			case models.OrderDelivered:
				return &ConflictError{Message: "Cannot cancel orders that have already been delivered."}
			case models.OrderShipped:
				return &ConflictError{Message: "Cannot cancel orders that have already been shipped."}
			default:
				return &ConflictError{Message: "Order cannot be cancelled from its current status."}
			}
		}

		if err := tx.UpdateOrderStatus(ctx, orderID, models.OrderCancelled); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := tx.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		cancelled, err = tx.OrderWithItems(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}
