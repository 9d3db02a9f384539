package checkout

// Typed rejection reasons for the checkout core. Every precondition failure
// in PlaceOrder/CancelOrder is one of these; anything else reaching the
// caller is an infrastructure failure and maps to a generic 500.

// ValidationError covers malformed or inconsistent input: empty carts,
// missing customer fields, total mismatches, unusable coupons.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError covers missing orders and products
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError covers illegal order state transitions
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthorizationError covers ownership mismatches on order access
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// CapacityError covers insufficient stock, including the case where a
// concurrent checkout drained the remaining units mid-commit
type CapacityError struct {
	Message string
}

func (e *CapacityError) Error() string { return e.Message }
