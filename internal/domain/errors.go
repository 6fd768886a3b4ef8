package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart indicates a checkout was attempted against an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrForbidden indicates the caller does not own the targeted entity.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports malformed caller input. The caller must fix the
// request; retrying the same payload cannot succeed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// InsufficientStockError reports that a reservation asked for more units than
// the product currently has available.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// IllegalTransitionError reports a rejected order status transition.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition: %s -> %s", e.From, e.To)
}
