package domain

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("conflict")
	ErrIdempotencyConflict = errors.New("idempotency conflict")

	// ErrInvalidTransition is returned when an order status or refund status
	// change does not follow the allowed progression. The current state is
	// never mutated on this error.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrOutOfStock is returned when an item cannot be basketed or reserved
	// because its stock flag is false at the moment of the check.
	ErrOutOfStock = errors.New("item out of stock")
	ErrEmptyBasket = errors.New("basket is empty")
	// ErrUnpriced guards checkout: an item without a sales-manager assigned
	// price can be listed and favorited but never purchased.
	ErrUnpriced    = errors.New("item has no price")
	ErrNotEligible = errors.New("not eligible")
)
