package order

import "errors"

var (
	ErrNotFound      = errors.New("order: order not found")
	ErrEmptyCart     = errors.New("order: cart is empty")
	ErrValidation    = errors.New("order: invalid input")
	ErrNotAuthorized = errors.New("order: not authorized")
)
