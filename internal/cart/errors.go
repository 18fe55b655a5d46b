package cart

import "errors"

var (
	ErrCartNotFound    = errors.New("cart: cart not found")
	ErrItemNotFound    = errors.New("cart: item not found in cart")
	ErrProductNotFound = errors.New("cart: product not found")
	ErrValidation      = errors.New("cart: invalid input")
)
