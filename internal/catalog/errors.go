package catalog

import "errors"

var (
	ErrNotFound   = errors.New("catalog: product not found")
	ErrValidation = errors.New("catalog: invalid product")
)
