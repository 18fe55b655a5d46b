package contact

import "errors"

var (
	ErrNotFound   = errors.New("contact: contact not found")
	ErrValidation = errors.New("contact: invalid input")
)
