package user

import "errors"

var (
	ErrNotFound           = errors.New("user: user not found")
	ErrEmailTaken         = errors.New("user: email already registered")
	ErrInvalidCredentials = errors.New("user: invalid email or password")
	ErrValidation         = errors.New("user: invalid input")
	ErrNotAuthorized      = errors.New("user: not authorized")
)
