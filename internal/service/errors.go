package service

import "errors"

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an operation on an id the store does not hold.
	ErrNotFound = errors.New("not found")
	// ErrTransientIO marks a storage failure the caller may retry.
	ErrTransientIO = errors.New("storage unavailable")

	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
)
