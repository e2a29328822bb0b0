package service

import "errors"

var (
	// order finalizer
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress for this cart")

	// admin
	ErrNotAdmin            = errors.New("caller is not an admin")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrInvalidSecurityCode = errors.New("invalid security code")

	// auth
	ErrInvalidCredentials = errors.New("invalid email or password")
)
