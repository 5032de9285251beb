package model

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrVendorNotFound  = errors.New("vendor not found")

	ErrEmptyOrder        = errors.New("no order items")
	ErrInvalidQuantity   = errors.New("item quantity must be positive")
	ErrInsufficientStock = errors.New("not enough remaining quantity")

	ErrPaymentGatewayUnavailable = errors.New("payment gateway not configured")
	ErrInvalidSignature          = errors.New("invalid payment signature")

	ErrNotOwner         = errors.New("order does not belong to this vendor")
	ErrAlreadyCollected = errors.New("order already collected")
	ErrNotPaid          = errors.New("order not paid yet")
	// ErrInvalidCodeOrCollected deliberately merges "wrong code" and "already
	// collected" so a scanning party cannot probe order state.
	ErrInvalidCodeOrCollected = errors.New("invalid code or order already collected")

	ErrEmailTaken         = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountBlocked     = errors.New("account has been disabled by administrators")
)
