package order

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrDuplicateReference = errors.New("order already exists for payment reference")
)
