package checkout

import "errors"

var (
	ErrUnauthenticated      = errors.New("user not authenticated")
	ErrEmptyCart            = errors.New("cannot check out an empty cart")
	ErrMissingReference     = errors.New("payment reference is required")
	ErrPaymentNotSuccessful = errors.New("payment was not successful")
	ErrInvalidMetadata      = errors.New("payment metadata is missing or malformed")
)
