package cart

import "errors"

var (
	ErrUserNotAuthenticated = errors.New("user not authenticated")

	ErrFailedLoadCart  = errors.New("failed to load cart")
	ErrFailedSaveCart  = errors.New("failed to save cart")
	ErrFailedClearCart = errors.New("failed to clear cart")
)
