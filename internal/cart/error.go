package cart

import "storefront-be/internal/apperror"

var (
	// -- Authentication --
	ErrUserNotAuthenticated = apperror.New(apperror.Unauthorized, "user not authenticated")

	// -- Validation & Input --
	ErrInvalidQuantity = apperror.New(apperror.InvalidInput, "invalid cart quantity")
	ErrInvalidPrice    = apperror.New(apperror.InvalidInput, "price must be positive")
	ErrInvalidCartItem = apperror.New(apperror.InvalidInput, "invalid cart item")
	ErrProductNotFound = apperror.New(apperror.InvalidInput, "product not found")
	ErrQuantityLimit   = apperror.New(apperror.InvalidInput, "cart quantity limit exceeded")

	// -- Resource State --
	ErrCartItemNotFound = apperror.New(apperror.CartItemNotFound, "cart item not found")
)
