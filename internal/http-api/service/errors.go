package service

import "errors"

// Client-facing failures. Handlers map these to HTTP statuses; anything not
// wrapping one of them is treated as a server error.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrEmptyCart           = errors.New("shopping cart is empty")
	ErrEmptyIngredients    = errors.New("ingredients cannot be empty")
	ErrDuplicateIngredient = errors.New("ingredients cannot contain duplicates")
	ErrUnknownIngredient   = errors.New("unknown ingredient")
	ErrForbidden           = errors.New("only the author may modify this recipe")
	ErrSelfSubscription    = errors.New("cannot subscribe to yourself")
	ErrIngredientsRequired = errors.New("ingredients field is required")
)

// Auth failures.
var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrNameInUse          = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)
