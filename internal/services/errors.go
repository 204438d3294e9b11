package services

import "errors"

var (
	ErrBadCreds        = errors.New("invalid email or password")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrUserExists      = errors.New("username or email already registered")
	ErrUserHasSales    = errors.New("user has recorded sales and cannot be deleted")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidRole     = errors.New("invalid role")
	ErrNotOwner        = errors.New("not allowed to modify this resource")
	ErrInvalidProduct  = errors.New("product name is required and price and quantity cannot be negative")
	ErrProductNotFound = errors.New("product not found")
	ErrProductConflict = errors.New("product was modified by another request")
)
