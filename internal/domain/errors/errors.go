package errors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNoPolicy           = errors.New("no reward policy for merchant")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidPolicy      = errors.New("invalid policy configuration")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidCustomer    = errors.New("invalid customer")
	ErrSpinNotConfigured  = errors.New("spin wheel not configured")
)
