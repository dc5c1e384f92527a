package model

import "errors"

// Domain errors shared by the stores and the services. Controllers map them
// to HTTP statuses; everything else surfaces as an internal error.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrStatementNotFound  = errors.New("statement not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidValue       = errors.New("invalid value")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("incorrect email or password combination")
)
