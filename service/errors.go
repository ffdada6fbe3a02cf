package service

import "errors"

// Validation errors returned by the balance operations. Handlers branch on
// these with errors.Is to tell an expected rejection from a real failure.
var (
	ErrAmountNotPositive   = errors.New("amount must be positive")
	ErrSelfTransfer        = errors.New("you cannot transfer moola to yourself")
	ErrUserNotFound        = errors.New("that user has no moola balance")
	ErrInsufficientBalance = errors.New("insufficient moola")
	ErrFineExceedsBalance  = errors.New("fine exceeds the user's balance")
)
