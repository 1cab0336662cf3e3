package models

import "errors"

var (
	ErrUnauthorized = errors.New("not authorized")
	ErrValidation   = errors.New("validation error")
)

var (
	ErrActorNotFound   = errors.New("actor not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")
)

var (
	ErrTicketsExhausted = errors.New("no tickets available")
	ErrEmailTaken       = errors.New("email is already registered")
	// ErrTransaction marks an aborted reservation transaction. Safe to retry.
	ErrTransaction = errors.New("transaction failed")
)
