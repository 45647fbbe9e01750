package services

import "errors"

// Service errors mapped to HTTP statuses by the handlers.
var (
	ErrNotFound           = errors.New("record not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
