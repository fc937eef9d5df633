package models

import "errors"

// Error kinds shared by every component. Callers match them with errors.Is.
var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrNotFound           = errors.New("not found")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidDateFormat  = errors.New("invalid date format, expected YYYY-MM-DD")
)
