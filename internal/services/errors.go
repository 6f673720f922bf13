package services

import "errors"

// Error taxonomy surfaced to the HTTP layer. Handlers map these onto status
// codes; nothing below this layer is retried automatically.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidState       = errors.New("invalid document state")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("invalid input")
	ErrStorage            = errors.New("storage failure")
)
