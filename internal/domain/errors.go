package domain

import "errors"

// Error kinds. Concrete errors wrap one of these; classify with errors.Is.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrNetwork        = errors.New("network error")
)
