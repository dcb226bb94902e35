package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrTransportUnavailable = errors.New("document store unavailable")
	ErrPartialMigration     = errors.New("line migration partially applied")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrStoreForbidden       = errors.New("no access to this store")
)

// Validation failures wrap ErrValidation so callers can match the family.
var (
	ErrStoreKeyRequired    = fmt.Errorf("%w: store key is required", ErrValidation)
	ErrUserIDRequired      = fmt.Errorf("%w: user id is required", ErrValidation)
	ErrInvalidDate         = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	ErrInvalidVersion      = fmt.Errorf("%w: version must be base or alterna", ErrValidation)
	ErrUnknownStore        = fmt.Errorf("%w: unknown store", ErrValidation)
	ErrLineIndexOutOfRange = fmt.Errorf("%w: line index out of range", ErrValidation)
)
