package types

import (
	"errors"
	"fmt"
)

// Failure kinds returned by market operations. Callers distinguish them with
// errors.Is; operations wrap them with fmt.Errorf("...: %w", kind) to carry
// context.
var (
	ErrValidation    = errors.New("invalid input")
	ErrNotAuthorized = errors.New("not authorized")
	ErrPrecondition  = errors.New("precondition failed")
	ErrNotFound      = errors.New("not found")
)

var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrListingNotFound = fmt.Errorf("listing %w", ErrNotFound)
)
