package domain

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrInvalidState  = errors.New("invalid game state")
	ErrInvalidRecord = errors.New("invalid game record")
	ErrRoundOver     = fmt.Errorf("%w: round is already over", ErrInvalidState)
	ErrEmptyDeck     = fmt.Errorf("%w: deck is empty", ErrInvalidState)
)

// Identity errors.
var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email already registered")
)

// Persistence errors.
var (
	ErrStorage        = errors.New("storage unavailable")
	ErrSaveInProgress = errors.New("save with this idempotency key is already in progress")
)
