package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrMissingRequiredKey = errors.New("missing required key")
	ErrNoHorses           = errors.New("horses list is empty")
)

// NewMissingKeyError wraps ErrMissingRequiredKey with the key name so the
// failure message names the offending field.
func NewMissingKeyError(key string) error {
	return fmt.Errorf("%w: %q", ErrMissingRequiredKey, key)
}
