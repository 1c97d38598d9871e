package domain

import "errors"

// Sentinel errors for domain error conditions.
// Use errors.Is() for matching - never compare error strings.
var (
	// ID validation errors
	ErrEmptyID   = errors.New("ID cannot be empty")
	ErrInvalidID = errors.New("invalid ID format")

	// Engine lifecycle errors
	ErrEngineRunning = errors.New("clock engine already running")

	// Configuration errors
	ErrConfigRequired = errors.New("required configuration key missing")
	ErrInvalidConfig  = errors.New("invalid configuration value")
)

// IsConfigError returns true if the error originates from configuration
// loading or validation. Such errors are fatal at startup.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigRequired) || errors.Is(err, ErrInvalidConfig)
}
