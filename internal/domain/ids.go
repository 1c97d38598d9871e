// Package domain contains the clock's core types, constants and errors.
// No presentation or infrastructure dependencies allowed here.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// EngineID is a value object identifying one ClockEngine instance.
// It correlates log lines and metrics across restarts of the same display.
type EngineID struct {
	value string
}

// NewEngineID creates an EngineID from a raw string, validating it is a valid UUID.
func NewEngineID(raw string) (EngineID, error) {
	if raw == "" {
		return EngineID{}, ErrEmptyID
	}
	if _, err := uuid.Parse(raw); err != nil {
		return EngineID{}, fmt.Errorf("invalid engine ID %q: %w", raw, ErrInvalidID)
	}
	return EngineID{value: raw}, nil
}

// MustEngineID creates an EngineID, panicking on invalid input. Use only in tests.
func MustEngineID(raw string) EngineID {
	id, err := NewEngineID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateEngineID creates a new random EngineID.
func GenerateEngineID() EngineID {
	return EngineID{value: uuid.NewString()}
}

func (id EngineID) String() string { return id.value }
func (id EngineID) IsZero() bool   { return id.value == "" }
