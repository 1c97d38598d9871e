// Package errmap maps domain errors to process exit codes.
package errmap

import (
	"errors"

	"github.com/aelexs/atomic-clock/internal/domain"
)

// Exit codes follow the BSD sysexits convention where one applies.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 64 // EX_USAGE
	ExitSoftware = 70 // EX_SOFTWARE
	ExitConfig   = 78 // EX_CONFIG
)

// exitMapping defines a domain error to exit code mapping.
type exitMapping struct {
	err  error
	code int
	name string
}

// exitMappings is checked in order; first match wins (via errors.Is).
var exitMappings = []exitMapping{
	{domain.ErrConfigRequired, ExitConfig, "CONFIG_REQUIRED"},
	{domain.ErrInvalidConfig, ExitConfig, "INVALID_CONFIG"},
	{domain.ErrEmptyID, ExitUsage, "INVALID_ARGUMENT"},
	{domain.ErrInvalidID, ExitUsage, "INVALID_ARGUMENT"},
	{domain.ErrEngineRunning, ExitSoftware, "ENGINE_RUNNING"},
}

// ExitCode returns the process exit code for err. Nil is success and
// unmapped errors are a generic failure.
func ExitCode(err error) int {
	code, _ := lookup(err)
	return code
}

// Name returns a stable identifier for the error class, e.g. for a
// structured log field. Unmapped errors are "INTERNAL".
func Name(err error) string {
	_, name := lookup(err)
	return name
}

func lookup(err error) (int, string) {
	if err == nil {
		return ExitOK, ""
	}
	for _, m := range exitMappings {
		if errors.Is(err, m.err) {
			return m.code, m.name
		}
	}
	return ExitFailure, "INTERNAL"
}
