package errmap_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aelexs/atomic-clock/internal/domain"
	"github.com/aelexs/atomic-clock/internal/errmap"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantName string
	}{
		{"nil error", nil, errmap.ExitOK, ""},

		{"ErrConfigRequired", domain.ErrConfigRequired, errmap.ExitConfig, "CONFIG_REQUIRED"},
		{"ErrInvalidConfig", domain.ErrInvalidConfig, errmap.ExitConfig, "INVALID_CONFIG"},
		{"ErrEmptyID", domain.ErrEmptyID, errmap.ExitUsage, "INVALID_ARGUMENT"},
		{"ErrInvalidID", domain.ErrInvalidID, errmap.ExitUsage, "INVALID_ARGUMENT"},
		{"ErrEngineRunning", domain.ErrEngineRunning, errmap.ExitSoftware, "ENGINE_RUNNING"},

		// Wrapped errors
		{"wrapped config error", fmt.Errorf("load config: %w", domain.ErrInvalidConfig), errmap.ExitConfig, "INVALID_CONFIG"},
		{"joined errors", errors.Join(errors.New("flush"), domain.ErrConfigRequired), errmap.ExitConfig, "CONFIG_REQUIRED"},

		// Unknown
		{"unknown error", errors.New("boom"), errmap.ExitFailure, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, errmap.ExitCode(tt.err))
			assert.Equal(t, tt.wantName, errmap.Name(tt.err))
		})
	}
}
