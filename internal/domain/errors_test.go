package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aelexs/atomic-clock/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ErrConfigRequired", domain.ErrConfigRequired, true},
		{"ErrInvalidConfig", domain.ErrInvalidConfig, true},
		{"wrapped ErrInvalidConfig", fmt.Errorf("display.timezone: %w", domain.ErrInvalidConfig), true},
		{"ErrEngineRunning", domain.ErrEngineRunning, false},
		{"random error", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.IsConfigError(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}
