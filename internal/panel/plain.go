package panel

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aelexs/atomic-clock/internal/domain"
)

// PlainConfig configures the line-oriented writer.
type PlainConfig struct {
	Source   Source
	Timer    domain.HighResTimer
	Location *time.Location
	Renderer *Renderer
	Interval time.Duration // defaults to domain.DefaultPlainInterval
}

// RunPlain writes one summary line immediately and then one per interval
// until ctx is cancelled. It returns nil on cancellation and the write
// error if the output fails.
func RunPlain(ctx context.Context, w io.Writer, cfg PlainConfig) error {
	if cfg.Interval <= 0 {
		cfg.Interval = domain.DefaultPlainInterval
	}

	write := func() error {
		line := cfg.Renderer.Line(Capture(cfg.Source, cfg.Timer, cfg.Location))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write plain output: %w", err)
		}
		return nil
	}

	if err := write(); err != nil {
		return err
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := write(); err != nil {
				return err
			}
		}
	}
}
