// Package panel renders the atomic clock display: the primary time readout,
// drift line, cesium oscillator with its layered waves, secondary time
// blocks and status indicators. It has a full-screen bubbletea front end and
// a line-oriented plain writer for non-terminal output.
package panel

import (
	"time"

	"github.com/aelexs/atomic-clock/internal/domain"
	"github.com/aelexs/atomic-clock/internal/engine"
	"github.com/aelexs/atomic-clock/internal/timeview"
)

// Source is the read side of the clock engine.
type Source interface {
	State() engine.ClockState
}

// Indicator is one labelled status light.
type Indicator struct {
	Label  string
	Status domain.Status
}

// DefaultIndicators returns the four status lights shown in the footer.
// They are static: nothing measures signal, lock, temperature or field.
func DefaultIndicators() []Indicator {
	return []Indicator{
		{Label: "SIGNAL", Status: domain.StatusNominal},
		{Label: "FREQUENCY LOCK", Status: domain.StatusNominal},
		{Label: "TEMPERATURE", Status: domain.StatusNominal},
		{Label: "MAGNETIC FIELD", Status: domain.StatusNominal},
	}
}

// Frame is everything one render needs.
type Frame struct {
	View       timeview.View
	Drift      float64 // milliseconds
	Indicators []Indicator
}

// Capture reads the engine state and the high-resolution timer and derives
// the frame to draw.
func Capture(src Source, timer domain.HighResTimer, loc *time.Location) Frame {
	state := src.State()
	return Frame{
		View:       timeview.Derive(state.CurrentInstant, timer.NowMillis(), loc),
		Drift:      state.DriftEstimate,
		Indicators: DefaultIndicators(),
	}
}
