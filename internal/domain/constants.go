package domain

import "time"

// Physical and display constants. These are compiled values; only the
// display-related ones can be overridden via configuration.
const (
	// CesiumFrequencyHz is the Cesium-133 hyperfine transition frequency
	// that defines the SI second.
	CesiumFrequencyHz = 9192631770

	// UnixEpochJulianDate is the Julian date of 1970-01-01T00:00:00Z.
	UnixEpochJulianDate = 2440587.5

	// MillisPerDay is the number of milliseconds in a civil day.
	MillisPerDay = 86400000

	// TAIOffset is the displayed TAI−UTC offset. It is static: no leap-second
	// table is consulted.
	TAIOffset = "+37s"

	// Frame timing (nominal 60 Hz display)
	ExpectedFrameIntervalMillis = 16.67
	DriftDecay                  = 0.99
	DriftGain                   = 1 - DriftDecay

	// FrameInterval is the scheduling interval derived from the nominal
	// frame rate.
	FrameInterval = time.Second / 60

	// Plain (non-TTY) output cadence
	DefaultPlainInterval = time.Second

	// Graceful shutdown
	ShutdownOTELTimeout = 5 * time.Second
	ShutdownUITimeout   = 2 * time.Second
)

// DisplayMode selects how the panel is presented.
type DisplayMode string

const (
	// DisplayModeAuto uses the TUI when stdout is a terminal, plain otherwise.
	DisplayModeAuto  DisplayMode = "auto"
	DisplayModeTUI   DisplayMode = "tui"
	DisplayModePlain DisplayMode = "plain"
)

// IsValidDisplayMode checks if a display mode is supported.
func IsValidDisplayMode(m DisplayMode) bool {
	return m == DisplayModeAuto || m == DisplayModeTUI || m == DisplayModePlain
}

// Status is the state of a panel status indicator.
type Status string

const (
	StatusNominal Status = "nominal"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// IsValidStatus checks if a status is one of the known indicator states.
func IsValidStatus(s Status) bool {
	return s == StatusNominal || s == StatusWarning || s == StatusError
}
