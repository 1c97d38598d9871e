// Package timeview derives the displayed presentations of an instant:
// local and UTC clock components, Unix seconds, Julian date, oscillation
// phase and the illustrative cesium cycle count.
//
// Every function here is pure. A View is recomputed for each render and is
// never written back into engine state.
package timeview

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/aelexs/atomic-clock/internal/domain"
)

// julianMinWidth is the minimum width of a formatted Julian date.
const julianMinWidth = 8

// cyclesPerMilli is the number of cesium cycles in one millisecond.
const cyclesPerMilli = float64(domain.CesiumFrequencyHz) / 1000

// View is the derived, display-ready presentation of one instant.
type View struct {
	// Local wall-clock components.
	Hour        int
	Minute      int
	Second      int
	Millisecond int

	// Microsecond is synthetic: it comes from the high-resolution timer's
	// fractional millisecond, not from the instant. See Microseconds.
	Microsecond int

	UTCHour   int
	UTCMinute int
	UTCSecond int

	Unix         int64
	Julian       float64
	Phase        float64
	CesiumCycles int64
	TAIOffset    string
}

// Derive computes the View for instant in loc. highRes is a reading of the
// high-resolution timer in fractional milliseconds. A nil loc means
// time.Local.
func Derive(instant time.Time, highRes float64, loc *time.Location) View {
	if loc == nil {
		loc = time.Local
	}
	local := instant.In(loc)
	utc := instant.UTC()

	return View{
		Hour:         local.Hour(),
		Minute:       local.Minute(),
		Second:       local.Second(),
		Millisecond:  local.Nanosecond() / int(time.Millisecond),
		Microsecond:  Microseconds(highRes),
		UTCHour:      utc.Hour(),
		UTCMinute:    utc.Minute(),
		UTCSecond:    utc.Second(),
		Unix:         UnixTimestamp(instant),
		Julian:       JulianDate(instant),
		Phase:        OscillationPhase(instant),
		CesiumCycles: CesiumCycles(instant),
		TAIOffset:    domain.TAIOffset,
	}
}

// UnixTimestamp returns floor(ms / 1000) for the instant's Unix milliseconds.
func UnixTimestamp(t time.Time) int64 {
	return floorDiv(t.UnixMilli(), 1000)
}

// JulianDate returns the continuous Julian day number of t.
func JulianDate(t time.Time) float64 {
	return float64(t.UnixMilli())/domain.MillisPerDay + domain.UnixEpochJulianDate
}

// OscillationPhase returns the position of t within its second, in [0, 1).
func OscillationPhase(t time.Time) float64 {
	return float64(millisOfSecond(t)) / 1000
}

// CesiumCycles returns the illustrative hyperfine cycle count for the
// current position within the second: floor(phase * 9192631770/1000).
// The result is always in [0, 9192631770/1000).
func CesiumCycles(t time.Time) int64 {
	return int64(math.Floor(float64(millisOfSecond(t)) / 1000 * cyclesPerMilli))
}

// Microseconds returns floor((highRes mod 1) * 1000). It is cosmetic timer
// jitter and does not decompose the displayed instant.
func Microseconds(highRes float64) int {
	frac := math.Mod(highRes, 1)
	if frac < 0 {
		frac++
	}
	us := int(math.Floor(frac * 1000))
	if us > 999 {
		us = 999
	}
	return us
}

// FormatJulian renders jd with five decimals, zero-padded on the left to a
// minimum width of eight characters.
func FormatJulian(jd float64) string {
	return fmt.Sprintf("%0*.5f", julianMinWidth, jd)
}

// LocalClock returns the local time as HH:MM:SS.
func (v View) LocalClock() string {
	return fmt.Sprintf("%02d:%02d:%02d", v.Hour, v.Minute, v.Second)
}

// UTCClock returns the UTC time as HH:MM:SS.
func (v View) UTCClock() string {
	return fmt.Sprintf("%02d:%02d:%02d", v.UTCHour, v.UTCMinute, v.UTCSecond)
}

// Millis returns the millisecond field padded to three digits.
func (v View) Millis() string {
	return fmt.Sprintf("%03d", v.Millisecond)
}

// Micros returns the synthetic microsecond field padded to three digits.
func (v View) Micros() string {
	return fmt.Sprintf("%03d", v.Microsecond)
}

// UnixString returns the Unix timestamp in decimal.
func (v View) UnixString() string {
	return strconv.FormatInt(v.Unix, 10)
}

// JulianString returns the formatted Julian date.
func (v View) JulianString() string {
	return FormatJulian(v.Julian)
}

func millisOfSecond(t time.Time) int64 {
	m := t.UnixMilli() % 1000
	if m < 0 {
		m += 1000
	}
	return m
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
