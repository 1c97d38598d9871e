package domain

import "time"

// Clock provides the current wall-clock time. Implementations may be real
// (production) or deterministic (testing).
type Clock interface {
	// Now returns the current time. The returned time includes both wall clock
	// and monotonic readings when using RealClock.
	Now() time.Time
}

// HighResTimer is a monotonically increasing timer reporting fractional
// milliseconds since an arbitrary epoch. It is unaffected by wall-clock
// adjustments and is used for measuring inter-frame intervals.
type HighResTimer interface {
	NowMillis() float64
}

// RealClock implements Clock using the system clock.
// It is a zero-allocation implementation (empty struct).
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time {
	return time.Now()
}

// MonotonicTimer implements HighResTimer using the monotonic reading that
// time.Now carries. The epoch is the moment the timer was created.
type MonotonicTimer struct {
	origin time.Time
}

// NewMonotonicTimer returns a timer whose epoch is the current instant.
func NewMonotonicTimer() *MonotonicTimer {
	return &MonotonicTimer{origin: time.Now()}
}

// NowMillis returns the elapsed time since the timer's epoch in fractional
// milliseconds.
func (m *MonotonicTimer) NowMillis() float64 {
	return DurationMillis(time.Since(m.origin))
}

// DurationMillis converts a duration to fractional milliseconds.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// MillisDuration converts fractional milliseconds to a duration, rounding
// to the nearest nanosecond.
func MillisDuration(ms float64) time.Duration {
	return time.Duration(ms*float64(time.Millisecond) + 0.5)
}

// Ensure the real implementations satisfy their interfaces at compile time.
var (
	_ Clock        = RealClock{}
	_ HighResTimer = (*MonotonicTimer)(nil)
)
