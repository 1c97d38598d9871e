// Package domaintest provides test doubles for the domain package.
package domaintest

import (
	"sync"
	"time"

	"github.com/aelexs/atomic-clock/internal/domain"
)

// FakeClock is a deterministic, advanceable wall clock for tests.
// Use Advance/Set to control time progression instead of creating new
// clock instances.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewFakeClock creates a FakeClock set to the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the fake clock's current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the fake clock forward by the given duration.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set changes the fake clock to a specific time.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// FakeHighResTimer is a deterministic high-resolution timer reporting a
// settable number of fractional milliseconds.
type FakeHighResTimer struct {
	mu     sync.Mutex
	millis float64
}

// NewFakeHighResTimer creates a timer reading ms.
func NewFakeHighResTimer(ms float64) *FakeHighResTimer {
	return &FakeHighResTimer{millis: ms}
}

// NowMillis returns the current reading.
func (t *FakeHighResTimer) NowMillis() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.millis
}

// Advance adds ms to the reading.
func (t *FakeHighResTimer) Advance(ms float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.millis += ms
}

// Set replaces the reading.
func (t *FakeHighResTimer) Set(ms float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.millis = ms
}

// Ensure the fakes implement the domain interfaces at compile time.
var (
	_ domain.Clock        = (*FakeClock)(nil)
	_ domain.HighResTimer = (*FakeHighResTimer)(nil)
)
