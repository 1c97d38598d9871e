package engine

import "time"

// Handle is a pending scheduled callback.
type Handle interface {
	// Cancel prevents the callback from running. It returns false if the
	// callback already ran or was already cancelled.
	Cancel() bool
}

// FrameScheduler runs a callback once after a delay. The engine reschedules
// itself at the end of every frame, so at most one callback is pending.
type FrameScheduler interface {
	Schedule(d time.Duration, f func()) Handle
}

// TimerScheduler is the FrameScheduler backed by time.AfterFunc.
type TimerScheduler struct{}

// Schedule arranges for f to run in its own goroutine after d.
func (TimerScheduler) Schedule(d time.Duration, f func()) Handle {
	return timerHandle{t: time.AfterFunc(d, f)}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() bool {
	return h.t.Stop()
}

var _ FrameScheduler = TimerScheduler{}
