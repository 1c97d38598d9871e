package panel

import "time"

// FrameMsgForTest builds the redraw message the model schedules for itself.
func FrameMsgForTest(t time.Time) frameMsg {
	return frameMsg(t)
}
