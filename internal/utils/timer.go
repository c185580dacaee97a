package utils

import "time"

// Timer captures the wall-clock duration of one operation. [NewTimer] starts
// measuring immediately; [Timer.Stop] freezes the elapsed time for later
// reporting through [Timer.GetDuration].
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

// NewTimer returns a running timer.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Start restarts the measurement from now, reusing the instance.
func (t *Timer) Start() {
	t.startTime = time.Now()
}

// Stop freezes the elapsed time since construction or the last Start.
func (t *Timer) Stop() {
	t.duration = time.Since(t.startTime)
}

// GetDuration returns the duration frozen by Stop, or zero before any Stop.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}
