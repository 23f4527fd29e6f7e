// Package clock abstracts the timer operations the client schedules so the
// greeting sequence can be driven deterministically in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
	// AfterFunc calls f once d has elapsed. Stop on the returned Timer
	// cancels the call if it has not happened yet.
	AfterFunc(d time.Duration, f func()) *Timer
}

type Timer struct {
	stop func() bool
}

// Stop reports whether the call was prevented.
func (t *Timer) Stop() bool { return t.stop() }

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	timer := time.AfterFunc(d, f)
	return &Timer{stop: timer.Stop}
}
