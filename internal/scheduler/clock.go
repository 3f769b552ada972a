package scheduler

import "time"

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock uses the monotonic reading of the system time.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep pauses the current goroutine for at least the duration d.
func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
