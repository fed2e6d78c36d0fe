// Package clock provides the cooperative scheduling used by the board and
// the input recognizers. Every callback runs on a single goroutine, so the
// code it drives needs no locks.
//
// Loop is the production scheduler. Manual keeps virtual time for tests.
package clock

import "time"

// Timer is a pending callback that can be cancelled.
// Stop reports whether the call prevented the callback from running.
// Stopping an already fired or stopped timer is a no-op.
type Timer interface {
	Stop() bool
}

// Scheduler arms callbacks on the scheduler goroutine.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time

	// AfterFunc runs f once after d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer

	// RequestFrame runs f once at the next rendering frame.
	RequestFrame(f func()) Timer
}

// DefaultFrameInterval is the frame period used when none is configured (60 fps).
const DefaultFrameInterval = time.Second / 60

// FrameInterval converts a frame rate into a frame period.
// Non-positive rates fall back to DefaultFrameInterval.
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		return DefaultFrameInterval
	}
	return time.Second / time.Duration(fps)
}
