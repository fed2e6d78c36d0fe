package clock

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by explicit calls to Advance.
// It is not safe for concurrent use; tests drive it from one goroutine.
type Manual struct {
	now     time.Time
	frame   time.Duration
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	m       *Manual
	at      time.Time
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.m.remove(t)
	return true
}

// NewManual creates a manual scheduler starting at the given time.
// Frame requests fire at the same instant they are requested, after the
// callback that requested them returns.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// SetFrameInterval sets the delay applied to RequestFrame.
func (m *Manual) SetFrameInterval(d time.Duration) {
	m.frame = d
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc schedules f at Now()+d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	return m.schedule(m.now.Add(d), f)
}

// RequestFrame schedules f one frame interval from now.
func (m *Manual) RequestFrame(f func()) Timer {
	return m.schedule(m.now.Add(m.frame), f)
}

// Post runs f immediately. Manual has no queue of its own; it matches
// Loop.Post for code that is handed either scheduler.
func (m *Manual) Post(f func()) bool {
	f()
	return true
}

// Pending returns the number of armed callbacks.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Advance moves virtual time forward by d, running every callback that
// becomes due in deadline order. Callbacks scheduled while advancing run too
// if they fall due before the target time.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.next()
		if next == nil || next.at.After(target) {
			break
		}
		m.remove(next)
		next.fired = true
		if next.at.After(m.now) {
			m.now = next.at
		}
		next.fn()
	}
	m.now = target
}

// Flush runs every callback that is due at the current time.
func (m *Manual) Flush() {
	m.Advance(0)
}

func (m *Manual) schedule(at time.Time, f func()) Timer {
	m.seq++
	t := &manualTimer{m: m, at: at, seq: m.seq, fn: f}
	m.pending = append(m.pending, t)
	return t
}

func (m *Manual) next() *manualTimer {
	if len(m.pending) == 0 {
		return nil
	}
	sort.Slice(m.pending, func(i, j int) bool {
		a, b := m.pending[i], m.pending[j]
		if a.at.Equal(b.at) {
			return a.seq < b.seq
		}
		return a.at.Before(b.at)
	})
	return m.pending[0]
}

func (m *Manual) remove(t *manualTimer) {
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}
