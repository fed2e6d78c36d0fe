package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	m := NewManual(epoch)
	var got []string

	m.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a2") })

	m.Advance(25 * time.Millisecond)
	assert.Equal(t, []string{"a", "a2", "b"}, got)
	assert.Equal(t, epoch.Add(25*time.Millisecond), m.Now())
	assert.Equal(t, 1, m.Pending())

	m.Advance(5 * time.Millisecond)
	assert.Equal(t, []string{"a", "a2", "b", "c"}, got)
	assert.Equal(t, 0, m.Pending())
}

func TestManualNowDuringCallback(t *testing.T) {
	m := NewManual(epoch)
	var at time.Time
	m.AfterFunc(40*time.Millisecond, func() { at = m.Now() })

	m.Advance(time.Second)
	assert.Equal(t, epoch.Add(40*time.Millisecond), at)
	assert.Equal(t, epoch.Add(time.Second), m.Now())
}

func TestManualStop(t *testing.T) {
	m := NewManual(epoch)
	fired := false
	timer := m.AfterFunc(time.Millisecond, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	m.Advance(time.Second)
	assert.False(t, fired)
}

func TestManualStopAfterFire(t *testing.T) {
	m := NewManual(epoch)
	timer := m.AfterFunc(time.Millisecond, func() {})
	m.Advance(time.Millisecond)

	assert.False(t, timer.Stop())
}

func TestManualChainedTimers(t *testing.T) {
	m := NewManual(epoch)
	count := 0
	var arm func()
	arm = func() {
		m.AfterFunc(100*time.Millisecond, func() {
			count++
			arm()
		})
	}
	arm()

	m.Advance(350 * time.Millisecond)
	assert.Equal(t, 3, count)
}

func TestManualRequestFrame(t *testing.T) {
	m := NewManual(epoch)
	var order []string

	m.AfterFunc(10*time.Millisecond, func() {
		order = append(order, "timer")
		m.RequestFrame(func() { order = append(order, "frame") })
	})
	m.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"timer", "frame"}, order)

	m.SetFrameInterval(16 * time.Millisecond)
	order = nil
	m.RequestFrame(func() { order = append(order, "late") })
	m.Flush()
	assert.Empty(t, order)
	m.Advance(16 * time.Millisecond)
	assert.Equal(t, []string{"late"}, order)
}

func TestFrameInterval(t *testing.T) {
	tests := []struct {
		fps      int
		expected time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, DefaultFrameInterval},
		{-5, DefaultFrameInterval},
	}

	for _, tt := range tests {
		if got := FrameInterval(tt.fps); got != tt.expected {
			t.Errorf("FrameInterval(%d) = %v, expected %v", tt.fps, got, tt.expected)
		}
	}
}

func TestManualPostRunsImmediately(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	ran := false
	assert.True(t, m.Post(func() { ran = true }))
	assert.True(t, ran)
	assert.Zero(t, m.Pending())
}
