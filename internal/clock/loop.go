package clock

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// queueSize bounds how many posted callbacks may wait for the loop.
const queueSize = 256

// Loop is a single-goroutine event loop. Posted callbacks, fired timers and
// frame callbacks all run serially inside Run.
//
// Post, Do and Stop are safe from any goroutine. AfterFunc, RequestFrame and
// Timer.Stop must be called from loop callbacks.
type Loop struct {
	frame    time.Duration
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
	frames   []*loopTimer
	logger   *log.Logger
}

type loopTimer struct {
	stopped atomic.Bool
	fired   atomic.Bool
	timer   *time.Timer
	fn      func()
}

func (t *loopTimer) Stop() bool {
	if t.fired.Load() || !t.stopped.CompareAndSwap(false, true) {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}

func (t *loopTimer) fire() {
	if t.stopped.Load() || !t.fired.CompareAndSwap(false, true) {
		return
	}
	t.fn()
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFrameInterval sets the period between frame flushes.
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.frame = d
		}
	}
}

// WithLogger sets the logger used for recovered callback panics.
func WithLogger(logger *log.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates a loop. It does nothing until Run is called.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		frame:  DefaultFrameInterval,
		queue:  make(chan func(), queueSize),
		done:   make(chan struct{}),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes callbacks until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case f := <-l.queue:
			l.run(f)
		case <-ticker.C:
			l.flushFrames()
		}
	}
}

// Stop ends Run. Callbacks still queued are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Done is closed once the loop has been stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues f to run on the loop goroutine.
// Returns false if the loop has stopped. Must not be called from the loop
// goroutine while the queue is full.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case <-l.done:
		return false
	case l.queue <- f:
		return true
	}
}

// Do runs f on the loop goroutine and waits for it to finish.
// Returns false if the loop stopped before f ran.
// Calling Do from the loop goroutine deadlocks.
func (l *Loop) Do(f func()) bool {
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		f()
	}) {
		return false
	}

	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}

// Now returns the wall clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc runs f on the loop goroutine after d.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{fn: f}
	t.timer = time.AfterFunc(d, func() {
		l.Post(t.fire)
	})
	return t
}

// RequestFrame runs f at the next frame flush.
func (l *Loop) RequestFrame(f func()) Timer {
	t := &loopTimer{fn: f}
	l.frames = append(l.frames, t)
	return t
}

// flushFrames runs the frame callbacks requested before this flush.
// Requests made during the flush wait for the next one.
func (l *Loop) flushFrames() {
	if len(l.frames) == 0 {
		return
	}
	frames := l.frames
	l.frames = nil
	for _, t := range frames {
		l.run(t.fire)
	}
}

func (l *Loop) run(f func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panicked", "panic", r)
		}
	}()
	f()
}
