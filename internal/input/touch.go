package input

import (
	"math"
	"time"

	"github.com/vovakirdan/blockfall/internal/clock"
)

// tapPhase is the state of a deferred single tap while a double tap may
// still arrive.
type tapPhase int

const (
	tapIdle tapPhase = iota
	tapAwaiting
	tapCommitted
	tapSuperseded
)

// pendingTap holds a single tap awaiting confirmation. It owns one timer.
type pendingTap struct {
	phase  tapPhase
	timer  clock.Timer
	commit func()
}

// arm starts a confirmation timer; commit runs if nothing supersedes it.
// A tap still awaiting from an earlier touch commits immediately.
func (p *pendingTap) arm(sched clock.Scheduler, after time.Duration, commit func()) {
	p.flush()
	p.phase = tapAwaiting
	p.commit = commit
	p.timer = sched.AfterFunc(after, p.confirm)
}

func (p *pendingTap) confirm() {
	if p.phase != tapAwaiting {
		return
	}
	p.phase = tapCommitted
	p.timer = nil
	commit := p.commit
	p.commit = nil
	commit()
}

// flush commits an awaiting tap without waiting for its timer.
func (p *pendingTap) flush() {
	if p.phase != tapAwaiting {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.confirm()
}

// supersede drops an awaiting tap in favour of a double tap.
func (p *pendingTap) supersede() {
	if p.phase != tapAwaiting {
		return
	}
	p.cancel()
	p.phase = tapSuperseded
}

func (p *pendingTap) cancel() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.commit = nil
	if p.phase == tapAwaiting {
		p.phase = tapIdle
	}
}

// TouchRecognizer classifies touch sequences into taps, double taps, long
// taps and directional swipes.
type TouchRecognizer struct {
	sched   clock.Scheduler
	cfg     Config
	actions Actions
	remove  []func()

	startX, startY float64
	refX, refY     float64
	startAt        time.Time
	lastEnd        time.Time
	swiping        bool

	tap       pendingTap
	destroyed bool
}

// NewTouchRecognizer attaches a touch recognizer to target.
func NewTouchRecognizer(target Target, sched clock.Scheduler, cfg Config) *TouchRecognizer {
	r := &TouchRecognizer{
		sched:   sched,
		cfg:     cfg.withDefaults(),
		actions: Actions{},
	}
	r.remove = []func(){
		target.AddListener(EventTouchStart, r.onStart),
		target.AddListener(EventTouchMove, r.onMove),
		target.AddListener(EventTouchEnd, r.onEnd),
	}
	return r
}

// HandleActions implements Recognizer.
func (r *TouchRecognizer) HandleActions(actions Actions) {
	r.actions = actions.clone()
}

// Destroy implements Recognizer.
func (r *TouchRecognizer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.tap.cancel()
	for _, remove := range r.remove {
		remove()
	}
	r.remove = nil
}

func (r *TouchRecognizer) onStart(ev Event) {
	r.actions.fire(ActionTouchStart)

	r.startX, r.startY = ev.X, ev.Y
	r.refX, r.refY = ev.X, ev.Y
	r.startAt = r.sched.Now()
	r.swiping = false
}

func (r *TouchRecognizer) onMove(ev Event) {
	r.actions.fire(ActionTouchMove)

	// A zero threshold makes the swipe one-shot.
	if r.swiping && r.cfg.SwipeThreshold == 0 {
		return
	}

	threshold := r.cfg.FirstMove
	if r.swiping {
		threshold = r.cfg.SwipeThreshold
	}

	dx := ev.X - r.refX
	dy := ev.Y - r.refY
	if math.Abs(dx) <= threshold && math.Abs(dy) <= threshold {
		return
	}

	r.swiping = true
	r.refX, r.refY = ev.X, ev.Y
	r.actions.fire(swipeDirection(dx, dy))
}

func (r *TouchRecognizer) onEnd(ev Event) {
	r.actions.fire(ActionTouchEnd)

	now := r.sched.Now()
	held := now.Sub(r.startAt)
	still := math.Abs(ev.X-r.startX) < r.cfg.TapSlop && math.Abs(ev.Y-r.startY) < r.cfg.TapSlop
	hadLast := !r.lastEnd.IsZero()
	sinceLast := now.Sub(r.lastEnd)
	r.lastEnd = now

	wantsDouble := r.actions.has(ActionDoubleTap)

	switch {
	case wantsDouble && hadLast && sinceLast <= r.cfg.DoubleTap && still:
		r.tap.supersede()
		r.actions.fire(ActionDoubleTap)

	case !r.swiping && held < r.cfg.LongPress:
		if !wantsDouble {
			r.actions.fire(ActionTap)
			return
		}
		if still {
			r.tap.arm(r.sched, r.cfg.DoubleTap+tapConfirmGrace, func() {
				r.actions.fire(ActionTap)
			})
		}

	case !r.swiping:
		r.actions.fire(ActionLongTap)
	}
}

// swipeDirection picks the dominant axis, then the sign along it.
// Ties go to the vertical axis.
func swipeDirection(dx, dy float64) string {
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return ActionSwipeRight
		}
		return ActionSwipeLeft
	}
	if dy > 0 {
		return ActionSwipeDown
	}
	return ActionSwipeUp
}
