package input

import (
	"sort"
	"time"

	"github.com/vovakirdan/blockfall/internal/clock"
)

// DesktopRecognizer classifies key, mouse and scroll events.
type DesktopRecognizer struct {
	sched   clock.Scheduler
	cfg     Config
	actions Actions
	remove  []func()

	lastPress time.Time
	longClick clock.Timer
	lastTop   float64
	lastLeft  float64
	held      map[string]struct{}
	frame     clock.Timer
	destroyed bool
}

// NewDesktopRecognizer attaches a desktop recognizer to target. With
// cfg.FireKeyHoldPerFrame it also starts a per-frame loop re-firing held keys.
func NewDesktopRecognizer(target Target, sched clock.Scheduler, cfg Config) *DesktopRecognizer {
	r := &DesktopRecognizer{
		sched:   sched,
		cfg:     cfg.withDefaults(),
		actions: Actions{},
		held:    make(map[string]struct{}),
	}
	r.remove = []func(){
		target.AddListener(EventKeyDown, r.onKeyDown),
		target.AddListener(EventKeyUp, r.onKeyUp),
		target.AddListener(EventMouseDown, r.onMouseDown),
		target.AddListener(EventMouseUp, r.onMouseUp),
		target.AddListener(EventScroll, r.onScroll),
	}
	if r.cfg.FireKeyHoldPerFrame {
		r.frame = sched.RequestFrame(r.onFrame)
	}
	return r
}

// HandleActions implements Recognizer.
func (r *DesktopRecognizer) HandleActions(actions Actions) {
	r.actions = actions.clone()
}

// Destroy implements Recognizer.
func (r *DesktopRecognizer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	if r.longClick != nil {
		r.longClick.Stop()
		r.longClick = nil
	}
	if r.frame != nil {
		r.frame.Stop()
		r.frame = nil
	}
	for _, remove := range r.remove {
		remove()
	}
	r.remove = nil
	clear(r.held)
}

// Held returns the codes of keys currently held, sorted.
func (r *DesktopRecognizer) Held() []string {
	keys := make([]string, 0, len(r.held))
	for k := range r.held {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *DesktopRecognizer) onKeyDown(ev Event) {
	r.actions.fire(ev.Code)
	if r.cfg.FireKeyHoldPerFrame {
		r.held[ev.Code] = struct{}{}
	}
}

func (r *DesktopRecognizer) onKeyUp(ev Event) {
	delete(r.held, ev.Code)
}

func (r *DesktopRecognizer) onFrame() {
	for _, code := range r.Held() {
		if r.destroyed {
			return
		}
		r.actions.fire(code)
	}
	if !r.destroyed {
		r.frame = r.sched.RequestFrame(r.onFrame)
	}
}

func (r *DesktopRecognizer) onMouseDown(ev Event) {
	switch ev.Button {
	case ButtonLeft:
		now := r.sched.Now()
		if !r.lastPress.IsZero() && now.Sub(r.lastPress) < r.cfg.DoubleClick {
			r.lastPress = time.Time{}
			r.stopLongClick()
			r.actions.fire(ActionDoubleClick)
			return
		}

		r.lastPress = now
		r.stopLongClick()
		r.longClick = r.sched.AfterFunc(r.cfg.LongPress, func() {
			r.longClick = nil
			if r.lastPress.Equal(now) {
				r.actions.fire(ActionLongClick)
			}
		})

	case ButtonMiddle:
		r.actions.fire(ActionMiddleClick)

	case ButtonRight:
		r.actions.fire(ActionRightClick)
	}
}

func (r *DesktopRecognizer) onMouseUp(ev Event) {
	if ev.Button != ButtonLeft {
		return
	}
	r.stopLongClick()
	if r.lastPress.IsZero() {
		return
	}
	if r.sched.Now().Sub(r.lastPress) < r.cfg.LongPress {
		r.actions.fire(ActionClick)
	}
}

func (r *DesktopRecognizer) onScroll(ev Event) {
	var action string
	switch {
	case ev.ScrollTop > r.lastTop:
		action = ActionScrollDown
	case ev.ScrollTop < r.lastTop:
		action = ActionScrollUp
	case ev.ScrollLeft > r.lastLeft:
		action = ActionScrollRight
	case ev.ScrollLeft < r.lastLeft:
		action = ActionScrollLeft
	}

	r.lastTop = ev.ScrollTop
	r.lastLeft = ev.ScrollLeft

	if action != "" {
		r.actions.fire(action)
	}
}

func (r *DesktopRecognizer) stopLongClick() {
	if r.longClick != nil {
		r.longClick.Stop()
		r.longClick = nil
	}
}
