package input

import "github.com/vovakirdan/blockfall/internal/clock"

// Mode names the recognizer a Dispatcher selected.
type Mode int

const (
	ModeDesktop Mode = iota
	ModeTouch
)

func (m Mode) String() string {
	if m == ModeTouch {
		return "touch"
	}
	return "desktop"
}

// Dispatcher selects one recognizer from the target's capabilities at
// construction and forwards to it for the rest of its life.
type Dispatcher struct {
	mode       Mode
	recognizer Recognizer
}

// NewDispatcher attaches the recognizer matching target's capabilities.
func NewDispatcher(target Target, sched clock.Scheduler, cfg Config) *Dispatcher {
	d := &Dispatcher{}
	if target.Capabilities().Touch {
		d.mode = ModeTouch
		d.recognizer = NewTouchRecognizer(target, sched, cfg)
	} else {
		d.mode = ModeDesktop
		d.recognizer = NewDesktopRecognizer(target, sched, cfg)
	}
	return d
}

// HandleActions replaces the action table and returns d for chaining.
func (d *Dispatcher) HandleActions(actions Actions) *Dispatcher {
	d.recognizer.HandleActions(actions)
	return d
}

// Destroy detaches the active recognizer. Safe to call more than once.
func (d *Dispatcher) Destroy() {
	d.recognizer.Destroy()
}

// Mode reports which recognizer is active.
func (d *Dispatcher) Mode() Mode {
	return d.mode
}
