package input

import "time"

// Touch gesture action names.
const (
	ActionTap        = "tap"
	ActionDoubleTap  = "doubleTap"
	ActionLongTap    = "longTap"
	ActionSwipeUp    = "swipeUp"
	ActionSwipeDown  = "swipeDown"
	ActionSwipeLeft  = "swipeLeft"
	ActionSwipeRight = "swipeRight"
	ActionTouchStart = "touchstart"
	ActionTouchMove  = "touchmove"
	ActionTouchEnd   = "touchend"
)

// Desktop action names.
const (
	ActionClick       = "click"
	ActionLongClick   = "longClick"
	ActionDoubleClick = "doubleClick"
	ActionRightClick  = "rightClick"
	ActionMiddleClick = "middleClick"
	ActionScrollUp    = "scrollUp"
	ActionScrollDown  = "scrollDown"
	ActionScrollLeft  = "scrollLeft"
	ActionScrollRight = "scrollRight"
)

// Key codes. Key actions are dispatched by code, so any code string can be
// bound; these are the ones hosts emit for the keys the game uses.
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeySpace      = "Space"
	KeyEnter      = "Enter"
	KeyEscape     = "Escape"
	KeyTab        = "Tab"
)

// Actions maps an action name or key code to its callback.
type Actions map[string]func()

// Recognizer is the common contract of the touch and desktop recognizers.
type Recognizer interface {
	// HandleActions replaces the action table.
	HandleActions(actions Actions)

	// Destroy detaches every listener and cancels every pending timer.
	// Safe to call more than once.
	Destroy()
}

// Defaults for gesture classification.
const (
	DefaultSwipeThreshold = 50
	DefaultFirstMove      = 20
	DefaultTapSlop        = 10
	DefaultLongPress      = 500 * time.Millisecond
	DefaultDoubleTap      = 200 * time.Millisecond

	// tapConfirmGrace is added to the double-tap window before a deferred
	// single tap commits.
	tapConfirmGrace = 50 * time.Millisecond
)

// Config tunes the recognizers.
//
// SwipeThreshold is used as given: zero makes swipes one-shot per touch.
// The remaining fields fall back to their defaults when zero.
type Config struct {
	SwipeThreshold      float64
	FireKeyHoldPerFrame bool

	FirstMove   float64
	TapSlop     float64
	LongPress   time.Duration
	DoubleTap   time.Duration
	DoubleClick time.Duration
}

// DefaultConfig returns the stock recognizer settings.
func DefaultConfig() Config {
	return Config{SwipeThreshold: DefaultSwipeThreshold}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.FirstMove <= 0 {
		c.FirstMove = DefaultFirstMove
	}
	if c.TapSlop <= 0 {
		c.TapSlop = DefaultTapSlop
	}
	if c.LongPress <= 0 {
		c.LongPress = DefaultLongPress
	}
	if c.DoubleTap <= 0 {
		c.DoubleTap = DefaultDoubleTap
	}
	if c.DoubleClick <= 0 {
		c.DoubleClick = DefaultDoubleTap
	}
	if c.SwipeThreshold < 0 {
		c.SwipeThreshold = 0
	}
	return c
}

// fire invokes the callback bound to name, if any.
func (a Actions) fire(name string) {
	if fn := a[name]; fn != nil {
		fn()
	}
}

func (a Actions) has(name string) bool {
	return a[name] != nil
}

// clone copies the table so callers can't mutate it behind a recognizer.
func (a Actions) clone() Actions {
	out := make(Actions, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
