// Package input turns raw host events (touches, keys, mouse buttons,
// scroll offsets) into named actions.
//
// A host publishes raw events on a Target. A Dispatcher inspects the
// target's capabilities once and attaches either the touch gesture
// recognizer or the desktop recognizer. Callers bind behaviour with an
// Actions table keyed by action name.
//
// All recognizers run on the scheduler goroutine, the same goroutine that
// emits events, so callbacks fire synchronously on the triggering event.
package input

// EventKind identifies the type of a raw host event.
type EventKind int

const (
	EventTouchStart EventKind = iota
	EventTouchMove
	EventTouchEnd
	EventKeyDown
	EventKeyUp
	EventMouseDown
	EventMouseUp
	EventScroll
)

// String returns the DOM-style event name.
func (k EventKind) String() string {
	switch k {
	case EventTouchStart:
		return "touchstart"
	case EventTouchMove:
		return "touchmove"
	case EventTouchEnd:
		return "touchend"
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	case EventMouseDown:
		return "mousedown"
	case EventMouseUp:
		return "mouseup"
	case EventScroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// Button identifies a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Event is a raw host event.
//
// X and Y carry the touch or pointer position. Code carries the key code
// for key events. ScrollTop and ScrollLeft carry the cumulative scroll
// offsets for scroll events.
type Event struct {
	Kind       EventKind
	X, Y       float64
	Code       string
	Button     Button
	ScrollTop  float64
	ScrollLeft float64
}

// Listener receives raw events.
type Listener func(Event)

// Capabilities describes what the host can produce.
type Capabilities struct {
	Touch bool
}

// Target is an event source recognizers attach to.
type Target interface {
	// AddListener attaches fn for events of kind. The returned func detaches
	// it and may be called any number of times.
	AddListener(kind EventKind, fn Listener) (remove func())

	// Capabilities reports the host's input modality.
	Capabilities() Capabilities
}
