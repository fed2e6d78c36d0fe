package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/input"
)

// KeyMapper translates Bubble Tea key messages to host commands and
// input key codes.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a host command, or CommandNone.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Command {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.CommandQuit
	case "b", "esc":
		return core.CommandBack
	case "p":
		return core.CommandPause
	case "r":
		return core.CommandRestart
	case "c":
		return core.CommandCompact
	case "ctrl+s":
		return core.CommandScreenshot
	}
	return core.CommandNone
}

// KeyCode returns the input key code for keys that steer the piece.
// WASD mirrors the arrow keys.
func (km *KeyMapper) KeyCode(msg tea.KeyMsg) (string, bool) {
	switch msg.String() {
	case "up", "w", "k":
		return input.KeyArrowUp, true
	case "down", "s", "j":
		return input.KeyArrowDown, true
	case "left", "a", "h":
		return input.KeyArrowLeft, true
	case "right", "d", "l":
		return input.KeyArrowRight, true
	case " ":
		return input.KeySpace, true
	}
	return "", false
}

// MouseMapper turns terminal mouse messages into raw input events.
// Terminals report wheel steps rather than scroll offsets, so it keeps a
// running offset per axis.
type MouseMapper struct {
	scrollTop  float64
	scrollLeft float64
}

// MapMouse returns the event for msg, or false for motion and unknown
// buttons.
func (mm *MouseMapper) MapMouse(msg tea.MouseMsg) (input.Event, bool) {
	pos := input.Event{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		mm.scrollTop--
		return mm.scroll(), true
	case tea.MouseButtonWheelDown:
		mm.scrollTop++
		return mm.scroll(), true
	case tea.MouseButtonWheelLeft:
		mm.scrollLeft--
		return mm.scroll(), true
	case tea.MouseButtonWheelRight:
		mm.scrollLeft++
		return mm.scroll(), true
	}

	switch msg.Action {
	case tea.MouseActionPress:
		pos.Kind = input.EventMouseDown
	case tea.MouseActionRelease:
		pos.Kind = input.EventMouseUp
	default:
		return input.Event{}, false
	}

	switch msg.Button {
	case tea.MouseButtonLeft, tea.MouseButtonNone:
		// X10 mouse mode reports releases without a button.
		pos.Button = input.ButtonLeft
	case tea.MouseButtonMiddle:
		pos.Button = input.ButtonMiddle
	case tea.MouseButtonRight:
		pos.Button = input.ButtonRight
	default:
		return input.Event{}, false
	}
	return pos, true
}

func (mm *MouseMapper) scroll() input.Event {
	return input.Event{
		Kind:       input.EventScroll,
		ScrollTop:  mm.scrollTop,
		ScrollLeft: mm.scrollLeft,
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionEasier
	MenuActionHarder
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	case "left", "a", "h":
		return MenuActionEasier
	case "right", "d", "l":
		return MenuActionHarder
	}

	return MenuActionNone
}
