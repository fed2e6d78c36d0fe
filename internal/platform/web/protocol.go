package web

import (
	"github.com/vovakirdan/blockfall/internal/input"
	"github.com/vovakirdan/blockfall/internal/session"
)

// Client message types.
const (
	MsgHello      = "hello"
	MsgTouch      = "touch"
	MsgKey        = "key"
	MsgMouse      = "mouse"
	MsgScroll     = "scroll"
	MsgVisibility = "visibility"
	MsgRestart    = "restart"
	MsgPause      = "pause"
)

// Server message types.
const (
	MsgWelcome = "welcome"
	MsgFrame   = "frame"
	MsgError   = "error"
)

// ClientMessage is any message a browser sends. Type selects which fields
// are meaningful.
type ClientMessage struct {
	Type string `json:"type"`

	// hello
	Player  string `json:"player,omitempty"`
	Variant string `json:"variant,omitempty"`
	Touch   bool   `json:"touch,omitempty"`

	// touch: phase is start, move or end
	Phase string  `json:"phase,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`

	// key and mouse
	Code   string `json:"code,omitempty"`
	Down   bool   `json:"down,omitempty"`
	Button string `json:"button,omitempty"` // left, middle or right

	// scroll offsets
	Top  float64 `json:"top,omitempty"`
	Left float64 `json:"left,omitempty"`

	// visibility
	Visible bool `json:"visible,omitempty"`
}

// ServerMessage is any message the server sends.
type ServerMessage struct {
	Type      string        `json:"type"`
	SessionID string        `json:"session_id,omitempty"`
	Variant   string        `json:"variant,omitempty"`
	Frame     *FramePayload `json:"frame,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// FramePayload is one board state.
type FramePayload struct {
	Seq     uint64     `json:"seq"`
	Grid    [][]string `json:"grid"`
	Compact []string   `json:"compact"`
	Stats   Stats      `json:"stats"`
}

// Stats mirrors the HUD of the terminal client.
type Stats struct {
	Lines    int     `json:"lines"`
	Progress float64 `json:"progress"`
	Paused   bool    `json:"paused"`
	GameOver bool    `json:"game_over"`
	Won      bool    `json:"won"`
	Piece    string  `json:"piece,omitempty"`
	Input    string  `json:"input,omitempty"`
}

func framePayload(f session.Frame) *FramePayload {
	return &FramePayload{
		Seq:     f.Seq,
		Grid:    f.Grid,
		Compact: f.Compact,
		Stats: Stats{
			Lines:    f.State.Lines,
			Progress: f.State.Progress,
			Paused:   f.State.Paused,
			GameOver: f.State.GameOver,
			Won:      f.State.Won,
			Piece:    f.State.Piece,
			Input:    f.State.Input,
		},
	}
}

// inputEvent converts a touch, key, mouse or scroll message into a raw
// input event.
func inputEvent(m ClientMessage) (input.Event, bool) {
	switch m.Type {
	case MsgTouch:
		ev := input.Event{X: m.X, Y: m.Y}
		switch m.Phase {
		case "start":
			ev.Kind = input.EventTouchStart
		case "move":
			ev.Kind = input.EventTouchMove
		case "end":
			ev.Kind = input.EventTouchEnd
		default:
			return input.Event{}, false
		}
		return ev, true

	case MsgKey:
		if m.Code == "" {
			return input.Event{}, false
		}
		kind := input.EventKeyUp
		if m.Down {
			kind = input.EventKeyDown
		}
		return input.Event{Kind: kind, Code: m.Code}, true

	case MsgMouse:
		ev := input.Event{Kind: input.EventMouseUp, X: m.X, Y: m.Y}
		if m.Down {
			ev.Kind = input.EventMouseDown
		}
		switch m.Button {
		case "", "left":
			ev.Button = input.ButtonLeft
		case "middle":
			ev.Button = input.ButtonMiddle
		case "right":
			ev.Button = input.ButtonRight
		default:
			return input.Event{}, false
		}
		return ev, true

	case MsgScroll:
		return input.Event{Kind: input.EventScroll, ScrollTop: m.Top, ScrollLeft: m.Left}, true
	}
	return input.Event{}, false
}
