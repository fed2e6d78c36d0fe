package web

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/input"
	"github.com/vovakirdan/blockfall/internal/session"
)

func TestInputEvent(t *testing.T) {
	tests := []struct {
		name string
		msg  ClientMessage
		want input.Event
		ok   bool
	}{
		{
			name: "touch start",
			msg:  ClientMessage{Type: MsgTouch, Phase: "start", X: 10, Y: 20},
			want: input.Event{Kind: input.EventTouchStart, X: 10, Y: 20},
			ok:   true,
		},
		{
			name: "touch move",
			msg:  ClientMessage{Type: MsgTouch, Phase: "move", X: 1, Y: 2},
			want: input.Event{Kind: input.EventTouchMove, X: 1, Y: 2},
			ok:   true,
		},
		{
			name: "touch end",
			msg:  ClientMessage{Type: MsgTouch, Phase: "end"},
			want: input.Event{Kind: input.EventTouchEnd},
			ok:   true,
		},
		{
			name: "touch with unknown phase",
			msg:  ClientMessage{Type: MsgTouch, Phase: "cancel"},
		},
		{
			name: "key down",
			msg:  ClientMessage{Type: MsgKey, Code: input.KeyArrowLeft, Down: true},
			want: input.Event{Kind: input.EventKeyDown, Code: input.KeyArrowLeft},
			ok:   true,
		},
		{
			name: "key up",
			msg:  ClientMessage{Type: MsgKey, Code: input.KeyArrowLeft},
			want: input.Event{Kind: input.EventKeyUp, Code: input.KeyArrowLeft},
			ok:   true,
		},
		{
			name: "key without code",
			msg:  ClientMessage{Type: MsgKey, Down: true},
		},
		{
			name: "mouse defaults to left",
			msg:  ClientMessage{Type: MsgMouse, Down: true, X: 3},
			want: input.Event{Kind: input.EventMouseDown, Button: input.ButtonLeft, X: 3},
			ok:   true,
		},
		{
			name: "right mouse up",
			msg:  ClientMessage{Type: MsgMouse, Button: "right"},
			want: input.Event{Kind: input.EventMouseUp, Button: input.ButtonRight},
			ok:   true,
		},
		{
			name: "unknown mouse button",
			msg:  ClientMessage{Type: MsgMouse, Button: "back"},
		},
		{
			name: "scroll",
			msg:  ClientMessage{Type: MsgScroll, Top: 4, Left: -1},
			want: input.Event{Kind: input.EventScroll, ScrollTop: 4, ScrollLeft: -1},
			ok:   true,
		},
		{
			name: "not an input message",
			msg:  ClientMessage{Type: MsgRestart},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := inputEvent(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFramePayload(t *testing.T) {
	f := session.Frame{
		Seq:     7,
		Grid:    tetris.Grid{{"", "I"}},
		Compact: []string{" ▀"},
		State:   core.GameState{Lines: 2, Progress: 0.25, Paused: true, Piece: "T", Input: "touch"},
	}

	p := framePayload(f)
	assert.Equal(t, uint64(7), p.Seq)
	assert.Equal(t, [][]string{{"", "I"}}, p.Grid)
	assert.Equal(t, []string{" ▀"}, p.Compact)
	assert.Equal(t, Stats{Lines: 2, Progress: 0.25, Paused: true, Piece: "T", Input: "touch"}, p.Stats)
}
