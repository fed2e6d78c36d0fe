// Package tui provides the Bubble Tea integration for blockfall.
// It handles the terminal UI loop, input mapping, and the menu and
// scoreboard screens around a game session.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/session"
)

// FrameMsg carries a board frame published by a session.
type FrameMsg struct {
	SessionID string
	Frame     session.Frame
}

// SessionClosedMsg is sent once a session stops publishing frames.
type SessionClosedMsg struct {
	SessionID string
}

// waitForFrame returns a command that blocks until the session publishes
// its next frame. The model re-issues it after every FrameMsg.
func waitForFrame(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-s.Frames():
			return FrameMsg{SessionID: s.ID(), Frame: f}
		case <-s.Done():
			return SessionClosedMsg{SessionID: s.ID()}
		}
	}
}
