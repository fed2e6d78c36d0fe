package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/input"
	"github.com/vovakirdan/blockfall/internal/session"
)

// PlayKeyMap lists the play screen bindings for the help line.
type PlayKeyMap struct {
	Move    key.Binding
	Rotate  key.Binding
	Drop    key.Binding
	Pause   key.Binding
	Restart key.Binding
	Compact key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Rotate, k.Drop, k.Pause, k.Restart, k.Compact, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.Rotate, k.Drop},
		{k.Pause, k.Restart, k.Compact, k.Back, k.Quit},
	}
}

// DefaultPlayKeyMap returns the default play screen bindings.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Move: key.NewBinding(
			key.WithKeys("left", "right", "a", "d"),
			key.WithHelp("←/→", "move"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑", "rotate"),
		),
		Drop: key.NewBinding(
			key.WithKeys("down", "s", " "),
			key.WithHelp("↓", "drop"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Compact: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "compact"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the Bubble Tea model for playing one session.
type Model struct {
	session    *session.Session
	screen     *core.Screen
	config     core.RuntimeConfig
	frame      session.Frame
	keyMapper  *KeyMapper
	mouse      *MouseMapper
	keys       PlayKeyMap
	help       help.Model
	quitting   bool
	backToMenu bool
}

// NewModel creates a play model showing sess.
func NewModel(sess *session.Session, cfg core.RuntimeConfig) Model {
	return Model{
		session:   sess,
		screen:    core.NewScreen(cfg.ScreenW, max(1, cfg.ScreenH-1)),
		config:    cfg,
		frame:     sess.Last(),
		keyMapper: NewKeyMapper(),
		mouse:     &MouseMapper{},
		keys:      DefaultPlayKeyMap(),
		help:      help.New(),
	}
}

// Init starts listening for session frames.
func (m Model) Init() tea.Cmd {
	return waitForFrame(m.session)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if ev, ok := m.mouse.MapMouse(msg); ok {
			m.session.Emit(ev)
		}
		return m, nil

	case tea.FocusMsg:
		m.session.SetVisible(true)
		return m, nil

	case tea.BlurMsg:
		m.session.SetVisible(false)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case FrameMsg:
		if msg.SessionID != m.session.ID() {
			return m, nil
		}
		m.frame = msg.Frame
		return m, waitForFrame(m.session)

	case SessionClosedMsg:
		if msg.SessionID != m.session.ID() {
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if code, ok := m.keyMapper.KeyCode(msg); ok {
		// Terminals report presses only, so each press is a full tap.
		m.session.Emit(input.Event{Kind: input.EventKeyDown, Code: code})
		m.session.Emit(input.Event{Kind: input.EventKeyUp, Code: code})
		return m, nil
	}

	switch m.keyMapper.MapKey(msg) {
	case core.CommandQuit:
		m.quitting = true
		return m, tea.Quit
	case core.CommandBack:
		m.backToMenu = true
		return m, tea.Quit
	case core.CommandPause:
		m.session.TogglePause()
	case core.CommandRestart:
		m.session.Restart()
	case core.CommandCompact:
		m.config.Compact = !m.config.Compact
	case core.CommandScreenshot:
		m.saveScreenshot()
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen = core.NewScreen(msg.Width, max(1, msg.Height-1))
	m.help.Width = msg.Width
	return m, nil
}

// saveScreenshot saves the current board to a text file.
func (m *Model) saveScreenshot() {
	RenderFrame(m.screen, m.frame, m.config.Compact, m.session.Player(), m.session.Variant())

	dir := filepath.Join(os.Getenv("HOME"), ".blockfall", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.session.Variant(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	RenderFrame(m.screen, m.frame, m.config.Compact, m.session.Player(), m.session.Variant())
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderScreen(m.screen),
		m.help.View(m.keys),
	)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Config returns the runtime config, including the current screen size.
func (m Model) Config() core.RuntimeConfig {
	return m.config
}

// Run plays one session in the terminal until the player quits.
// Reports whether the player asked to go back to the menu.
func Run(ctx context.Context, l session.Launcher, variant string, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	sess, err := l.Launch(ctx, variant, cfg.Player, input.Capabilities{})
	if err != nil {
		return false, err
	}
	defer sess.Close()

	p := tea.NewProgram(
		NewModel(sess, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("tui: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.BackToMenu(), nil
	}
	return false, nil
}
