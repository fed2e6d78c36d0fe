package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/input"
	"github.com/vovakirdan/blockfall/internal/session"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.blockfall/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server. Every connection gets its own menu
// and game session, and scores are stored under the SSH user name.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	launcher session.Launcher
	store    *storage.Store
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
// store may be nil, in which case scores are not kept.
func NewSSHServer(cfg SSHServerConfig, l session.Launcher, store *storage.Store) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "blockfall-ssh",
	})

	l.Transport = session.TransportSSH
	if l.Logger == nil {
		l.Logger = logger
	}
	if store != nil {
		l.Sink = store
	}

	srv := &SSHServer{
		config:   cfg,
		launcher: l,
		store:    store,
		logger:   logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("ssh: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".blockfall", "host_key")
	}

	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("ssh: cannot create host key directory: %w", err)
	}

	// Middlewares run last to first: log, require a PTY, then the UI.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("ssh: cannot create server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()

	cfg := core.DefaultConfig()
	cfg.ScreenW = pty.Window.Width
	cfg.ScreenH = pty.Window.Height
	cfg.Player = sshSession.User()

	model := NewSessionModel(sshSession.Context(), s.launcher, s.store, cfg)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("ssh: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// flowState is the part of the flow a SessionModel is showing.
type flowState int

const (
	screenMenu flowState = iota
	screenGame
	screenScores
)

// SessionModel manages the full flow of one connection:
// menu -> game -> menu, with the scoreboard one Tab away.
type SessionModel struct {
	ctx        context.Context
	launcher   session.Launcher
	store      *storage.Store
	config     core.RuntimeConfig
	state      flowState
	menu       MenuModel
	game       Model
	sess       *session.Session
	scoreboard ScoreboardModel
	err        error
	quitting   bool
}

// NewSessionModel creates a new session model. Games started from it stop
// when ctx is cancelled.
func NewSessionModel(ctx context.Context, l session.Launcher, store *storage.Store, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		ctx:      ctx,
		launcher: l,
		store:    store,
		config:   cfg,
		menu:     NewMenuModel(cfg, l.Difficulty),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.state {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.state = screenScores
		return m, m.scoreboard.Init()

	case m.menu.Selected() != "":
		m.launcher.Difficulty = m.menu.Difficulty()
		sess, err := m.launcher.Launch(m.ctx, m.menu.Selected(), m.config.Player, input.Capabilities{})
		if err != nil {
			m.err = err
			m.menu = NewMenuModel(m.config, m.launcher.Difficulty)
			return m, nil
		}
		m.err = nil
		m.sess = sess
		m.game = NewModel(sess, m.config)
		m.state = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}

	if m.game.BackToMenu() {
		m.sess.Close()
		m.sess = nil
		m.state = screenMenu
		m.menu = NewMenuModel(m.config, m.launcher.Difficulty)
		return m, m.menu.Init()
	}

	if m.game.IsQuitting() {
		m.sess.Close()
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is shown.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		m.state = screenMenu
		m.menu = NewMenuModel(m.config, m.launcher.Difficulty)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scoreboard.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += "\n" + centerText(m.err.Error(), m.config.ScreenW)
	}
	return view
}
