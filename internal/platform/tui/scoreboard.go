package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

const (
	maxScores   = 100 // rows loaded for the top list
	maxRecent   = 50  // rows loaded for the recent list
	tableChrome = 9   // title, stats, tabs, borders and help
)

// boardView selects what the scoreboard lists.
type boardView int

const (
	viewTop    boardView = iota // best games on one board
	viewRecent                  // latest finished games, any board
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextVariant key.Binding
	PrevVariant key.Binding
	Toggle      key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextVariant, k.PrevVariant, k.Toggle, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextVariant, k.PrevVariant},
		{k.Toggle, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		NextVariant: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/tab", "next board"),
		),
		PrevVariant: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←", "prev board"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "top/recent"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	boardActiveTab  = boardTabStyle.Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	boardFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// ScoreboardModel is the Bubble Tea model for the scoreboard screen. It
// lists either the best games on one board or the latest finished games.
type ScoreboardModel struct {
	variants  []registry.Variant
	cursor    int
	view      boardView
	store     *storage.Store
	scores    []storage.ScoreEntry
	recent    []storage.SessionRecord
	stats     *storage.GameStats
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard showing the classic board first.
// store may be nil.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		variants: registry.List(),
		store:    store,
		keys:     DefaultScoreboardKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
	}
	for i, v := range m.variants {
		if v.ID == "classic" {
			m.cursor = i
		}
	}
	m.help.Width = width
	m.reload()
	return m
}

// variantID returns the selected board, or "" when none are registered.
func (m ScoreboardModel) variantID() string {
	if len(m.variants) == 0 {
		return ""
	}
	return m.variants[m.cursor].ID
}

// reload fetches rows for the current view and rebuilds the table.
func (m *ScoreboardModel) reload() {
	m.scores, m.recent, m.stats = nil, nil, nil
	if m.store != nil {
		switch m.view {
		case viewTop:
			if id := m.variantID(); id != "" {
				m.scores, _ = m.store.TopScores(id, maxScores)
				m.stats, _ = m.store.GetGameStats(id)
			}
		case viewRecent:
			m.recent, _ = m.store.RecentSessions(maxRecent)
		}
	}
	m.table = m.newTable()
}

func (m ScoreboardModel) newTable() table.Model {
	var (
		columns []table.Column
		rows    []table.Row
	)

	switch m.view {
	case viewTop:
		columns = []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Player", Width: 16},
			{Title: "Lines", Width: 6},
			{Title: "Date", Width: 13},
		}
		for i, e := range m.scores {
			rows = append(rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				e.Player,
				fmt.Sprintf("%d", e.Score),
				e.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	case viewRecent:
		columns = []table.Column{
			{Title: "Player", Width: 14},
			{Title: "Board", Width: 8},
			{Title: "Via", Width: 5},
			{Title: "Lines", Width: 6},
			{Title: "End", Width: 10},
			{Title: "Date", Width: 13},
		}
		for _, r := range m.recent {
			end := r.EndReason
			if r.Won {
				end = "won"
			}
			rows = append(rows, table.Row{
				r.Player,
				r.GameID,
				r.Transport,
				fmt.Sprintf("%d", r.Lines),
				end,
				r.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-tableChrome)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Toggle):
			m.view = 1 - m.view
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.NextVariant):
			m.step(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevVariant):
			m.step(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// step moves the board selection. The recent view is not per board, so
// stepping there switches back to the top list.
func (m *ScoreboardModel) step(delta int) {
	n := len(m.variants)
	if n == 0 {
		return
	}
	if m.view == viewTop {
		m.cursor = (m.cursor + delta + n) % n
	}
	m.view = viewTop
	m.reload()
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "RECENT GAMES"
	if m.view == viewTop {
		title = "HIGH SCORES"
		if len(m.variants) > 0 {
			title += " - " + m.variants[m.cursor].Title
		}
	}
	b.WriteString(centerText(boardTitleStyle.Render(title), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.statsLine(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(boardFrameStyle.Render(m.body()), m.width))
	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// tabs renders one tab per board plus the recent list.
func (m ScoreboardModel) tabs() string {
	parts := make([]string, 0, len(m.variants)+1)
	for i, v := range m.variants {
		if m.view == viewTop && i == m.cursor {
			parts = append(parts, boardActiveTab.Render(v.ID))
		} else {
			parts = append(parts, boardTabStyle.Render(v.ID))
		}
	}
	if m.view == viewRecent {
		parts = append(parts, boardActiveTab.Render("recent"))
	} else {
		parts = append(parts, boardTabStyle.Render("recent"))
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if lipgloss.Width(line) > m.width && m.view == viewTop && len(m.variants) > 0 {
		return fmt.Sprintf("< %s >", m.variants[m.cursor].ID)
	}
	return line
}

func (m ScoreboardModel) body() string {
	empty := (m.view == viewTop && len(m.scores) == 0) || (m.view == viewRecent && len(m.recent) == 0)
	if !empty {
		return m.table.View()
	}
	text := "No scores recorded yet.\nClear a line to get on the board!"
	if m.store == nil {
		text = "Scores are not being kept."
	} else if m.view == viewRecent {
		text = "No finished games yet."
	}
	return boardDimStyle.Italic(true).Padding(1, 4).Render(text)
}

// statsLine summarizes every scored game on the selected board.
func (m ScoreboardModel) statsLine() string {
	if m.view != viewTop || m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	return boardDimStyle.Render(fmt.Sprintf("%d games  |  best %d  |  avg %.1f lines  |  last %s",
		m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore,
		m.stats.LastPlayed.Format("Jan 02 15:04")))
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("tui: scoreboard: %w", err)
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
