package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	menuCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var presetNotes = map[config.DifficultyPreset]string{
	config.DifficultyEasy:   "slow start, long ramp",
	config.DifficultyNormal: "as configured",
	config.DifficultyHard:   "fast start, short ramp",
	config.DifficultyFixed:  "no speed-up",
}

// MenuModel is the Bubble Tea model for the board picker. Up and down
// choose a board, left and right the difficulty.
type MenuModel struct {
	variants       []registry.Variant
	cursor         int
	difficulty     config.DifficultyPreset
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       string
	openScoreboard bool
}

// NewMenuModel creates a menu over every registered variant with classic
// and the given difficulty preselected.
func NewMenuModel(cfg core.RuntimeConfig, difficulty config.DifficultyPreset) MenuModel {
	variants := registry.List()
	cursor := 0
	for i, v := range variants {
		if v.ID == "classic" {
			cursor = i
		}
	}
	if difficulty == "" {
		difficulty = config.DifficultyNormal
	}

	return MenuModel{
		variants:   variants,
		cursor:     cursor,
		difficulty: difficulty,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}

	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.variants)-1 {
			m.cursor++
		}

	case MenuActionEasier:
		m.difficulty = m.difficulty.Step(-1)

	case MenuActionHarder:
		m.difficulty = m.difficulty.Step(1)

	case MenuActionSelect:
		if len(m.variants) > 0 {
			m.selected = m.variants[m.cursor].ID
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	width := m.config.ScreenW
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  B L O C K F A L L  "), width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a board", width))
	b.WriteString("\n\n")

	for i, v := range m.variants {
		size := "config"
		if v.Width > 0 && v.Height > 0 {
			size = fmt.Sprintf("%dx%d", v.Width, v.Height)
		}
		row := fmt.Sprintf("%-8s %-6s", v.Title, size)
		if i == m.cursor {
			row = menuCursorStyle.Render("> " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(centerText(row+" "+menuDimStyle.Render(v.Description), width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("Difficulty  < %s >  %s",
		menuCursorStyle.Render(string(m.difficulty)),
		menuDimStyle.Render(presetNotes[m.difficulty])), width))
	b.WriteString("\n\n")

	controls := "↑/↓: Board  |  ←/→: Difficulty  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen variant ID, or "" if none was chosen.
func (m MenuModel) Selected() string {
	return m.selected
}

// Difficulty returns the preset shown in the menu.
func (m MenuModel) Difficulty() config.DifficultyPreset {
	return m.difficulty
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width, measuring styled text by
// its printed width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	VariantID       string
	Difficulty      config.DifficultyPreset
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cfg core.RuntimeConfig, difficulty config.DifficultyPreset) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(cfg, difficulty),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg, Difficulty: difficulty}, fmt.Errorf("tui: menu: %w", err)
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Difficulty: difficulty, Quit: true}, nil
	}

	result := MenuResult{
		VariantID:       m.Selected(),
		Difficulty:      m.Difficulty(),
		Config:          m.Config(),
		WantsScoreboard: m.WantsScoreboard(),
	}
	if !result.WantsScoreboard && result.VariantID == "" {
		result.Quit = true
	}
	return result, nil
}
