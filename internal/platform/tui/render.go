package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/session"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// hudWidth is the column count reserved right of the board.
const hudWidth = 22

// BoardSize returns the screen area the board needs including its frame
// and the speed bar below it.
func BoardSize(f session.Frame, compact bool) (w, h int) {
	rows := len(f.Grid)
	cols := 0
	if rows > 0 {
		cols = len(f.Grid[0])
	}
	if compact {
		return cols + 2, (rows+1)/2 + 3
	}
	return cols*2 + 2, rows + 3
}

// FitsFull reports whether the full-size board and HUD fit the terminal.
func FitsFull(f session.Frame, screenW, screenH int) bool {
	w, h := BoardSize(f, false)
	return w+hudWidth <= screenW && h <= screenH
}

// DrawBoard draws the framed board at (x, y) and returns the area used.
// In full mode each cell is two columns wide. In compact mode two rows
// share one line of half-block glyphs.
func DrawBoard(s *core.Screen, x, y int, f session.Frame, compact bool) core.Rect {
	w, h := BoardSize(f, compact)
	box := core.NewRect(x, y, w, h-1)
	s.DrawBox(box, core.ColorGray)

	inner := box.Inset(1)
	if compact {
		drawCompact(s, inner, f)
	} else {
		drawFull(s, inner, f)
	}

	drawProgress(s, box.Below(1), f.State.Progress)
	return core.NewRect(x, y, w, h)
}

func drawFull(s *core.Screen, r core.Rect, f session.Frame) {
	for gy, row := range f.Grid {
		for gx, label := range row {
			if label == "" {
				continue
			}
			c := core.LabelColor(label)
			s.SetCell(r.X+gx*2, r.Y+gy, '█', c)
			s.SetCell(r.X+gx*2+1, r.Y+gy, '█', c)
		}
	}
}

func drawCompact(s *core.Screen, r core.Rect, f session.Frame) {
	for ly, line := range f.Compact {
		gx := 0
		for _, glyph := range line {
			s.SetCell(r.X+gx, r.Y+ly, glyph, compactColor(f, gx, ly*2))
			gx++
		}
	}
}

// compactColor picks the color of a half-block pair: the top cell wins.
func compactColor(f session.Frame, x, top int) core.Color {
	if label := f.Grid[top][x]; label != "" {
		return core.LabelColor(label)
	}
	if top+1 < len(f.Grid) {
		return core.LabelColor(f.Grid[top+1][x])
	}
	return core.ColorDefault
}

// drawProgress fills r from the left in proportion to p.
func drawProgress(s *core.Screen, r core.Rect, p float64) {
	done, rest := r.SplitX(core.Fill(p, r.W))
	s.DrawRect(done, '▀', core.ColorOrange)
	s.DrawRect(rest, '▀', core.ColorGray)
}

// DrawHUD draws the side panel with the line count and game status.
func DrawHUD(s *core.Screen, x, y int, f session.Frame, player, variant string) {
	s.DrawTextColored(x, y, "B L O C K F A L L", core.ColorBrightCyan)
	s.DrawText(x, y+2, fmt.Sprintf("Lines   %d", f.State.Lines))
	s.DrawText(x, y+3, fmt.Sprintf("Speed   %3.0f%%", f.State.Progress*100))
	if variant != "" {
		s.DrawTextColored(x, y+4, "Board   "+variant, core.ColorGray)
	}
	if player != "" {
		s.DrawTextColored(x, y+5, "Player  "+player, core.ColorGray)
	}
	if f.State.Piece != "" && !f.State.GameOver {
		s.DrawTextColored(x, y+6, "Piece   "+f.State.Piece, core.ColorGray)
	}

	status, color := statusLine(f.State)
	if status != "" {
		s.DrawTextColored(x, y+7, status, color)
	}
	if f.State.GameOver {
		s.DrawTextColored(x, y+8, "R: play again", core.ColorGray)
	}
}

func statusLine(st core.GameState) (string, core.Color) {
	switch {
	case st.GameOver && st.Won:
		return "YOU WIN!", core.ColorBrightGreen
	case st.GameOver:
		return "GAME OVER", core.ColorBrightRed
	case st.Paused:
		return "PAUSED", core.ColorBrightYellow
	case st.Won:
		return "TARGET REACHED", core.ColorBrightGreen
	}
	return "", core.ColorDefault
}

// RenderFrame draws a full play screen for f onto s.
// It switches to compact mode on its own when the board would not fit.
func RenderFrame(s *core.Screen, f session.Frame, compact bool, player, variant string) {
	s.Clear()
	if f.Grid == nil {
		s.DrawText(1, 1, "starting...")
		return
	}
	if !compact && !FitsFull(f, s.Width(), s.Height()) {
		compact = true
	}

	board := DrawBoard(s, 1, 0, f, compact)
	DrawHUD(s, board.Right()+2, 1, f, player, variant)
}
