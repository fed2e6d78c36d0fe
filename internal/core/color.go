package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for board and HUD elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// labelColors gives each standard piece its usual color.
var labelColors = map[string]Color{
	"I": ColorCyan,
	"O": ColorYellow,
	"T": ColorMagenta,
	"S": ColorGreen,
	"Z": ColorRed,
	"J": ColorBlue,
	"L": ColorOrange,
}

// LabelColor returns the color for a shape label.
// Unknown labels are drawn white; the empty label is the default color.
func LabelColor(label string) Color {
	if label == "" {
		return ColorDefault
	}
	if c, ok := labelColors[label]; ok {
		return c
	}
	return ColorWhite
}
