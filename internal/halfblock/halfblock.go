// Package halfblock compacts a cell matrix into half-height text glyphs.
// Every output row covers two input rows, so a 20-row board prints in 10
// terminal lines.
package halfblock

import "strings"

// Glyphs for a (top, bottom) occupancy pair.
const (
	Empty  = "\u00a0"
	Full   = "█"
	Top    = "▀"
	Bottom = "▄"
)

// Glyph returns the glyph for one column of a row pair.
func Glyph(top, bottom bool) string {
	switch {
	case top && bottom:
		return Full
	case top:
		return Top
	case bottom:
		return Bottom
	default:
		return Empty
	}
}

// Compact pairs row 2i with row 2i+1 and maps each column to a glyph.
// A cell is occupied when it differs from the zero value of T.
// A trailing odd row is paired with an empty row. Rows may be ragged;
// missing cells count as empty.
func Compact[T comparable](m [][]T) [][]string {
	var zero T
	occupied := func(row []T, x int) bool {
		return x < len(row) && row[x] != zero
	}

	out := make([][]string, 0, (len(m)+1)/2)
	for y := 0; y < len(m); y += 2 {
		top := m[y]
		var bottom []T
		if y+1 < len(m) {
			bottom = m[y+1]
		}

		width := max(len(top), len(bottom))
		line := make([]string, width)
		for x := range width {
			line[x] = Glyph(occupied(top, x), occupied(bottom, x))
		}
		out = append(out, line)
	}
	return out
}

// Lines compacts m and joins each output row into a string.
func Lines[T comparable](m [][]T) []string {
	rows := Compact(m)
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, "")
	}
	return lines
}

// String compacts m into a single newline-separated block.
func String[T comparable](m [][]T) string {
	return strings.Join(Lines(m), "\n")
}
