// Package shapes holds the piece table for the board and the geometric
// transforms applied to pieces (centroid normalization and rotation).
// The table is embedded YAML so the data stays out of the engine.
package shapes

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed shapes.yaml
var defaultYAML []byte

// Offset is a cell position relative to a piece's origin.
type Offset struct {
	X, Y int
}

// Table maps a shape name to its ordered relative offsets.
type Table map[string][]Offset

var (
	defaultOnce  sync.Once
	defaultTable Table
	defaultErr   error
)

// Default returns the standard seven-piece table.
// Panics if the embedded data is malformed, which is a build defect.
func Default() Table {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultYAML)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultTable.Clone()
}

// Parse decodes a YAML table of the form `NAME: [[x, y], ...]`.
func Parse(data []byte) (Table, error) {
	var raw map[string][][]int
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("shapes: cannot parse table: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("shapes: table is empty")
	}

	t := make(Table, len(raw))
	for name, pairs := range raw {
		if len(pairs) == 0 {
			return nil, fmt.Errorf("shapes: shape %q has no cells", name)
		}
		cells := make([]Offset, len(pairs))
		for i, p := range pairs {
			if len(p) != 2 {
				return nil, fmt.Errorf("shapes: shape %q cell %d: want [x, y], got %v", name, i, p)
			}
			cells[i] = Offset{X: p[0], Y: p[1]}
		}
		t[name] = cells
	}
	return t, nil
}

// Names returns the shape names in sorted order, so seeded picks are reproducible.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for name, cells := range t {
		out[name] = append([]Offset(nil), cells...)
	}
	return out
}

// Normalize shifts cells so the rounded centre of their bounding box sits at
// the origin. Halves round toward positive infinity, so the result is stable
// under repeated normalization and under four quarter turns.
func Normalize(cells []Offset) []Offset {
	if len(cells) == 0 {
		return nil
	}

	minX, maxX := cells[0].X, cells[0].X
	minY, maxY := cells[0].Y, cells[0].Y
	for _, c := range cells[1:] {
		minX = min(minX, c.X)
		maxX = max(maxX, c.X)
		minY = min(minY, c.Y)
		maxY = max(maxY, c.Y)
	}

	dx := roundHalf(minX + maxX)
	dy := roundHalf(minY + maxY)

	out := make([]Offset, len(cells))
	for i, c := range cells {
		out[i] = Offset{X: c.X - dx, Y: c.Y - dy}
	}
	return out
}

// Rotate turns cells a quarter clockwise on screen, (x, y) -> (-y, x),
// and re-normalizes the result.
func Rotate(cells []Offset) []Offset {
	out := make([]Offset, len(cells))
	for i, c := range cells {
		out[i] = Offset{X: -c.Y, Y: c.X}
	}
	return Normalize(out)
}

// roundHalf returns sum/2 rounded half up, using floor division so negative
// sums behave like positive ones.
func roundHalf(sum int) int {
	n := sum + 1
	q := n / 2
	if n%2 != 0 && n < 0 {
		q--
	}
	return q
}
