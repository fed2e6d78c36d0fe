// Package core provides the drawing primitives shared by the terminal and
// web hosts. It has no external dependencies (especially no Bubble Tea).
package core

// Rect is an area of the screen in cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks the rectangle by n on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: max(0, r.W-2*n), H: max(0, r.H-2*n)}
}

// Below returns the h rows directly under r, as wide as r.
func (r Rect) Below(h int) Rect {
	return Rect{X: r.X, Y: r.Bottom(), W: r.W, H: h}
}

// SplitX cuts r at column n from its left edge. n is clamped to [0, W].
func (r Rect) SplitX(n int) (left, right Rect) {
	n = min(max(n, 0), r.W)
	return Rect{X: r.X, Y: r.Y, W: n, H: r.H}, Rect{X: r.X + n, Y: r.Y, W: r.W - n, H: r.H}
}

// Fill returns how many of n cells a fraction p covers, rounded to the
// nearest cell. p outside [0, 1] is clamped.
func Fill(p float64, n int) int {
	p = min(max(p, 0), 1)
	return int(p*float64(n) + 0.5)
}
