package tetris

import "github.com/vovakirdan/blockfall/internal/shapes"

// MoveLeft shifts the active piece one column left. It reports whether the
// move was applied.
func (e *Engine) MoveLeft() bool {
	return e.shift(-1, 0)
}

// MoveRight shifts the active piece one column right.
func (e *Engine) MoveRight() bool {
	return e.shift(1, 0)
}

// MoveDown shifts the active piece one row down. A blocked move is
// reverted; locking only happens on a tick.
func (e *Engine) MoveDown() bool {
	return e.shift(0, 1)
}

// Rotate turns the active piece 90 degrees clockwise around its centre.
// A rotation into a wall or settled cell is reverted.
func (e *Engine) Rotate() bool {
	if !e.IsRunning() || e.shape == nil {
		return false
	}
	rotated := shapes.Rotate(e.shape)
	if !e.valid(e.origin, rotated) {
		return false
	}
	e.shape = rotated
	e.emit()
	return true
}

func (e *Engine) shift(dx, dy int) bool {
	if !e.IsRunning() || e.shape == nil {
		return false
	}
	next := point{x: e.origin.x + dx, y: e.origin.y + dy}
	if !e.valid(next, e.shape) {
		return false
	}
	e.origin = next
	e.emit()
	return true
}

func (e *Engine) cells(origin point, shape []shapes.Offset) []Cell {
	out := make([]Cell, 0, len(shape))
	for _, o := range shape {
		out = append(out, Cell{X: origin.x + o.X, Y: origin.y + o.Y, Label: e.label})
	}
	return out
}

// collides reports whether any cell of the placed shape overlaps a settled
// cell or has reached the floor.
func (e *Engine) collides(origin point, shape []shapes.Offset) bool {
	for _, o := range shape {
		x, y := origin.x+o.X, origin.y+o.Y
		if y >= e.cfg.Height || e.settled.has(x, y) {
			return true
		}
	}
	return false
}

func (e *Engine) hitsWall(origin point, shape []shapes.Offset) bool {
	for _, o := range shape {
		x := origin.x + o.X
		if x < 0 || x >= e.cfg.Width {
			return true
		}
	}
	return false
}

func (e *Engine) valid(origin point, shape []shapes.Offset) bool {
	return !e.hitsWall(origin, shape) && !e.collides(origin, shape)
}

// lock copies the active piece into the settled history.
func (e *Engine) lock() {
	for _, c := range e.cells(e.origin, e.shape) {
		e.settled.put(c)
	}
}

// clearLines removes every full row and returns how many were removed.
func (e *Engine) clearLines() int {
	full := e.settled.fullRows(e.cfg.Height)
	e.settled.clearRows(full, e.cfg.Height)
	return len(full)
}
