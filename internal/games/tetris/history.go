package tetris

import "github.com/kamstrup/intmap"

// Cell is an absolute grid position with the label of the piece that
// produced it.
type Cell struct {
	X, Y  int
	Label string
}

// history holds the cells of locked pieces keyed by y*width+x. The key is
// unique for x in [0, width), negative y included.
type history struct {
	width int
	top   int
	cells *intmap.Map[int, Cell]
}

func newHistory(width, height int) *history {
	return &history{
		width: width,
		top:   0,
		cells: intmap.New[int, Cell](width * height),
	}
}

func (h *history) key(x, y int) int {
	return y*h.width + x
}

func (h *history) has(x, y int) bool {
	_, ok := h.cells.Get(h.key(x, y))
	return ok
}

func (h *history) get(x, y int) (Cell, bool) {
	return h.cells.Get(h.key(x, y))
}

func (h *history) put(c Cell) {
	h.cells.Put(h.key(c.X, c.Y), c)
	h.top = min(h.top, c.Y)
}

func (h *history) len() int {
	return h.cells.Len()
}

// rows calls fn for every settled cell, top row first, down to limit-1.
func (h *history) rows(limit int, fn func(Cell)) {
	for y := h.top; y < limit; y++ {
		for x := 0; x < h.width; x++ {
			if c, ok := h.get(x, y); ok {
				fn(c)
			}
		}
	}
}

// fullRows returns the rows in [0, height) whose every column is settled,
// in ascending order.
func (h *history) fullRows(height int) []int {
	var full []int
	for y := 0; y < height; y++ {
		complete := true
		for x := 0; x < h.width; x++ {
			if !h.has(x, y) {
				complete = false
				break
			}
		}
		if complete {
			full = append(full, y)
		}
	}
	return full
}

// clearRows removes the given rows and drops every cell above them by the
// number of cleared rows below its original y. cleared must be ascending.
func (h *history) clearRows(cleared []int, height int) {
	if len(cleared) == 0 {
		return
	}

	isCleared := make(map[int]bool, len(cleared))
	for _, y := range cleared {
		isCleared[y] = true
	}

	var kept []Cell
	h.rows(height, func(c Cell) {
		if isCleared[c.Y] {
			return
		}
		shift := 0
		for _, y := range cleared {
			if y > c.Y {
				shift++
			}
		}
		c.Y += shift
		kept = append(kept, c)
	})

	h.cells.Clear()
	h.top = 0
	for _, c := range kept {
		h.put(c)
	}
}
