package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fillRow(h *history, y int, skip ...int) {
	skipped := make(map[int]bool, len(skip))
	for _, x := range skip {
		skipped[x] = true
	}
	for x := 0; x < h.width; x++ {
		if !skipped[x] {
			h.put(Cell{X: x, Y: y, Label: "T"})
		}
	}
}

func TestHistoryPutGet(t *testing.T) {
	h := newHistory(4, 6)
	h.put(Cell{X: 1, Y: 2, Label: "S"})
	h.put(Cell{X: 3, Y: -2, Label: "Z"})

	c, ok := h.get(1, 2)
	assert.True(t, ok)
	assert.Equal(t, "S", c.Label)

	assert.True(t, h.has(3, -2), "negative rows are stored")
	assert.False(t, h.has(2, 1))
	assert.Equal(t, 2, h.len())
	assert.Equal(t, -2, h.top)
}

func TestHistoryKeysDistinct(t *testing.T) {
	h := newHistory(5, 5)
	for y := -3; y < 5; y++ {
		for x := 0; x < 5; x++ {
			h.put(Cell{X: x, Y: y})
		}
	}
	assert.Equal(t, 8*5, h.len())
}

func TestHistoryRowsOrder(t *testing.T) {
	h := newHistory(3, 4)
	h.put(Cell{X: 2, Y: 3})
	h.put(Cell{X: 0, Y: 1})
	h.put(Cell{X: 1, Y: 1})

	var got []Cell
	h.rows(4, func(c Cell) { got = append(got, c) })

	assert.Equal(t, []Cell{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 3}}, got)
}

func TestHistoryFullRows(t *testing.T) {
	h := newHistory(4, 6)
	fillRow(h, 5)
	fillRow(h, 4, 2)
	fillRow(h, 3)

	assert.Equal(t, []int{3, 5}, h.fullRows(6))
}

func TestHistoryClearRows(t *testing.T) {
	h := newHistory(4, 6)
	fillRow(h, 5)
	fillRow(h, 3)
	h.put(Cell{X: 1, Y: 4, Label: "a"})
	h.put(Cell{X: 2, Y: 2, Label: "b"})
	h.put(Cell{X: 0, Y: 0, Label: "c"})

	h.clearRows([]int{3, 5}, 6)

	assert.Equal(t, 3, h.len())
	// One cleared row below y=4, two below y=2 and y=0.
	assert.True(t, h.has(1, 5))
	assert.True(t, h.has(2, 4))
	assert.True(t, h.has(0, 2))
	assert.Empty(t, h.fullRows(6))
}

func TestHistoryClearNothing(t *testing.T) {
	h := newHistory(4, 6)
	h.put(Cell{X: 1, Y: 1})
	h.clearRows(nil, 6)
	assert.True(t, h.has(1, 1))
}
