package tetris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/clock"
	"github.com/vovakirdan/blockfall/internal/input"
	"github.com/vovakirdan/blockfall/internal/shapes"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const tick = 100 * time.Millisecond

var (
	dotTable = shapes.Table{"o": {{X: 0, Y: 0}}}
	barTable = shapes.Table{"I": {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}}
)

// fixedConfig ticks at a constant rate so tests can count ticks.
func fixedConfig() Config {
	return Config{
		Width:           10,
		Height:          20,
		TickInterval:    tick,
		MinTickInterval: tick,
		TimeToMaxSpeed:  time.Minute,
	}
}

type harness struct {
	e      *Engine
	sched  *clock.Manual
	frames []Grid
	ended  []Result
}

func newHarness(t *testing.T, cfg Config, table shapes.Table, opts ...Option) *harness {
	t.Helper()
	h := &harness{sched: clock.NewManual(epoch)}
	opts = append([]Option{
		WithShapes(table),
		WithSeed(1),
		WithEndHandler(func(r Result) { h.ended = append(h.ended, r) }),
	}, opts...)
	h.e = New(cfg, func(g Grid) { h.frames = append(h.frames, g) }, h.sched, opts...)
	t.Cleanup(h.e.Destroy)
	return h
}

func (h *harness) last() Grid {
	return h.frames[len(h.frames)-1]
}

func columns(cells []Cell) []int {
	xs := make([]int, 0, len(cells))
	for _, c := range cells {
		xs = append(xs, c.X)
	}
	return xs
}

func TestNewRendersEmptyGrid(t *testing.T) {
	h := newHarness(t, fixedConfig(), dotTable)

	require.Len(t, h.frames, 1)
	g := h.last()
	require.Len(t, g, 20)
	for _, row := range g {
		require.Len(t, row, 10)
		for _, label := range row {
			assert.Empty(t, label)
		}
	}
	assert.False(t, h.e.IsRunning())
	assert.Zero(t, h.sched.Pending(), "no tick before Start")
}

func TestSpawnOrigin(t *testing.T) {
	h := newHarness(t, fixedConfig(), barTable)
	h.e.Start()

	assert.Equal(t, "I", h.e.Label())
	assert.Equal(t, []int{3, 4, 5, 6}, columns(h.e.ActiveCells()))
	for _, c := range h.e.ActiveCells() {
		assert.Equal(t, -1, c.Y)
	}
}

func TestSpawnOriginTallShape(t *testing.T) {
	h := newHarness(t, fixedConfig(), barTable)
	h.e.Start()
	require.True(t, h.e.Rotate())

	// Offsets of the vertical bar reach y=1, so it spawns with origin y=-1
	// and its lowest cell on row 0.
	o := h.e.spawnOrigin(h.e.shape)
	assert.Equal(t, point{x: 5, y: -1}, o)
}

func TestCollisionPredicate(t *testing.T) {
	h := newHarness(t, fixedConfig(), dotTable)
	h.e.settled.put(Cell{X: 3, Y: 5, Label: "o"})
	dot := []shapes.Offset{{X: 0, Y: 0}}

	tests := []struct {
		name   string
		origin point
		want   bool
	}{
		{"on settled cell", point{3, 5}, true},
		{"above settled cell", point{3, 4}, false},
		{"on floor", point{0, 20}, true},
		{"bottom row", point{0, 19}, false},
		{"above board", point{0, -1}, false},
		{"outside wall", point{-1, 0}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, h.e.collides(tc.origin, dot))
		})
	}
}

func TestWalls(t *testing.T) {
	h := newHarness(t, fixedConfig(), dotTable)
	h.e.Start()

	moved := 0
	for h.e.MoveLeft() {
		moved++
	}
	assert.Equal(t, 5, moved)
	assert.Equal(t, []int{0}, columns(h.e.ActiveCells()))

	frames := len(h.frames)
	assert.False(t, h.e.MoveLeft())
	assert.Len(t, h.frames, frames, "blocked move does not render")

	moved = 0
	for h.e.MoveRight() {
		moved++
	}
	assert.Equal(t, 9, moved)
	assert.Equal(t, []int{9}, columns(h.e.ActiveCells()))
}

func TestRotateBlockedByWall(t *testing.T) {
	h := newHarness(t, fixedConfig(), barTable)
	h.e.Start()
	require.True(t, h.e.Rotate())
	for h.e.MoveLeft() {
	}
	assert.Equal(t, []int{0, 0, 0, 0}, columns(h.e.ActiveCells()))

	// Flat again the bar would span x=-2..1.
	assert.False(t, h.e.Rotate())
	assert.Equal(t, []int{0, 0, 0, 0}, columns(h.e.ActiveCells()))
}

func TestMoveDownDoesNotLock(t *testing.T) {
	h := newHarness(t, fixedConfig(), barTable)
	h.e.Start()

	for i := 0; i < 21; i++ {
		h.e.MoveDown()
	}
	for _, c := range h.e.ActiveCells() {
		assert.Equal(t, 19, c.Y)
	}
	assert.Zero(t, h.e.settled.len())

	h.sched.Advance(tick)

	assert.Equal(t, 4, h.e.settled.len())
	for x := 3; x <= 6; x++ {
		assert.True(t, h.e.settled.has(x, 19), "x=%d", x)
	}
	assert.Zero(t, h.e.ErasedLines())
	assert.False(t, h.e.IsEndGame())
	for _, c := range h.e.ActiveCells() {
		assert.Equal(t, -1, c.Y, "next piece spawned")
	}
	assert.Equal(t, "I", h.last()[19][3])
}

func TestLineClear(t *testing.T) {
	h := newHarness(t, fixedConfig(), dotTable)
	h.e.Start()

	for x := 0; x < 10; x++ {
		if x != 5 {
			h.e.settled.put(Cell{X: x, Y: 19, Label: "T"})
		}
	}
	h.e.settled.put(Cell{X: 0, Y: 18, Label: "a"})
	h.e.settled.put(Cell{X: 2, Y: 17, Label: "b"})
	h.e.settled.put(Cell{X: 9, Y: 0, Label: "c"})

	for h.e.MoveDown() {
	}
	h.sched.Advance(tick)

	assert.Equal(t, 1, h.e.ErasedLines())
	assert.Equal(t, 3, h.e.settled.len())
	assert.True(t, h.e.settled.has(0, 19))
	assert.True(t, h.e.settled.has(2, 18))
	assert.True(t, h.e.settled.has(9, 1))

	g := h.last()
	assert.Equal(t, "a", g[19][0])
	assert.Equal(t, "b", g[18][2])
	assert.Empty(t, g[19][5])
}

func TestMultipleLinesClear(t *testing.T) {
	h := newHarness(t, fixedConfig(), barTable)
	h.e.Start()
	require.True(t, h.e.Rotate())

	// Vertical bar at x=5 fills the gap in rows 16..19; row 17 stays short.
	for y := 16; y < 20; y++ {
		for x := 0; x < 10; x++ {
			if x == 5 || (y == 17 && x == 0) {
				continue
			}
			h.e.settled.put(Cell{X: x, Y: y, Label: "T"})
		}
	}

	for h.e.MoveDown() {
	}
	h.sched.Advance(tick)

	assert.Equal(t, 3, h.e.ErasedLines())
	assert.Equal(t, 9, h.e.settled.len())
	assert.True(t, h.e.settled.has(5, 19))
	assert.False(t, h.e.settled.has(0, 19))
}

func TestTicksDropPiece(t *testing.T) {
	h := newHarness(t, fixedConfig(), dotTable)
	h.e.Start()

	h.sched.Advance(3 * tick)
	assert.Equal(t, 2, h.e.ActiveCells()[0].Y)
	assert.Equal(t, "o", h.last()[2][5])
}

func TestEndGame(t *testing.T) {
	h := newHarness(t, fixedConfig(), dotTable)
	h.e.Start()
	h.e.settled.put(Cell{X: 5, Y: 0, Label: "x"})

	h.sched.Advance(tick)

	assert.True(t, h.e.IsEndGame())
	require.Len(t, h.ended, 1)
	assert.Zero(t, h.ended[0].Lines)
	assert.Zero(t, h.sched.Pending(), "tick chain stopped")

	frames := len(h.frames)
	settled := h.e.settled.len()
	assert.False(t, h.e.MoveLeft())
	h.e.Play()
	h.e.Pause()
	h.sched.Advance(time.Minute)

	assert.Len(t, h.frames, frames)
	assert.Equal(t, settled, h.e.settled.len())
	assert.Len(t, h.ended, 1)
}

func TestPauseFreezesTicks(t *testing.T) {
	h := newHarness(t, fixedConfig(), dotTable)
	h.e.Start()
	h.sched.Advance(2 * tick)

	h.e.Pause()
	assert.True(t, h.e.IsPaused())
	y := h.e.ActiveCells()[0].Y
	h.sched.Advance(time.Minute)
	assert.Equal(t, y, h.e.ActiveCells()[0].Y)

	h.e.Play()
	assert.False(t, h.e.IsPaused())
	h.sched.Advance(tick)
	assert.Equal(t, y+1, h.e.ActiveCells()[0].Y)
}

func TestPausePlayNoopWhenIdle(t *testing.T) {
	h := newHarness(t, fixedConfig(), dotTable)
	h.e.Pause()
	assert.False(t, h.e.IsPaused())
	h.e.Play()
	assert.False(t, h.e.IsRunning())
	assert.Zero(t, h.sched.Pending())
}

func TestSpeedCurveExcludesPause(t *testing.T) {
	cfg := Config{
		Width:           10,
		Height:          20,
		TickInterval:    500 * time.Millisecond,
		MinTickInterval: 200 * time.Millisecond,
		TimeToMaxSpeed:  10 * time.Second,
	}
	h := newHarness(t, cfg, dotTable)
	h.e.Start()
	assert.Equal(t, 500*time.Millisecond, h.e.TickInterval())

	h.sched.Advance(5 * time.Second)
	h.e.Pause()
	assert.InDelta(t, 0.5, h.e.Progress(), 1e-9)

	h.sched.Advance(time.Hour)
	assert.InDelta(t, 0.5, h.e.Progress(), 1e-9)
	h.e.Play()
	assert.InDelta(t, 0.5, h.e.Progress(), 1e-9)

	prev := h.e.TickInterval()
	assert.GreaterOrEqual(t, prev, 350*time.Millisecond)

	h.sched.Advance(6 * time.Second)
	assert.InDelta(t, 1.0, h.e.Progress(), 1e-9)
	assert.Equal(t, 200*time.Millisecond, h.e.TickInterval())
	assert.LessOrEqual(t, h.e.TickInterval(), prev)
}

func TestDestroyStopsEverything(t *testing.T) {
	bus := input.NewBus(input.Capabilities{})
	h := newHarness(t, fixedConfig(), dotTable, WithInput(bus, DefaultInputConfig()))
	h.e.Start()
	require.NotZero(t, bus.Len())

	h.e.Destroy()
	h.e.Destroy()

	frames := len(h.frames)
	assert.Zero(t, h.sched.Pending())
	assert.Zero(t, bus.Len())

	h.sched.Advance(time.Minute)
	h.e.MoveLeft()
	h.e.Start()
	assert.Len(t, h.frames, frames)
	assert.Empty(t, h.ended)
}

func TestDestroyWhilePaused(t *testing.T) {
	h := newHarness(t, fixedConfig(), dotTable)
	h.e.Start()
	h.e.Pause()
	h.e.Destroy()
	h.e.Play()
	assert.Zero(t, h.sched.Pending())
}

func TestRendererPanicEndsGame(t *testing.T) {
	sched := clock.NewManual(epoch)
	explode := false
	var ended []Result

	e := New(fixedConfig(), func(Grid) {
		if explode {
			panic("boom")
		}
	}, sched, WithShapes(dotTable), WithEndHandler(func(r Result) { ended = append(ended, r) }))
	e.Start()

	explode = true
	assert.NotPanics(t, func() { sched.Advance(tick) })
	assert.True(t, e.IsEndGame())
	assert.Len(t, ended, 1)
	assert.Zero(t, sched.Pending())
}

func TestWon(t *testing.T) {
	cfg := fixedConfig()
	cfg.WinLines = 1
	h := newHarness(t, cfg, dotTable)
	h.e.Start()
	assert.False(t, h.e.Won())

	for x := 0; x < 10; x++ {
		if x != 5 {
			h.e.settled.put(Cell{X: x, Y: 19, Label: "T"})
		}
	}
	for h.e.MoveDown() {
	}
	h.sched.Advance(tick)

	assert.True(t, h.e.Won())
	assert.False(t, h.e.IsEndGame(), "winning does not end the session")
}

func TestSeedReproducible(t *testing.T) {
	labels := func() []string {
		h := newHarness(t, fixedConfig(), shapes.Default(), WithSeed(42))
		h.e.Start()
		var out []string
		for i := 0; i < 8; i++ {
			out = append(out, h.e.Label())
			h.e.spawn()
		}
		return out
	}
	assert.Equal(t, labels(), labels())
}

func TestKeyBindings(t *testing.T) {
	bus := input.NewBus(input.Capabilities{})
	h := newHarness(t, fixedConfig(), barTable, WithInput(bus, DefaultInputConfig()))
	h.e.Start()

	bus.Emit(input.Event{Kind: input.EventKeyDown, Code: input.KeyArrowLeft})
	bus.Emit(input.Event{Kind: input.EventKeyUp, Code: input.KeyArrowLeft})
	assert.Equal(t, []int{2, 3, 4, 5}, columns(h.e.ActiveCells()))

	bus.Emit(input.Event{Kind: input.EventKeyDown, Code: input.KeyArrowRight})
	bus.Emit(input.Event{Kind: input.EventKeyUp, Code: input.KeyArrowRight})
	assert.Equal(t, []int{3, 4, 5, 6}, columns(h.e.ActiveCells()))

	bus.Emit(input.Event{Kind: input.EventKeyDown, Code: input.KeyArrowUp})
	bus.Emit(input.Event{Kind: input.EventKeyUp, Code: input.KeyArrowUp})
	assert.Equal(t, []int{5, 5, 5, 5}, columns(h.e.ActiveCells()))

	y := h.e.ActiveCells()[0].Y
	bus.Emit(input.Event{Kind: input.EventKeyDown, Code: input.KeyArrowDown})
	bus.Emit(input.Event{Kind: input.EventKeyUp, Code: input.KeyArrowDown})
	assert.Equal(t, y+1, h.e.ActiveCells()[0].Y)
}

func TestMouseBindings(t *testing.T) {
	bus := input.NewBus(input.Capabilities{})
	h := newHarness(t, fixedConfig(), barTable, WithInput(bus, DefaultInputConfig()))
	h.e.Start()

	bus.Emit(input.Event{Kind: input.EventScroll, ScrollLeft: -1})
	assert.Equal(t, []int{2, 3, 4, 5}, columns(h.e.ActiveCells()))

	bus.Emit(input.Event{Kind: input.EventScroll, ScrollLeft: 1})
	assert.Equal(t, []int{3, 4, 5, 6}, columns(h.e.ActiveCells()))

	bus.Emit(input.Event{Kind: input.EventMouseDown, Button: input.ButtonLeft})
	bus.Emit(input.Event{Kind: input.EventMouseUp, Button: input.ButtonLeft})
	assert.Equal(t, []int{5, 5, 5, 5}, columns(h.e.ActiveCells()))

	y := h.e.ActiveCells()[0].Y
	bus.Emit(input.Event{Kind: input.EventScroll, ScrollTop: 1, ScrollLeft: 1})
	assert.Equal(t, y+1, h.e.ActiveCells()[0].Y)
}

func TestTouchBindings(t *testing.T) {
	bus := input.NewBus(input.Capabilities{Touch: true})
	h := newHarness(t, fixedConfig(), barTable, WithInput(bus, DefaultInputConfig()))
	h.e.Start()

	// Sideways drag: first move past 20px, then every further 40px.
	bus.Emit(input.Event{Kind: input.EventTouchStart, X: 200, Y: 200})
	bus.Emit(input.Event{Kind: input.EventTouchMove, X: 175, Y: 200})
	bus.Emit(input.Event{Kind: input.EventTouchMove, X: 130, Y: 200})
	bus.Emit(input.Event{Kind: input.EventTouchEnd, X: 130, Y: 200})
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, columns(h.e.ActiveCells()))

	// Upward swipe rotates once however far it goes.
	bus.Emit(input.Event{Kind: input.EventTouchStart, X: 200, Y: 200})
	bus.Emit(input.Event{Kind: input.EventTouchMove, X: 200, Y: 170})
	bus.Emit(input.Event{Kind: input.EventTouchMove, X: 200, Y: 100})
	bus.Emit(input.Event{Kind: input.EventTouchMove, X: 200, Y: 20})
	bus.Emit(input.Event{Kind: input.EventTouchEnd, X: 200, Y: 20})
	assert.Equal(t, []int{3, 3, 3, 3}, columns(h.e.ActiveCells()))

	// Tap rotates back. A half turn lists the same cells in reverse.
	bus.Emit(input.Event{Kind: input.EventTouchStart, X: 50, Y: 50})
	bus.Emit(input.Event{Kind: input.EventTouchEnd, X: 50, Y: 50})
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, columns(h.e.ActiveCells()))
}

func TestInputBoundOnlyWhileRunning(t *testing.T) {
	bus := input.NewBus(input.Capabilities{})
	h := newHarness(t, fixedConfig(), dotTable, WithInput(bus, DefaultInputConfig()))
	assert.Zero(t, bus.Len(), "listeners attach on Start")

	h.e.Start()
	assert.NotZero(t, bus.Len())

	h.e.settled.put(Cell{X: 5, Y: 0})
	h.sched.Advance(tick)
	require.True(t, h.e.IsEndGame())
	assert.Zero(t, bus.Len(), "listeners detach on game over")
}

func TestInputMode(t *testing.T) {
	touch := input.NewBus(input.Capabilities{Touch: true})
	h := newHarness(t, fixedConfig(), dotTable, WithInput(touch, DefaultInputConfig()))
	assert.Empty(t, h.e.InputMode())

	h.e.Start()
	assert.Equal(t, "touch", h.e.InputMode())
	h.e.Destroy()
	assert.Empty(t, h.e.InputMode())

	desktop := input.NewBus(input.Capabilities{})
	h = newHarness(t, fixedConfig(), dotTable, WithInput(desktop, DefaultInputConfig()))
	h.e.Start()
	assert.Equal(t, "desktop", h.e.InputMode())

	plain := newHarness(t, fixedConfig(), dotTable)
	plain.e.Start()
	assert.Empty(t, plain.e.InputMode())
}
