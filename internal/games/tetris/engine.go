// Package tetris implements the falling-block board: grid state, the active
// piece, settled cells, the accelerating tick loop, and the input bindings
// that drive it.
//
// An Engine is single-threaded. All of its methods, and every callback it
// arms, must run on the goroutine that owns its clock.Scheduler.
package tetris

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/clock"
	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/input"
	"github.com/vovakirdan/blockfall/internal/shapes"
)

// Grid is a height x width matrix of shape labels. "" marks an empty cell.
type Grid [][]string

// Renderer receives a fresh grid on every change.
type Renderer func(Grid)

// Result summarizes a finished session.
type Result struct {
	Lines   int
	Won     bool
	Elapsed time.Duration
}

type state int

const (
	stateIdle state = iota
	stateRunning
	statePaused
	stateEnded
)

type point struct {
	x, y int
}

// Engine is one game session on one board. It never restarts in place;
// a new game needs a new Engine.
type Engine struct {
	cfg    Config
	render Renderer
	sched  clock.Scheduler
	curve  config.SpeedCurve
	table  shapes.Table
	names  []string
	rng    *rand.Rand
	logger *log.Logger
	onEnd  func(Result)

	target      input.Target
	inputCfg    InputConfig
	dispatchers []*input.Dispatcher

	state     state
	destroyed bool

	settled *history
	label   string
	shape   []shapes.Offset
	origin  point
	erased  int

	interval    time.Duration
	startedAt   time.Time
	pausedAt    time.Time
	pausedTotal time.Duration

	tickTimer clock.Timer
	frameReq  clock.Timer
}

// Option configures an Engine.
type Option func(*Engine)

// WithShapes replaces the piece table.
func WithShapes(t shapes.Table) Option {
	return func(e *Engine) {
		if len(t) > 0 {
			e.table = t.Clone()
		}
	}
}

// WithRand sets the random source used to pick pieces.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithSeed seeds piece selection for reproducible sessions.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the logger used for fatal tick faults.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithInput binds the engine's controls to target when Start is called.
func WithInput(target input.Target, cfg InputConfig) Option {
	return func(e *Engine) {
		e.target = target
		e.inputCfg = cfg
	}
}

// WithEndHandler registers fn to be called once when the game ends.
// It is not called for sessions torn down with Destroy.
func WithEndHandler(fn func(Result)) Option {
	return func(e *Engine) {
		e.onEnd = fn
	}
}

// New creates an idle engine and renders the empty grid once.
func New(cfg Config, render Renderer, sched clock.Scheduler, opts ...Option) *Engine {
	cfg = cfg.withDefaults()

	e := &Engine{
		cfg:      cfg,
		render:   render,
		sched:    sched,
		curve:    cfg.curve(),
		table:    shapes.Default(),
		rng:      rand.New(rand.NewSource(sched.Now().UnixNano())),
		logger:   log.New(io.Discard),
		inputCfg: DefaultInputConfig(),
		interval: cfg.TickInterval,
		settled:  newHistory(cfg.Width, cfg.Height),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.names = e.table.Names()

	e.emit()
	return e
}

// Start resets the counters, binds input, spawns the first piece and starts
// ticking. It only has an effect on an idle engine.
func (e *Engine) Start() {
	if e.state != stateIdle || e.destroyed {
		return
	}

	e.erased = 0
	e.interval = e.cfg.TickInterval
	e.startedAt = e.sched.Now()
	e.pausedTotal = 0
	e.settled = newHistory(e.cfg.Width, e.cfg.Height)

	e.state = stateRunning
	e.bindInput()
	e.spawn()
	e.emit()
	e.scheduleTick()
}

// Pause suspends the tick chain. Counters and elapsed play time are kept.
func (e *Engine) Pause() {
	if e.state != stateRunning || e.destroyed {
		return
	}
	e.state = statePaused
	e.pausedAt = e.sched.Now()
	e.stopTick()
}

// Play resumes a paused engine.
func (e *Engine) Play() {
	if e.state != statePaused || e.destroyed {
		return
	}
	e.pausedTotal += e.sched.Now().Sub(e.pausedAt)
	e.state = stateRunning
	e.scheduleTick()
}

// TogglePause switches between Pause and Play.
func (e *Engine) TogglePause() {
	if e.state == statePaused {
		e.Play()
	} else {
		e.Pause()
	}
}

// Destroy cancels every timer and detaches every listener. Nothing the
// engine arms fires after it returns. Safe to call more than once.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.teardown()
}

// ErasedLines returns the number of rows cleared so far.
func (e *Engine) ErasedLines() int {
	return e.erased
}

// IsEndGame reports whether the session has ended.
func (e *Engine) IsEndGame() bool {
	return e.state == stateEnded
}

// IsPaused reports whether the tick chain is paused.
func (e *Engine) IsPaused() bool {
	return e.state == statePaused
}

// IsRunning reports whether the engine is started, not paused and not ended.
func (e *Engine) IsRunning() bool {
	return e.state == stateRunning && !e.destroyed
}

// Won reports whether the cleared line count reached the configured target.
func (e *Engine) Won() bool {
	return e.cfg.WinLines > 0 && e.erased >= e.cfg.WinLines
}

// TickInterval returns the delay before the next gravity tick.
func (e *Engine) TickInterval() time.Duration {
	return e.interval
}

// Elapsed returns play time since Start, excluding pauses.
func (e *Engine) Elapsed() time.Duration {
	if e.state == stateIdle {
		return 0
	}
	now := e.sched.Now()
	if e.state == statePaused {
		now = e.pausedAt
	}
	return now.Sub(e.startedAt) - e.pausedTotal
}

// Progress returns the fraction of the way to maximum speed, in [0, 1].
func (e *Engine) Progress() float64 {
	return e.curve.Progress(e.Elapsed())
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Label returns the label of the active piece.
func (e *Engine) Label() string {
	return e.label
}

// InputMode names the recognizer bound to the input target: "touch",
// "desktop", or "" while no input is attached.
func (e *Engine) InputMode() string {
	if len(e.dispatchers) == 0 {
		return ""
	}
	return e.dispatchers[0].Mode().String()
}

// ActiveCells returns the absolute cells of the active piece.
func (e *Engine) ActiveCells() []Cell {
	return e.cells(e.origin, e.shape)
}

// Snapshot returns the current grid.
func (e *Engine) Snapshot() Grid {
	return e.grid()
}

// Result returns the session summary.
func (e *Engine) Result() Result {
	return Result{
		Lines:   e.erased,
		Won:     e.Won(),
		Elapsed: e.Elapsed(),
	}
}

func (e *Engine) scheduleTick() {
	e.stopTick()
	e.tickTimer = e.sched.AfterFunc(e.interval, func() {
		e.tickTimer = nil
		e.frameReq = e.sched.RequestFrame(e.onFrame)
	})
}

func (e *Engine) stopTick() {
	if e.tickTimer != nil {
		e.tickTimer.Stop()
		e.tickTimer = nil
	}
	if e.frameReq != nil {
		e.frameReq.Stop()
		e.frameReq = nil
	}
}

func (e *Engine) onFrame() {
	e.frameReq = nil
	if e.state != stateRunning || e.destroyed {
		return
	}

	e.tick()
	if e.state != stateRunning {
		return
	}

	e.interval = e.curve.Interval(e.Elapsed())
	e.scheduleTick()
}

// tick drops the active piece one row, locking it when it can't move.
// A panic anywhere in here ends the game.
func (e *Engine) tick() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tick failed, ending game", "panic", r, "lines", e.erased)
			e.end()
		}
	}()

	prev := e.origin
	e.origin.y++
	if !e.collides(e.origin, e.shape) {
		e.emit()
		return
	}

	e.origin = prev
	e.lock()
	e.erased += e.clearLines()
	e.spawn()

	if e.collides(e.origin, e.shape) {
		e.emit()
		e.end()
		return
	}
	e.emit()
}

// end moves the engine to its terminal state and tears it down.
func (e *Engine) end() {
	if e.state == stateEnded {
		return
	}
	e.state = stateEnded
	e.teardown()

	if e.onEnd != nil && !e.destroyed {
		e.onEnd(e.Result())
	}
}

func (e *Engine) teardown() {
	e.stopTick()
	e.unbindInput()
}

func (e *Engine) spawn() {
	e.label = e.names[e.rng.Intn(len(e.names))]
	e.shape = shapes.Normalize(e.table[e.label])
	e.origin = e.spawnOrigin(e.shape)
}

// spawnOrigin centres the piece horizontally with its lowest cell on row 0
// or above.
func (e *Engine) spawnOrigin(shape []shapes.Offset) point {
	lowest := 1
	for _, c := range shape {
		lowest = max(lowest, c.Y)
	}
	return point{x: e.cfg.Width / 2, y: -lowest}
}

func (e *Engine) emit() {
	if e.destroyed || e.render == nil {
		return
	}
	e.render(e.grid())
}

func (e *Engine) grid() Grid {
	g := make(Grid, e.cfg.Height)
	for y := range g {
		g[y] = make([]string, e.cfg.Width)
	}

	e.settled.rows(e.cfg.Height, func(c Cell) {
		if c.Y >= 0 {
			g[c.Y][c.X] = c.Label
		}
	})

	for _, c := range e.cells(e.origin, e.shape) {
		if c.X < 0 || c.X >= e.cfg.Width || c.Y < 0 || c.Y >= e.cfg.Height {
			continue
		}
		if g[c.Y][c.X] == "" {
			g[c.Y][c.X] = c.Label
		}
	}
	return g
}
