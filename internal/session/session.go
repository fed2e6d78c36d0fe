// Package session runs one player's game: the event loop, the input bus,
// the current engine, and score submission when a game ends.
//
// Hosts (the terminal UI, the SSH server, the WebSocket server) talk to a
// Session from their own goroutines. Every call is forwarded to the
// session's executor, so the engine itself stays single-threaded.
package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/blockfall/internal/clock"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/halfblock"
	"github.com/vovakirdan/blockfall/internal/input"
	"github.com/vovakirdan/blockfall/internal/shapes"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// Transports recorded with finished sessions.
const (
	TransportLocal = "local"
	TransportSSH   = "ssh"
	TransportWeb   = "web"
)

// End reasons recorded with finished sessions.
const (
	EndGameOver   = "gameover"
	EndRestart    = "restart"
	EndDisconnect = "disconnect"
)

// Executor runs callbacks serially and arms timers for them.
// clock.Loop is the production implementation.
type Executor interface {
	clock.Scheduler
	Post(f func()) bool
}

// ScoreSink persists finished games. *storage.Store implements it.
type ScoreSink interface {
	SaveScore(gameID, player string, lines int) (int64, error)
	SaveSession(rec storage.SessionRecord) (int64, error)
}

// Frame is one rendered state of the board.
type Frame struct {
	Seq     uint64
	Grid    tetris.Grid
	Compact []string
	State   core.GameState
}

// Options configures a Session.
type Options struct {
	ID        string // Generated when empty
	Variant   string
	Player    string
	Transport string
	Engine    tetris.Config
	Input     tetris.InputConfig
	Caps      input.Capabilities
	Shapes    shapes.Table // nil uses the standard seven
	Seed      int64        // 0 picks a time-based seed
	Logger    *log.Logger
	Sink      ScoreSink
}

// Session is one player's game.
type Session struct {
	opts   Options
	id     string
	exec   Executor
	loop   *clock.Loop
	bus    *input.Bus
	logger *log.Logger

	frames chan Frame
	done   chan struct{}

	mu   sync.Mutex
	last Frame

	// Owned by the executor goroutine.
	engine     *tetris.Engine
	games      int64
	seq        uint64
	autoPaused bool
	closed     bool

	closeOnce sync.Once
}

// Start creates a session with its own event loop running until ctx is
// cancelled or Close is called, and starts the first game.
func Start(ctx context.Context, fps int, opts Options) *Session {
	loop := clock.NewLoop(
		clock.WithFrameInterval(clock.FrameInterval(fps)),
		clock.WithLogger(opts.Logger),
	)
	s := New(loop, opts)
	s.loop = loop

	go func() {
		if err := loop.Run(ctx); err != nil && err != context.Canceled {
			s.logger.Error("session loop stopped", "session", s.id, "error", err)
		}
	}()
	go func() {
		<-loop.Done()
		s.Close()
	}()

	s.Restart()
	return s
}

// New creates a session on an existing executor. No game runs until
// Restart is called.
func New(exec Executor, opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Transport == "" {
		opts.Transport = TransportLocal
	}
	if opts.Input == (tetris.InputConfig{}) {
		opts.Input = tetris.DefaultInputConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Session{
		opts:   opts,
		id:     opts.ID,
		exec:   exec,
		bus:    input.NewBus(opts.Caps),
		logger: logger.With("session", opts.ID),
		frames: make(chan Frame, 1),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Player returns the name scores are stored under.
func (s *Session) Player() string {
	return s.opts.Player
}

// Variant returns the board variant being played.
func (s *Session) Variant() string {
	return s.opts.Variant
}

// Frames delivers rendered frames. Only the newest unread frame is kept,
// so a slow reader skips frames instead of stalling the game.
func (s *Session) Frames() <-chan Frame {
	return s.frames
}

// Done is closed once the session has been closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Last returns the most recently published frame.
func (s *Session) Last() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Emit forwards a raw input event to the game.
func (s *Session) Emit(ev input.Event) {
	s.exec.Post(func() {
		if !s.closed {
			s.bus.Emit(ev)
		}
	})
}

// Pause suspends the current game.
func (s *Session) Pause() {
	s.exec.Post(func() {
		s.autoPaused = false
		s.withEngine((*tetris.Engine).Pause)
	})
}

// Play resumes the current game.
func (s *Session) Play() {
	s.exec.Post(func() {
		s.autoPaused = false
		s.withEngine((*tetris.Engine).Play)
	})
}

// TogglePause switches between paused and running.
func (s *Session) TogglePause() {
	s.exec.Post(func() {
		s.autoPaused = false
		s.withEngine((*tetris.Engine).TogglePause)
	})
}

// SetVisible pauses the game when the player's view is hidden and resumes
// it when shown again. A game the player paused by hand stays paused.
func (s *Session) SetVisible(visible bool) {
	s.exec.Post(func() {
		if s.closed || s.engine == nil {
			return
		}
		switch {
		case !visible && s.engine.IsRunning():
			s.autoPaused = true
			s.withEngine((*tetris.Engine).Pause)
		case visible && s.autoPaused:
			s.autoPaused = false
			s.withEngine((*tetris.Engine).Play)
		}
	})
}

// Restart abandons the current game, if any, and starts a new one.
func (s *Session) Restart() {
	s.exec.Post(func() {
		if s.closed {
			return
		}
		s.retire(EndRestart)
		s.startGame()
	})
}

// Close ends the session. An unfinished game is recorded as a disconnect.
// Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		stopped := make(chan struct{})
		posted := s.exec.Post(func() {
			defer close(stopped)
			s.retire(EndDisconnect)
			s.closed = true
		})
		if posted && s.loop != nil {
			select {
			case <-stopped:
			case <-s.loop.Done():
			case <-time.After(time.Second):
				s.logger.Warn("session close timed out")
			}
		}
		if s.loop != nil {
			s.loop.Stop()
		}
		close(s.done)
	})
}

func (s *Session) withEngine(fn func(*tetris.Engine)) {
	if s.closed || s.engine == nil {
		return
	}
	fn(s.engine)
	s.publish(s.last.Grid)
}

func (s *Session) startGame() {
	s.games++
	seed := s.opts.Seed
	if seed == 0 {
		seed = s.exec.Now().UnixNano()
	}

	var e *tetris.Engine
	e = tetris.New(s.opts.Engine, func(g tetris.Grid) {
		if e != nil && s.engine == e {
			s.publish(g)
		}
	}, s.exec,
		tetris.WithShapes(s.opts.Shapes),
		tetris.WithSeed(seed+s.games-1),
		tetris.WithLogger(s.logger),
		tetris.WithInput(s.bus, s.opts.Input),
		tetris.WithEndHandler(func(r tetris.Result) {
			s.record(r, EndGameOver)
			s.publish(s.last.Grid)
		}),
	)
	s.engine = e
	s.autoPaused = false
	e.Start()

	s.logger.Debug("game started", "variant", s.opts.Variant, "player", s.opts.Player, "input", e.InputMode())
}

// retire destroys the current engine, recording it if it never ended.
func (s *Session) retire(reason string) {
	if s.engine == nil {
		return
	}
	if !s.engine.IsEndGame() {
		s.record(s.engine.Result(), reason)
	}
	s.engine.Destroy()
	s.engine = nil
}

func (s *Session) record(r tetris.Result, reason string) {
	s.logger.Info("game finished", "reason", reason, "lines", r.Lines, "won", r.Won, "elapsed", r.Elapsed.Round(time.Second))

	if s.opts.Sink == nil {
		return
	}
	if r.Lines > 0 {
		if _, err := s.opts.Sink.SaveScore(s.opts.Variant, s.opts.Player, r.Lines); err != nil {
			s.logger.Error("cannot save score", "error", err)
		}
	}
	_, err := s.opts.Sink.SaveSession(storage.SessionRecord{
		SessionID: s.id,
		GameID:    s.opts.Variant,
		Player:    s.opts.Player,
		Transport: s.opts.Transport,
		Lines:     r.Lines,
		Won:       r.Won,
		EndReason: reason,
		Duration:  int(r.Elapsed / time.Second),
	})
	if err != nil {
		s.logger.Error("cannot save session", "error", err)
	}
}

// publish replaces the pending frame with a new one.
func (s *Session) publish(g tetris.Grid) {
	if g == nil {
		return
	}
	s.seq++

	f := Frame{
		Seq:     s.seq,
		Grid:    g,
		Compact: halfblock.Lines([][]string(g)),
	}
	if e := s.engine; e != nil {
		f.State = core.GameState{
			Lines:    e.ErasedLines(),
			Progress: e.Progress(),
			Paused:   e.IsPaused(),
			GameOver: e.IsEndGame(),
			Won:      e.Won(),
			Piece:    e.Label(),
			Input:    e.InputMode(),
		}
	}

	s.mu.Lock()
	s.last = f
	s.mu.Unlock()

	select {
	case <-s.frames:
	default:
	}
	select {
	case s.frames <- f:
	default:
	}
}
