package session

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/input"
)

// NewOptions builds session options for a registered variant from the
// loaded game config.
func NewOptions(gc config.GameConfig, variant string) (Options, error) {
	engine, err := tetris.ForVariant(variant, tetris.FromGame(gc))
	if err != nil {
		return Options{}, fmt.Errorf("session: %w", err)
	}
	in, err := tetris.InputFromGame(gc.Input)
	if err != nil {
		return Options{}, fmt.Errorf("session: input: %w", err)
	}

	return Options{
		Variant: variant,
		Engine:  engine,
		Input:   in,
	}, nil
}

// Launcher starts sessions for one host with shared settings.
type Launcher struct {
	Game       config.GameConfig
	Difficulty config.DifficultyPreset // applied to Game on every launch
	Transport  string
	FPS        int
	Seed       int64 // 0 picks a time-based seed per game
	Logger     *log.Logger
	Sink       ScoreSink // nil disables score submission
}

// Launch starts a session for player on variant. The session runs until
// ctx is cancelled or it is closed.
func (l Launcher) Launch(ctx context.Context, variant, player string, caps input.Capabilities) (*Session, error) {
	gc := l.Game
	config.ApplyPreset(&gc, l.Difficulty)
	opts, err := NewOptions(gc, variant)
	if err != nil {
		return nil, err
	}
	opts.Player = player
	opts.Transport = l.Transport
	opts.Caps = caps
	opts.Seed = l.Seed
	opts.Logger = l.Logger
	opts.Sink = l.Sink

	return Start(ctx, l.FPS, opts), nil
}
