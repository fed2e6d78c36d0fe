package tetris

import (
	"time"

	"github.com/vovakirdan/blockfall/internal/config"
)

// Config holds the board size and timing of one session.
type Config struct {
	Width           int
	Height          int
	TickInterval    time.Duration
	MinTickInterval time.Duration
	TimeToMaxSpeed  time.Duration
	WinLines        int
}

// DefaultConfig returns a 10x20 board ticking from 500ms down to 200ms
// over five minutes.
func DefaultConfig() Config {
	return Config{
		Width:           10,
		Height:          20,
		TickInterval:    500 * time.Millisecond,
		MinTickInterval: 200 * time.Millisecond,
		TimeToMaxSpeed:  5 * time.Minute,
		WinLines:        100,
	}
}

// FromGame builds an engine config from the loaded game configuration.
func FromGame(gc config.GameConfig) Config {
	return Config{
		Width:           gc.Board.Width,
		Height:          gc.Board.Height,
		TickInterval:    gc.Speed.Tick(),
		MinTickInterval: gc.Speed.MinTick(),
		TimeToMaxSpeed:  gc.Speed.TimeToMax(),
		WinLines:        gc.WinLines,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	if c.MinTickInterval <= 0 || c.MinTickInterval > c.TickInterval {
		c.MinTickInterval = min(def.MinTickInterval, c.TickInterval)
	}
	if c.TimeToMaxSpeed < 0 {
		c.TimeToMaxSpeed = 0
	}
	return c
}

func (c Config) curve() config.SpeedCurve {
	return config.SpeedCurve{
		Initial:   c.TickInterval,
		Minimum:   c.MinTickInterval,
		TimeToMax: c.TimeToMaxSpeed,
	}
}
