// Package config provides YAML-based game configuration loading,
// validation and difficulty presets.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/blockfall/internal/input"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// GameConfig contains all configuration for a game session.
type GameConfig struct {
	Board    BoardConfig `yaml:"board"`
	Speed    SpeedConfig `yaml:"speed"`
	WinLines int         `yaml:"win_lines"` // 0 disables the win marker
	Input    InputConfig `yaml:"input"`
}

// BoardConfig defines the board size in cells.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SpeedConfig defines the gravity tick and its acceleration.
type SpeedConfig struct {
	TickMs      int `yaml:"tick_ms"`        // Interval at the start of a game
	MinTickMs   int `yaml:"min_tick_ms"`    // Interval once fully sped up
	TimeToMaxMs int `yaml:"time_to_max_ms"` // Play time until MinTickMs is reached
}

// Tick returns the initial tick interval.
func (s SpeedConfig) Tick() time.Duration {
	return time.Duration(s.TickMs) * time.Millisecond
}

// MinTick returns the fastest tick interval.
func (s SpeedConfig) MinTick() time.Duration {
	return time.Duration(s.MinTickMs) * time.Millisecond
}

// TimeToMax returns the play time until the fastest interval is reached.
func (s SpeedConfig) TimeToMax() time.Duration {
	return time.Duration(s.TimeToMaxMs) * time.Millisecond
}

// InputConfig defines gesture thresholds and timings.
type InputConfig struct {
	MoveSwipe   float64 `yaml:"move_swipe"`   // Pixels per sideways move
	DropSwipe   float64 `yaml:"drop_swipe"`   // Pixels per downward move
	RotateSwipe float64 `yaml:"rotate_swipe"` // 0 rotates once per swipe
	FirstMove   float64 `yaml:"first_move"`
	TapSlop     float64 `yaml:"tap_slop"`
	LongPressMs int     `yaml:"long_press_ms"`
	DoubleTapMs int     `yaml:"double_tap_ms"`
	KeyRepeat   bool    `yaml:"key_repeat"` // Fire held keys every frame
}

// Dispatcher names accepted by InputConfig.Dispatcher.
const (
	DispatcherMove   = "move"
	DispatcherDrop   = "drop"
	DispatcherRotate = "rotate"
)

// Base returns the recognizer settings shared by every dispatcher.
func (c InputConfig) Base() input.Config {
	return input.Config{
		FireKeyHoldPerFrame: c.KeyRepeat,
		FirstMove:           c.FirstMove,
		TapSlop:             c.TapSlop,
		LongPress:           time.Duration(c.LongPressMs) * time.Millisecond,
		DoubleTap:           time.Duration(c.DoubleTapMs) * time.Millisecond,
		DoubleClick:         time.Duration(c.DoubleTapMs) * time.Millisecond,
	}
}

// Dispatcher returns the recognizer settings for the named dispatcher.
func (c InputConfig) Dispatcher(name string) (input.Config, error) {
	cfg := c.Base()
	switch name {
	case DispatcherMove:
		cfg.SwipeThreshold = c.MoveSwipe
	case DispatcherDrop:
		cfg.SwipeThreshold = c.DropSwipe
	case DispatcherRotate:
		cfg.SwipeThreshold = c.RotateSwipe
	default:
		return cfg, fmt.Errorf("config: unknown dispatcher %q", name)
	}
	return cfg, nil
}

// Validate checks the config for values the engine can't run with.
func (c GameConfig) Validate() error {
	var errs []error

	if c.Board.Width < 4 {
		errs = append(errs, fmt.Errorf("board.width must be at least 4, got %d", c.Board.Width))
	}
	if c.Board.Height < 4 {
		errs = append(errs, fmt.Errorf("board.height must be at least 4, got %d", c.Board.Height))
	}
	if c.Speed.TickMs <= 0 {
		errs = append(errs, fmt.Errorf("speed.tick_ms must be positive, got %d", c.Speed.TickMs))
	}
	if c.Speed.MinTickMs <= 0 {
		errs = append(errs, fmt.Errorf("speed.min_tick_ms must be positive, got %d", c.Speed.MinTickMs))
	}
	if c.Speed.MinTickMs > c.Speed.TickMs {
		errs = append(errs, fmt.Errorf("speed.min_tick_ms (%d) exceeds speed.tick_ms (%d)", c.Speed.MinTickMs, c.Speed.TickMs))
	}
	if c.Speed.TimeToMaxMs <= 0 {
		errs = append(errs, fmt.Errorf("speed.time_to_max_ms must be positive, got %d", c.Speed.TimeToMaxMs))
	}
	if c.WinLines < 0 {
		errs = append(errs, fmt.Errorf("win_lines must not be negative, got %d", c.WinLines))
	}
	if c.Input.MoveSwipe < 0 || c.Input.DropSwipe < 0 || c.Input.RotateSwipe < 0 {
		errs = append(errs, errors.New("input swipe thresholds must not be negative"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w: %w", ErrInvalid, errors.Join(errs...))
}
