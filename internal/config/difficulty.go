package config

import (
	"fmt"
	"math"
	"time"
)

// SpeedCurve maps play time to a tick interval. The interval falls
// linearly from Initial to Minimum over TimeToMax.
type SpeedCurve struct {
	Initial   time.Duration
	Minimum   time.Duration
	TimeToMax time.Duration
}

// Progress returns how far elapsed is along the curve, in [0, 1].
func (c SpeedCurve) Progress(elapsed time.Duration) float64 {
	if c.TimeToMax <= 0 {
		return 1
	}
	return clampF(float64(elapsed)/float64(c.TimeToMax), 0.0, 1.0)
}

// Interval returns the tick interval after elapsed play time.
func (c SpeedCurve) Interval(elapsed time.Duration) time.Duration {
	span := float64(c.Initial - c.Minimum)
	return c.Initial - time.Duration(c.Progress(elapsed)*span)
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: %w: unknown difficulty %q", ErrInvalid, name)
	}
}

// Presets lists the difficulty presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// Step returns the preset delta places after p in menu order, wrapping
// around. Unknown presets step from normal.
func (p DifficultyPreset) Step(delta int) DifficultyPreset {
	all := Presets()
	i := 1
	for j, q := range all {
		if q == p {
			i = j
		}
	}
	n := len(all)
	return all[((i+delta)%n+n)%n]
}

// ApplyPreset modifies the speed section based on a difficulty preset.
// Normal leaves the loaded values alone.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Speed.TickMs = scaleMs(cfg.Speed.TickMs, 1.4)
		cfg.Speed.MinTickMs = scaleMs(cfg.Speed.MinTickMs, 1.5)
		cfg.Speed.TimeToMaxMs = scaleMs(cfg.Speed.TimeToMaxMs, 2)
	case DifficultyHard:
		cfg.Speed.TickMs = scaleMs(cfg.Speed.TickMs, 0.7)
		cfg.Speed.MinTickMs = scaleMs(cfg.Speed.MinTickMs, 0.5)
		cfg.Speed.TimeToMaxMs = scaleMs(cfg.Speed.TimeToMaxMs, 0.5)
	case DifficultyFixed:
		cfg.Speed.MinTickMs = cfg.Speed.TickMs
	}
	if cfg.Speed.MinTickMs > cfg.Speed.TickMs {
		cfg.Speed.MinTickMs = cfg.Speed.TickMs
	}
}

func scaleMs(ms int, factor float64) int {
	return max(1, int(math.Round(float64(ms)*factor)))
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
