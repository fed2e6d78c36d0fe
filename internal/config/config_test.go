package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := Parse(defaultYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("board:\n  width: 12\n"))
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Board.Width)
	assert.Equal(t, 20, cfg.Board.Height)
	assert.Equal(t, 500*time.Millisecond, cfg.Speed.Tick())
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("board: [1, 2"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GameConfig)
	}{
		{"narrow board", func(c *GameConfig) { c.Board.Width = 3 }},
		{"short board", func(c *GameConfig) { c.Board.Height = 0 }},
		{"zero tick", func(c *GameConfig) { c.Speed.TickMs = 0 }},
		{"zero min tick", func(c *GameConfig) { c.Speed.MinTickMs = 0 }},
		{"min above tick", func(c *GameConfig) { c.Speed.MinTickMs = c.Speed.TickMs + 1 }},
		{"zero ramp", func(c *GameConfig) { c.Speed.TimeToMaxMs = 0 }},
		{"negative win lines", func(c *GameConfig) { c.WinLines = -1 }},
		{"negative swipe", func(c *GameConfig) { c.Input.DropSwipe = -5 }},
	}

	require.NoError(t, Default().Validate())

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("win_lines: 5\nspeed:\n  tick_ms: 800\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.WinLines)
	assert.Equal(t, 800, cfg.Speed.TickMs)
}

func TestLoadCustomPathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board:\n  width: 2\n"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDispatcher(t *testing.T) {
	in := Default().Input

	move, err := in.Dispatcher(DispatcherMove)
	require.NoError(t, err)
	assert.Equal(t, 40.0, move.SwipeThreshold)
	assert.Equal(t, 500*time.Millisecond, move.LongPress)

	drop, err := in.Dispatcher(DispatcherDrop)
	require.NoError(t, err)
	assert.Equal(t, 20.0, drop.SwipeThreshold)

	rotate, err := in.Dispatcher(DispatcherRotate)
	require.NoError(t, err)
	assert.Zero(t, rotate.SwipeThreshold)

	_, err = in.Dispatcher("hold")
	assert.Error(t, err)
}

func TestSpeedCurve(t *testing.T) {
	c := SpeedCurve{
		Initial:   500 * time.Millisecond,
		Minimum:   200 * time.Millisecond,
		TimeToMax: 10 * time.Second,
	}

	tests := []struct {
		elapsed  time.Duration
		progress float64
		interval time.Duration
	}{
		{0, 0, 500 * time.Millisecond},
		{5 * time.Second, 0.5, 350 * time.Millisecond},
		{10 * time.Second, 1, 200 * time.Millisecond},
		{time.Minute, 1, 200 * time.Millisecond},
	}

	for _, tc := range tests {
		assert.InDelta(t, tc.progress, c.Progress(tc.elapsed), 1e-9, "Progress(%v)", tc.elapsed)
		assert.Equal(t, tc.interval, c.Interval(tc.elapsed), "Interval(%v)", tc.elapsed)
	}
}

func TestSpeedCurveNoRamp(t *testing.T) {
	c := SpeedCurve{Initial: time.Second, Minimum: 100 * time.Millisecond}
	assert.Equal(t, 1.0, c.Progress(0))
	assert.Equal(t, 100*time.Millisecond, c.Interval(0))
}

func TestPresets(t *testing.T) {
	for _, name := range []string{"", "easy", "normal", "hard", "fixed"} {
		p, err := ParsePreset(name)
		require.NoError(t, err, name)

		cfg := Default()
		ApplyPreset(&cfg, p)
		assert.NoError(t, cfg.Validate(), name)
	}

	_, err := ParsePreset("nightmare")
	assert.ErrorIs(t, err, ErrInvalid)

	cfg := Default()
	ApplyPreset(&cfg, DifficultyFixed)
	assert.Equal(t, cfg.Speed.TickMs, cfg.Speed.MinTickMs)

	hard := Default()
	ApplyPreset(&hard, DifficultyHard)
	assert.Less(t, hard.Speed.TickMs, Default().Speed.TickMs)

	easy := Default()
	ApplyPreset(&easy, DifficultyEasy)
	assert.Greater(t, easy.Speed.TickMs, Default().Speed.TickMs)
}

func TestPresetStep(t *testing.T) {
	tests := []struct {
		from  DifficultyPreset
		delta int
		want  DifficultyPreset
	}{
		{DifficultyEasy, 1, DifficultyNormal},
		{DifficultyHard, 1, DifficultyFixed},
		{DifficultyFixed, 1, DifficultyEasy},
		{DifficultyEasy, -1, DifficultyFixed},
		{DifficultyNormal, -5, DifficultyEasy},
		{"", 1, DifficultyHard},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.Step(tt.delta), "%q step %d", tt.from, tt.delta)
	}
}
