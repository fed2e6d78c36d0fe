package tetris

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/registry"
)

func TestFromGameDefaults(t *testing.T) {
	assert.Equal(t, DefaultConfig(), FromGame(config.Default()))
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{TickInterval: 100 * time.Millisecond}.withDefaults()

	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 20, cfg.Height)
	assert.Equal(t, 100*time.Millisecond, cfg.MinTickInterval, "minimum never exceeds the initial tick")
}

func TestInputFromGame(t *testing.T) {
	in, err := InputFromGame(config.Default().Input)
	require.NoError(t, err)

	def := DefaultInputConfig()
	assert.Equal(t, def.Move.SwipeThreshold, in.Move.SwipeThreshold)
	assert.Equal(t, def.Drop.SwipeThreshold, in.Drop.SwipeThreshold)
	assert.Equal(t, def.Rotate.SwipeThreshold, in.Rotate.SwipeThreshold)
}

func TestForVariant(t *testing.T) {
	base := DefaultConfig()

	mini, err := ForVariant("mini", base)
	require.NoError(t, err)
	assert.Equal(t, 8, mini.Width)
	assert.Equal(t, 16, mini.Height)
	assert.Equal(t, base.TickInterval, mini.TickInterval)

	base.Width = 12
	custom, err := ForVariant("custom", base)
	require.NoError(t, err)
	assert.Equal(t, 12, custom.Width)

	_, err = ForVariant("nope", base)
	assert.True(t, errors.Is(err, registry.ErrUnknownVariant))
}
