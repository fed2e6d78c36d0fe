package config

import (
	_ "embed"
)

//go:embed defaults/blockfall.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() GameConfig {
	return GameConfig{
		Board: BoardConfig{
			Width:  10,
			Height: 20,
		},
		Speed: SpeedConfig{
			TickMs:      500,
			MinTickMs:   200,
			TimeToMaxMs: 300000,
		},
		WinLines: 100,
		Input: InputConfig{
			MoveSwipe:   40,
			DropSwipe:   20,
			RotateSwipe: 0,
			FirstMove:   20,
			TapSlop:     10,
			LongPressMs: 500,
			DoubleTapMs: 200,
		},
	}
}
