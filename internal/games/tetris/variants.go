package tetris

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/registry"
)

func init() {
	registry.Register(registry.Variant{
		ID:          "classic",
		Title:       "Classic",
		Description: "10x20 board",
		Width:       10,
		Height:      20,
	})
	registry.Register(registry.Variant{
		ID:          "mini",
		Title:       "Mini",
		Description: "8x16 board for small terminals",
		Width:       8,
		Height:      16,
	})
	registry.Register(registry.Variant{
		ID:          "wide",
		Title:       "Wide",
		Description: "14x20 board",
		Width:       14,
		Height:      20,
	})
	registry.Register(registry.Variant{
		ID:          "custom",
		Title:       "Custom",
		Description: "board size from the config file",
	})
}

// ForVariant applies the board size of the named variant to base.
// Variants without a size keep base's board.
func ForVariant(id string, base Config) (Config, error) {
	v, err := registry.Get(id)
	if err != nil {
		return base, fmt.Errorf("tetris: %w", err)
	}
	if v.Width > 0 && v.Height > 0 {
		base.Width = v.Width
		base.Height = v.Height
	}
	return base, nil
}
