package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/session"
)

var (
	flagCompact bool
	flagPlayer  string
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play in the terminal",
	Long: `Start a game on the given board variant (default: classic).

Controls:
  Left/Right, A/D  - Move
  Up, W            - Rotate
  Down, S, Space   - Move down
  Mouse            - Click rotates, wheel moves
  P                - Pause (losing focus pauses too)
  R                - Restart
  C                - Toggle half-block board
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Slower start, longer ramp
  normal - Config as written
  hard   - Faster start, shorter ramp
  fixed  - No acceleration

Examples:
  blockfall play
  blockfall play mini --compact
  blockfall play --difficulty hard --player ada
  blockfall play custom --config ./my-board.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagCompact, "compact", false, "Draw the board with half-block characters")
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Name stored with your scores (default: $USER)")
}

func runPlay(_ *cobra.Command, args []string) error {
	variant := "classic"
	if len(args) > 0 {
		variant = args[0]
	}
	if err := requireVariant(variant); err != nil {
		return err
	}

	gc, err := loadGameConfig()
	if err != nil {
		return err
	}
	store := openStore()
	if store != nil {
		defer store.Close()
	}
	launcher, err := newLauncher(gc, store, session.TransportLocal)
	if err != nil {
		return err
	}

	player := flagPlayer
	if player == "" {
		player = os.Getenv("USER")
	}
	cfg := runtimeConfig(player)
	cfg.Compact = flagCompact

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := tui.Run(ctx, launcher, variant, cfg); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
