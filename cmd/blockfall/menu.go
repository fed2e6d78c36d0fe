package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/session"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a board variant interactively",
	Long: `Start blockfall in interactive menu mode.

Use Up/Down or j/k to pick a board, Left/Right for the difficulty and
Enter to play.
Press B or Esc during a game to return to the menu.

Controls:
  Up/Down/j/k  - Choose board
  Left/Right   - Choose difficulty
  Enter/Space  - Play
  Tab          - Scoreboard
  Q            - Quit

Examples:
  blockfall menu
  blockfall menu --difficulty easy
  blockfall menu --db ./scores.db`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagPlayer, "player", "", "Name stored with your scores (default: $USER)")
}

func runMenu(_ *cobra.Command, _ []string) error {
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

	for {
		menuResult, err := tui.RunMenu(cfg, launcher.Difficulty)
		if err != nil {
			return err
		}
		cfg = menuResult.Config
		launcher.Difficulty = menuResult.Difficulty

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return nil
		}

		if menuResult.VariantID == "" {
			return nil
		}

		back, err := tui.Run(context.Background(), launcher, menuResult.VariantID, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		if !back {
			return nil
		}
	}
}
