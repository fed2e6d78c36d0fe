// blockfall is a falling-block puzzle for the terminal, SSH and the browser.
//
// Usage:
//
//	blockfall list              - List board variants
//	blockfall play [variant]    - Play in the terminal
//	blockfall menu              - Pick a variant interactively
//	blockfall scores [variant]  - Show high scores
//	blockfall history [player]  - Show recently finished games
//	blockfall serve             - Serve over SSH and/or WebSocket
//
// Global flags:
//
//	--fps <rate>          - Session frame rate (default: 60)
//	--seed <value>        - RNG seed for reproducible piece order
//	--db <path>           - Database path (default: ~/.blockfall/scores.db)
//	--config <path>       - Game config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/session"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "blockfall - a falling-block puzzle for your terminal",
	Long: `blockfall is a falling-block puzzle. Steer pieces as they fall and
fill rows to clear them. The game speeds up the longer you play.

Available commands:
  list     - Show all board variants
  play     - Play a variant directly
  menu     - Interactive variant picker
  scores   - View high scores
  history  - View recently finished games
  serve    - Serve over SSH and/or WebSocket

Examples:
  blockfall list
  blockfall play
  blockfall play mini --compact
  blockfall menu --difficulty hard
  blockfall serve --ssh :2222 --http :8080
  blockfall scores classic`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Session frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// requireVariant fails unless id is a registered variant.
func requireVariant(id string) error {
	if !registry.Exists(id) {
		return fmt.Errorf("unknown variant %q (run 'blockfall list' to see available variants)", id)
	}
	return nil
}

// loadGameConfig loads the config file named by --config.
func loadGameConfig() (config.GameConfig, error) {
	gc, err := config.Load(flagConfig)
	if err != nil {
		return gc, fmt.Errorf("loading config: %w", err)
	}
	return gc, nil
}

// openStore opens the score database. Play continues without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// newLauncher builds the session launcher shared by every host, starting
// on the --difficulty preset.
func newLauncher(gc config.GameConfig, store *storage.Store, transport string) (session.Launcher, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return session.Launcher{}, err
	}
	l := session.Launcher{
		Game:       gc,
		Difficulty: preset,
		Transport:  transport,
		FPS:        flagFPS,
		Seed:       flagSeed,
	}
	if store != nil {
		l.Sink = store
	}
	return l, nil
}

// runtimeConfig returns host settings sized to the current terminal.
func runtimeConfig(player string) core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.FPS = flagFPS
	cfg.Seed = flagSeed
	if player != "" {
		cfg.Player = player
	}
	return cfg
}
