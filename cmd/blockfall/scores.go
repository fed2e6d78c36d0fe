package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagScoresAll   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show high scores for a variant",
	Long: `Display the top 10 scores (cleared lines) for the given variant
(default: classic).

Examples:
  blockfall scores
  blockfall scores mini
  blockfall scores --all
  blockfall scores wide --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Summarize every variant instead")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the variant's leaderboard")
}

func runScores(_ *cobra.Command, args []string) error {
	variantID := "classic"
	if len(args) > 0 {
		variantID = args[0]
	}
	if err := requireVariant(variantID); err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	switch {
	case flagScoresAll:
		return printAllStats(store)
	case flagScoresClear:
		if err := store.ClearScores(variantID); err != nil {
			return err
		}
		fmt.Printf("Cleared the %s leaderboard.\n", variantID)
		return nil
	default:
		return printTopScores(store, variantID)
	}
}

func printTopScores(store *storage.Store, variantID string) error {
	variant, err := registry.Get(variantID)
	if err != nil {
		return err
	}

	scores, err := store.TopScores(variantID, 10)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", variant.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'blockfall play %s' to set the first high score!\n", variantID)
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "Rank", "Player", "Lines", "Date")
	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "----", "------", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-16s  %-6d  %s\n", i+1, entry.Player, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if stats, err := store.GetGameStats(variantID); err == nil {
		fmt.Printf("Best: %d  |  Games: %d  |  Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
	return nil
}

func printAllStats(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-8s  %-5s  %-5s  %-7s  %s\n", "Board", "Games", "Best", "Average", "Last played")
	fmt.Printf("  %-8s  %-5s  %-5s  %-7s  %s\n", "-----", "-----", "----", "-------", "-----------")
	for _, id := range ids {
		s := all[id]
		fmt.Printf("  %-8s  %-5d  %-5d  %-7.1f  %s\n", id, s.GamesCount, s.HighScore, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
