package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/storage"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history [player]",
	Short: "Show recently finished games",
	Long: `List recently finished games across every transport, newest first.
Restarted and disconnected games are listed too; a * marks a win.
Naming a player also prints their totals.

Examples:
  blockfall history
  blockfall history ada --limit 50`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of games to show")
}

func runHistory(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	var records []storage.SessionRecord
	if len(args) > 0 {
		records, err = store.PlayerHistory(args[0], flagHistoryLimit)
	} else {
		records, err = store.RecentSessions(flagHistoryLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieving history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No games recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-8s  %-5s  %-5s  %-10s  %-6s  %s\n", "Player", "Board", "Via", "Lines", "End", "Time", "Date")
	fmt.Printf("  %-16s  %-8s  %-5s  %-5s  %-10s  %-6s  %s\n", "------", "-----", "---", "-----", "---", "----", "----")
	for _, r := range records {
		end := r.EndReason
		if r.Won {
			end += "*"
		}
		fmt.Printf("  %-16s  %-8s  %-5s  %-5d  %-10s  %-6s  %s\n",
			r.Player, r.GameID, r.Transport, r.Lines, end,
			formatDuration(r.Duration), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if len(args) > 0 {
		printSummary(store, args[0])
	}
	return nil
}

func printSummary(store *storage.Store, player string) {
	sum, err := store.PlayerSummary(player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Printf("%s: %d games, %d won, %d lines, best run %d, played %s\n",
		sum.Player, sum.Games, sum.Wins, sum.Lines, sum.BestRun, formatDuration(sum.PlaySecs))

	boards := make([]string, 0, len(sum.Boards))
	for id := range sum.Boards {
		boards = append(boards, id)
	}
	sort.Strings(boards)
	for _, id := range boards {
		fmt.Printf("  %-8s best %d\n", id, sum.Boards[id])
	}
}

func formatDuration(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
