package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all board variants",
	Long:  `Shows every registered board variant with its size.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	variants := registry.List()

	if len(variants) == 0 {
		fmt.Println("No variants available.")
		return
	}

	fmt.Println("Available variants:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, v := range variants {
		if len(v.ID) > maxIDLen {
			maxIDLen = len(v.ID)
		}
	}

	fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "ID", "Board", "Description")
	fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "--", "-----", "-----------")

	for _, v := range variants {
		size := "config"
		if v.Width > 0 && v.Height > 0 {
			size = fmt.Sprintf("%dx%d", v.Width, v.Height)
		}
		fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, v.ID, size, v.Description)
	}

	fmt.Println()
	fmt.Printf("Presets for --difficulty: %s, %s, %s, %s\n",
		config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed)
	fmt.Println("Run 'blockfall play <id>' to play a variant.")
}
