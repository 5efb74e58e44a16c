package cmd

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"apod-gallery/pkg/services"
	"apod-gallery/pkg/window"
)

// newShowWindowCmd creates a new command for showing a window of entries
func newShowWindowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-window [start]",
		Short: "Show nine entries starting at a date",
		Long: `Show the nine entries starting at the given date (YYYY-MM-DD). Gaps in the feed
are skipped by looking further ahead. Without a date the window ending at the
latest entry is shown.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := loadFeed(); err != nil {
				log.Fatalf("Failed to load feed: %v", err)
			}

			start := ""
			if len(args) > 0 {
				start = args[0]
			}
			showWindow(start)
		},
	}
}

// showWindow displays the entries of the window starting at start
func showWindow(start string) {
	win, err := services.GetWindow(start)
	if errors.Is(err, window.ErrEmptyFeed) {
		fmt.Println("No data available.")
		return
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Window starting %s:\n", win.Start)
	fmt.Println("=========================")
	if win.Fallback {
		fmt.Printf("Not enough entries after %s, showing the latest entries instead.\n\n", start)
	}

	for i, entry := range win.Entries {
		fmt.Printf("%d. %s (%s)\n", i+1, entry.DisplayTitle(), entry.Date)
		fmt.Printf("   Media: %s\n", entry.CardImageURL())
		if entry.IsVideo() {
			fmt.Println("   Type: video")
		}
	}

	fmt.Println()
	fmt.Printf("Total: %d entries\n", len(win.Entries))
}
