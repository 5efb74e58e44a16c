package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"apod-gallery/pkg/services"
)

// newShowEntryCmd creates a new command for showing entry details
func newShowEntryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-entry [date]",
		Short: "Show the entry of a specific date",
		Long:  `Show detailed information about the entry published on the given date (YYYY-MM-DD).`,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := loadFeed(); err != nil {
				log.Fatalf("Failed to load feed: %v", err)
			}
			showEntry(args[0])
		},
	}
}

// showEntry displays details about a single entry
func showEntry(date string) {
	entry, err := services.GetEntry(date)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Title: %s\n", entry.DisplayTitle())
	fmt.Printf("Date: %s\n", entry.Date)
	if entry.IsVideo() {
		fmt.Printf("Video: %s\n", entry.EmbedURL())
	} else {
		fmt.Printf("Image: %s\n", entry.DetailImageURL())
	}
	fmt.Println("================")
	fmt.Println(entry.Explanation)
}
